package history

import (
	"context"

	"github.com/msalvatierra/bodegabot/internal/model"
)

// Repository is the append-only movement journal. There is deliberately no
// update or delete: history rows are the audit trail.
type Repository interface {
	FindAll(ctx context.Context, sender string) ([]model.Movement, error)
	Append(ctx context.Context, sender string, mv *model.Movement) error

	// ClientName is the display name from the client index, used to head
	// the sales report.
	ClientName(ctx context.Context, sender string) (string, error)
}
