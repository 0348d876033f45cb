package history

import (
	"context"
	"time"

	"github.com/msalvatierra/bodegabot/internal/model"
)

type UseCase interface {
	// IsDuplicate reports whether a movement with the same (date, code,
	// kind) is already journaled. The conversation asks for confirmation
	// before recording a second one.
	IsDuplicate(ctx context.Context, sender, date, code string, kind model.MovementKind) (bool, error)

	Record(ctx context.Context, sender string, mv *model.Movement) error

	// BuildReport aggregates the exit history and the lot ledger into the
	// sales report summary.
	BuildReport(ctx context.Context, sender string, today time.Time) (*model.ReportSummary, error)
}
