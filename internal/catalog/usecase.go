package catalog

import (
	"context"

	"github.com/msalvatierra/bodegabot/internal/catalog/dto"
	"github.com/msalvatierra/bodegabot/internal/model"
)

type UseCase interface {
	List(ctx context.Context, sender string) ([]model.Product, error)
	Find(ctx context.Context, sender, code string) (*model.Product, error)

	// Add generates the product code from the live table and appends the
	// row with zero stock; initial stock arrives through a ledger entry.
	Add(ctx context.Context, sender string, input *dto.AddProductInput) (*model.Product, error)

	UpdateField(ctx context.Context, sender, code string, field Field, value string) (*model.Product, error)

	// Remove deletes the product row and cascades to its lot rows.
	// History rows are never touched. Returns the number of lots removed.
	Remove(ctx context.Context, sender, code string) (int, error)
}
