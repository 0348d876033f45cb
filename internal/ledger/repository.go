package ledger

import (
	"context"

	"github.com/msalvatierra/bodegabot/internal/model"
)

type Repository interface {
	// FindByProduct returns the product's lots in sheet order.
	FindByProduct(ctx context.Context, sender, code string) ([]model.Lot, error)

	// FindAll returns every lot for the sender, for the alert scan and
	// expiry-loss aggregation.
	FindAll(ctx context.Context, sender string) ([]model.Lot, error)

	Append(ctx context.Context, sender string, lot *model.Lot) error

	// SetAvailable rewrites the availability cell of the lot at rowIndex.
	// Exhausted lots keep their row; availability just reaches zero.
	SetAvailable(ctx context.Context, sender string, rowIndex, available int) error

	// DeleteByProduct removes every lot row of a product, as the cascade
	// of an explicit product deletion. Returns the number of rows removed.
	DeleteByProduct(ctx context.Context, sender, code string) (int, error)
}
