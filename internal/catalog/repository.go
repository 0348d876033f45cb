package catalog

import (
	"context"

	"github.com/msalvatierra/bodegabot/internal/model"
)

// Field names a product column the update flow may rewrite.
type Field int

const (
	FieldName Field = iota
	FieldBrand
	FieldPrice
	FieldMinStock
	FieldLocation
)

type Repository interface {
	FindAll(ctx context.Context, sender string) ([]model.Product, error)
	FindByCode(ctx context.Context, sender, code string) (*model.Product, error)
	Create(ctx context.Context, sender string, p *model.Product) error
	UpdateField(ctx context.Context, sender string, rowIndex int, field Field, value string) error

	// SetQuantity rewrites the stored stock cell. Ledger operations call
	// this after every entry and exit to keep the cell in sync with lot
	// availability.
	SetQuantity(ctx context.Context, sender string, rowIndex, quantity int) error

	Delete(ctx context.Context, sender string, rowIndex int) error
}
