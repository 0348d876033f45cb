package ledger

import (
	"context"
	"time"

	"github.com/msalvatierra/bodegabot/internal/ledger/dto"
	"github.com/msalvatierra/bodegabot/internal/model"
)

type UseCase interface {
	// RegisterEntry appends a new lot, raises the product's stock and
	// journals an entry movement carrying the product's sale price and the
	// lot's unit cost. Returns the lot and the resulting total stock.
	RegisterEntry(ctx context.Context, sender string, input *dto.EntryInput) (*model.Lot, int, error)

	// RegisterExit allocates the quantity against the oldest lot with
	// stock (FIFO by purchase date), lowers the product's stock and
	// journals an exit movement. Fails with ErrLotExpired or
	// ErrInsufficientStock without touching any row.
	RegisterExit(ctx context.Context, sender string, input *dto.ExitInput) (*model.Lot, int, error)

	// Lots lists a product's lots in sheet order.
	Lots(ctx context.Context, sender, code string) ([]model.Lot, error)

	// ScanAlerts evaluates the three independent stock predicates for
	// every lot: low stock, near expiry (within 21 days) and expired.
	ScanAlerts(ctx context.Context, sender string, today time.Time) (*model.AlertReport, error)
}
