package ledger

import "errors"

var (
	// ErrInvalidQuantity means the movement quantity is zero or negative.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrNoStock means no lot of the product has availability left.
	ErrNoStock = errors.New("no lot with available stock")

	// ErrInsufficientStock means the oldest open lot cannot cover the
	// requested exit quantity.
	ErrInsufficientStock = errors.New("insufficient stock on oldest lot")

	// ErrLotExpired means the oldest open lot expired before the exit
	// date; expired stock is never sold.
	ErrLotExpired = errors.New("oldest lot is expired")

	// ErrExpiryRequired means the product line is perishable so every lot
	// needs an expiry date.
	ErrExpiryRequired = errors.New("expiry date required for perishable product")
)
