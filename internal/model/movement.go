package model

// MovementKind is the movement type as written on the history sheet. The
// Spanish values are part of the client-visible sheet format.
type MovementKind string

const (
	KindEntry MovementKind = "Entrada"
	KindExit  MovementKind = "Salida"
)

// Movement is one immutable row of the movement-history sheet. Rows are
// append-only: they are never updated or deleted, including when the product
// they reference is removed.
type Movement struct {
	Date       string // YYYY-MM-DD
	Code       string
	Name       string
	Kind       MovementKind
	Quantity   int
	FinalStock int

	// UnitPrice and UnitCost are captured at movement time for profit
	// reporting. Rows written before cost capture existed have neither;
	// aggregation skips those rows rather than treating them as zero.
	UnitPrice *float64
	UnitCost  *float64
}
