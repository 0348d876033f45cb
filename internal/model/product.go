package model

// Product is one row of a client's product sheet.
//
// Quantity is derived: once lots exist for the product it equals the sum of
// the lot availability, and the stored cell is rewritten on every entry and
// exit to keep the sheet readable on its own.
type Product struct {
	Code       string
	Name       string
	Brand      string
	Price      float64
	Quantity   int
	MinStock   int
	Location   string
	Package    string
	Perishable bool
	Category   string

	// RowIndex is the 1-based sheet row this product was read from,
	// counting the header row. Zero for products not yet persisted.
	RowIndex int
}
