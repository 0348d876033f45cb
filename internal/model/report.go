package model

// DateTotal is total units sold on one calendar date.
type DateTotal struct {
	Date  string
	Total int
}

// ProductTotal is total units sold for one product name.
type ProductTotal struct {
	Name  string
	Total int
}

// ReportSummary is the aggregation result rendered into the sales report.
type ReportSummary struct {
	// ClientName is the display name from the client index.
	ClientName string

	// PeakDates holds every date tied for the maximum units sold.
	PeakDates []DateTotal

	// BestSellers and WorstSellers hold up to three products each, ranked
	// by units sold. Ties keep the order the rows were first seen in.
	BestSellers  []ProductTotal
	WorstSellers []ProductTotal

	// Profit accumulates (price - cost) * quantity over exit rows that
	// carry both figures.
	Profit float64

	// ExpiryLoss accumulates available * unit cost over expired lots that
	// still hold stock.
	ExpiryLoss float64
}
