package model

import "time"

// Lot is a discrete batch of stock for one product, with its own purchase
// date, unit cost and optional expiry. Lots are identified by
// (ProductCode, ID) where ID is a per-product sequence starting at 1.
type Lot struct {
	ProductCode  string
	ID           int
	PurchaseDate time.Time
	Expiry       *time.Time // nil for non-perishable product lines
	UnitCost     float64
	Original     int
	Available    int

	RowIndex int
}

// Exhausted reports whether the lot has no stock left. Exhausted lots stay
// on the sheet as part of the cost history.
func (l *Lot) Exhausted() bool {
	return l.Available <= 0
}

// Expired reports whether the lot's expiry date is strictly before the given
// day. Both sides compare as calendar dates, so the day's wall-clock location
// cannot shift the result. Lots without an expiry date never expire.
func (l *Lot) Expired(day time.Time) bool {
	return l.Expiry != nil && truncateDay(*l.Expiry).Before(truncateDay(day))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LotAlert pairs a lot with its owning product for the stock and expiry
// scans.
type LotAlert struct {
	Product Product
	Lot     Lot
}

// AlertReport groups the three independent scan results. A lot can appear in
// LowStock and in exactly one of NearExpiry or Expired at the same time.
type AlertReport struct {
	LowStock   []LotAlert
	NearExpiry []LotAlert
	Expired    []LotAlert
}
