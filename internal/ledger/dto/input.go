package dto

import "time"

type EntryInput struct {
	Code         string
	PurchaseDate time.Time
	Expiry       *time.Time
	UnitCost     float64
	Quantity     int
}

type ExitInput struct {
	Code     string
	ExitDate time.Time
	Quantity int
}
