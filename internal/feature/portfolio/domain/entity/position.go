// Package entity defines the domain models of the portfolio store.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is a single lot of one symbol held by a user. A user holds at
// most one position per symbol; positions are never modified in place.
type Position struct {
	ID          uint
	UserID      uint
	Symbol      string
	Name        string // company name given at purchase, may be empty
	BoughtPrice decimal.Decimal
	Quantity    int
	PurchasedAt time.Time
}

// Cost is BoughtPrice × Quantity.
func (p Position) Cost() decimal.Decimal {
	return p.BoughtPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Holdings is a user's open positions together with their cost basis.
// InvestedTotal always equals the sum of Cost over Positions.
type Holdings struct {
	Positions     []Position
	InvestedTotal decimal.Decimal
}
