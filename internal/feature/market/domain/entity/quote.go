// Package entity defines the market data shapes exposed by the gateway,
// independent of any provider's field names.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time price snapshot for a symbol.
type Quote struct {
	Symbol         string
	CurrentPrice   decimal.Decimal
	ChangeAbsolute decimal.Decimal
	ChangePercent  decimal.Decimal
	Volume         *int64 // nil when the provider does not report it
	FetchedAt      time.Time
}
