package entity

import "github.com/shopspring/decimal"

// Listing is a symbol and display name as returned by search or exchange listings.
type Listing struct {
	Symbol string
	Name   string
}

// StockRow is a listing enriched with a quote. Price fields are nil when
// enrichment failed.
type StockRow struct {
	Symbol        string
	Name          string
	Price         *decimal.Decimal
	Change        *decimal.Decimal
	ChangePercent *decimal.Decimal
}
