// Package entity defines the derived valuation of a portfolio.
package entity

import "github.com/shopspring/decimal"

// SeriesPoint is a labelled value in a price series.
type SeriesPoint struct {
	Name  string
	Value decimal.Decimal
}

// PositionValuation is one position priced at the latest quote.
// CurrentPrice, Value and ChangePercent are nil when PriceUnavailable.
type PositionValuation struct {
	Symbol           string
	Name             string
	Quantity         int
	BoughtPrice      decimal.Decimal
	CurrentPrice     *decimal.Decimal
	Value            *decimal.Decimal
	ChangePercent    *decimal.Decimal
	PriceUnavailable bool
	HistoryDegraded  bool // Series fell back to a single current-price point
	Series           []SeriesPoint
}

// Snapshot summarizes a portfolio. BoughtValue is the full invested total;
// Profit and ProfitPercent only cover positions that could be priced.
type Snapshot struct {
	BoughtValue   decimal.Decimal
	CurrentValue  decimal.Decimal
	Profit        decimal.Decimal
	ProfitPercent decimal.Decimal
	Positions     []PositionValuation
	Combined      []SeriesPoint
}
