package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle is one OHLCV bar.
type Candle struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// HistoricalSeries is an ordered (oldest first) price history for a symbol.
type HistoricalSeries struct {
	Symbol     string
	Resolution string
	Candles    []Candle
}
