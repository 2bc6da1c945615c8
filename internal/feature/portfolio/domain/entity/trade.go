package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade is an immutable journal row written with every buy or sell.
// A sell is recorded at the position's bought price.
type Trade struct {
	ID         uuid.UUID
	UserID     uint
	Side       Side
	Symbol     string
	Price      decimal.Decimal
	Quantity   int
	ExecutedAt time.Time
}

// BuyOrder is a validated request to open a position.
type BuyOrder struct {
	TradeID      uuid.UUID
	UserID       uint
	Symbol       string
	Name         string
	Price        decimal.Decimal
	Quantity     int
	At           time.Time
	MaxPositions int // 0 means unlimited
}

// SellOrder is a validated request to close a position.
type SellOrder struct {
	TradeID uuid.UUID
	UserID  uint
	Symbol  string
	At      time.Time
}
