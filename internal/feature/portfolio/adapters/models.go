// Package adapters persists the portfolio store with gorm.
package adapters

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stock_portfolio/internal/feature/portfolio/domain/entity"
)

// accountModel is the portfolio's view of the users table: only the
// invested total is read or written here.
type accountModel struct {
	ID            uint            `gorm:"primaryKey"`
	InvestedTotal decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0"`
	UpdatedAt     time.Time
}

func (accountModel) TableName() string { return "users" }

// PositionModel is the gorm model for the positions table.
type PositionModel struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"not null;uniqueIndex:idx_positions_user_symbol"`
	Symbol      string          `gorm:"size:20;not null;uniqueIndex:idx_positions_user_symbol"`
	Name        string          `gorm:"size:255;not null;default:''"`
	BoughtPrice decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	Quantity    int             `gorm:"not null"`
	PurchasedAt time.Time       `gorm:"not null"`
}

func (PositionModel) TableName() string { return "positions" }

func (m PositionModel) toEntity() entity.Position {
	return entity.Position{
		ID:          m.ID,
		UserID:      m.UserID,
		Symbol:      m.Symbol,
		Name:        m.Name,
		BoughtPrice: m.BoughtPrice,
		Quantity:    m.Quantity,
		PurchasedAt: m.PurchasedAt,
	}
}

// TradeModel is the gorm model for the append-only trades table.
type TradeModel struct {
	ID         string          `gorm:"primaryKey;size:36"`
	UserID     uint            `gorm:"not null;index:idx_trades_user_executed"`
	Side       string          `gorm:"size:4;not null"`
	Symbol     string          `gorm:"size:20;not null"`
	Price      decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	Quantity   int             `gorm:"not null"`
	ExecutedAt time.Time       `gorm:"not null;index:idx_trades_user_executed"`
}

func (TradeModel) TableName() string { return "trades" }

func (m TradeModel) toEntity() entity.Trade {
	id, _ := uuid.Parse(m.ID)
	return entity.Trade{
		ID:         id,
		UserID:     m.UserID,
		Side:       entity.Side(m.Side),
		Symbol:     m.Symbol,
		Price:      m.Price,
		Quantity:   m.Quantity,
		ExecutedAt: m.ExecutedAt,
	}
}

// Models lists the tables owned by the portfolio store, for migrations.
// The users table is owned by the auth feature.
func Models() []any {
	return []any{&PositionModel{}, &TradeModel{}}
}
