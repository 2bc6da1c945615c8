package adapters

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_portfolio/internal/feature/portfolio/domain/entity"
	"stock_portfolio/internal/feature/portfolio/usecase"
)

// Money columns are decimal(20,8).
const priceScale = 8

type portfolioGorm struct {
	db *gorm.DB
}

var _ usecase.PortfolioRepository = (*portfolioGorm)(nil)

// NewPortfolioRepository creates a gorm-backed PortfolioRepository. db
// must be opened with TranslateError so the (user_id, symbol) unique index
// surfaces as gorm.ErrDuplicatedKey.
func NewPortfolioRepository(db *gorm.DB) *portfolioGorm {
	return &portfolioGorm{db: db}
}

// lockAccount reads the user row with SELECT ... FOR UPDATE, serializing
// every buy and sell of the same user. sqlite ignores the locking clause
// and serializes writers on its own.
func lockAccount(tx *gorm.DB, userID uint) (*accountModel, error) {
	var acct accountModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", userID).
		First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func setInvestedTotal(tx *gorm.DB, acct *accountModel, total decimal.Decimal) error {
	return tx.Model(acct).Update("invested_total", total).Error
}

func (r *portfolioGorm) ListHoldings(ctx context.Context, userID uint) (*entity.Holdings, error) {
	h := &entity.Holdings{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var acct accountModel
		if err := tx.Where("id = ?", userID).First(&acct).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrUserNotFound
			}
			return err
		}

		var rows []PositionModel
		if err := tx.Where("user_id = ?", userID).
			Order("purchased_at ASC").
			Order("id ASC").
			Find(&rows).Error; err != nil {
			return err
		}

		h.InvestedTotal = acct.InvestedTotal
		h.Positions = make([]entity.Position, 0, len(rows))
		for _, m := range rows {
			h.Positions = append(h.Positions, m.toEntity())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *portfolioGorm) Buy(ctx context.Context, order entity.BuyOrder) (*entity.Position, error) {
	var created PositionModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acct, err := lockAccount(tx, order.UserID)
		if err != nil {
			return err
		}

		var held []string
		if err := tx.Model(&PositionModel{}).
			Where("user_id = ?", order.UserID).
			Pluck("symbol", &held).Error; err != nil {
			return err
		}
		for _, s := range held {
			if s == order.Symbol {
				return usecase.ErrDuplicatePosition
			}
		}
		if order.MaxPositions > 0 && len(held) >= order.MaxPositions {
			return usecase.ErrPositionLimit
		}

		created = PositionModel{
			UserID:      order.UserID,
			Symbol:      order.Symbol,
			Name:        order.Name,
			BoughtPrice: order.Price.Round(priceScale),
			Quantity:    order.Quantity,
			PurchasedAt: order.At,
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return usecase.ErrDuplicatePosition
			}
			return err
		}
		// The total must track the price as the column stored it.
		if err := tx.First(&created, created.ID).Error; err != nil {
			return err
		}

		cost := created.toEntity().Cost()
		if err := setInvestedTotal(tx, acct, acct.InvestedTotal.Add(cost)); err != nil {
			return err
		}

		return tx.Create(&TradeModel{
			ID:         order.TradeID.String(),
			UserID:     order.UserID,
			Side:       string(entity.SideBuy),
			Symbol:     order.Symbol,
			Price:      created.BoughtPrice,
			Quantity:   order.Quantity,
			ExecutedAt: order.At,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	pos := created.toEntity()
	return &pos, nil
}

func (r *portfolioGorm) Sell(ctx context.Context, order entity.SellOrder) (*entity.Position, error) {
	var removed PositionModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acct, err := lockAccount(tx, order.UserID)
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND symbol = ?", order.UserID, order.Symbol).
			First(&removed).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrPositionNotFound
			}
			return err
		}
		if err := tx.Delete(&PositionModel{}, removed.ID).Error; err != nil {
			return err
		}

		total := acct.InvestedTotal.Sub(removed.toEntity().Cost())
		if total.IsNegative() {
			total = decimal.Zero
		}
		if err := setInvestedTotal(tx, acct, total); err != nil {
			return err
		}

		return tx.Create(&TradeModel{
			ID:         order.TradeID.String(),
			UserID:     order.UserID,
			Side:       string(entity.SideSell),
			Symbol:     removed.Symbol,
			Price:      removed.BoughtPrice,
			Quantity:   removed.Quantity,
			ExecutedAt: order.At,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	pos := removed.toEntity()
	return &pos, nil
}

func (r *portfolioGorm) ListTrades(ctx context.Context, userID uint, limit int) ([]entity.Trade, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("executed_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []TradeModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	trades := make([]entity.Trade, 0, len(rows))
	for _, m := range rows {
		trades = append(trades, m.toEntity())
	}
	return trades, nil
}
