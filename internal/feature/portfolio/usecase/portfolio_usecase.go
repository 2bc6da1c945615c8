// Package usecase implements the portfolio store: holdings, simulated
// buys and sells, and the trade journal.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stock_portfolio/internal/feature/portfolio/domain/entity"
	"stock_portfolio/internal/shared/apperr"
)

const (
	maxSymbolLength = 20
	maxNameLength   = 255
)

// Prices are stored as decimal(20,8).
const priceScale = 8

var maxPrice = decimal.New(1, 20-priceScale)

// PortfolioRepository persists positions, the invested total and trades.
// Buy and Sell must be atomic per user.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type PortfolioRepository interface {
	// ListHoldings returns ErrUserNotFound for an unknown user.
	ListHoldings(ctx context.Context, userID uint) (*entity.Holdings, error)
	// Buy returns ErrUserNotFound, ErrDuplicatePosition or ErrPositionLimit.
	Buy(ctx context.Context, order entity.BuyOrder) (*entity.Position, error)
	// Sell returns ErrUserNotFound or ErrPositionNotFound.
	Sell(ctx context.Context, order entity.SellOrder) (*entity.Position, error)
	// ListTrades returns at most limit trades, newest first.
	ListTrades(ctx context.Context, userID uint, limit int) ([]entity.Trade, error)
}

// PortfolioUsecase validates trade requests before they reach the store.
type PortfolioUsecase struct {
	repo  PortfolioRepository
	cfg   Config
	now   func() time.Time
	newID func() uuid.UUID
}

// NewPortfolioUsecase creates a PortfolioUsecase.
func NewPortfolioUsecase(repo PortfolioRepository, cfg Config) *PortfolioUsecase {
	return &PortfolioUsecase{repo: repo, cfg: cfg, now: time.Now, newID: uuid.New}
}

// NormalizeSymbol trims and uppercases a ticker and checks its length.
func NormalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", ErrSymbolRequired
	}
	if len(symbol) > maxSymbolLength {
		return "", ErrSymbolTooLong
	}
	return symbol, nil
}

func requireUser(userID uint) error {
	if userID == 0 {
		return apperr.ErrUnauthenticated
	}
	return nil
}

// ListHoldings returns the user's positions and invested total.
func (u *PortfolioUsecase) ListHoldings(ctx context.Context, userID uint) (*entity.Holdings, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	h, err := u.repo.ListHoldings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	return h, nil
}

// Buy opens a position of quantity units of symbol at price. name is the
// company name shown next to the position and may be empty.
func (u *PortfolioUsecase) Buy(ctx context.Context, userID uint, symbol, name string, price decimal.Decimal, quantity int) (*entity.Position, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrNameTooLong
	}
	if !price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if !price.Equal(price.Truncate(priceScale)) {
		return nil, ErrPricePrecision
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return nil, ErrPriceTooLarge
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	pos, err := u.repo.Buy(ctx, entity.BuyOrder{
		TradeID:      u.newID(),
		UserID:       userID,
		Symbol:       symbol,
		Name:         name,
		Price:        price,
		Quantity:     quantity,
		At:           u.now().UTC(),
		MaxPositions: u.cfg.MaxPositions,
	})
	if err != nil {
		return nil, fmt.Errorf("buy %s: %w", symbol, err)
	}
	slog.Info("position opened", "user_id", userID, "symbol", symbol, "quantity", quantity, "price", price.String())
	return pos, nil
}

// Sell closes the user's position in symbol and returns it.
func (u *PortfolioUsecase) Sell(ctx context.Context, userID uint, symbol string) (*entity.Position, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	pos, err := u.repo.Sell(ctx, entity.SellOrder{
		TradeID: u.newID(),
		UserID:  userID,
		Symbol:  symbol,
		At:      u.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("sell %s: %w", symbol, err)
	}
	slog.Info("position closed", "user_id", userID, "symbol", symbol)
	return pos, nil
}

// ListTrades returns the most recent journal rows, newest first.
func (u *PortfolioUsecase) ListTrades(ctx context.Context, userID uint) ([]entity.Trade, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	trades, err := u.repo.ListTrades(ctx, userID, u.cfg.TradeLimit)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return trades, nil
}
