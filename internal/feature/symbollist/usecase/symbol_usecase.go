// Package usecase implements the curated symbol universe.
package usecase

import (
	"context"
	"fmt"
	"strings"

	marketentity "stock_portfolio/internal/feature/market/domain/entity"
	"stock_portfolio/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for symbol (stock ticker) data.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	Upsert(ctx context.Context, symbols []entity.Symbol) error
}

// ListingSource lists the symbols an exchange trades.
type ListingSource interface {
	ListSymbols(ctx context.Context, exchange string) ([]marketentity.Listing, error)
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo   SymbolRepository
	source ListingSource
}

// NewSymbolUsecase creates a SymbolUsecase. source is only needed by Seed.
func NewSymbolUsecase(r SymbolRepository, source ListingSource) *SymbolUsecase {
	return &SymbolUsecase{repo: r, source: source}
}

// ListActiveSymbols returns all active symbols from the repository.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// Seed stores the first limit listings of exchange as the active universe,
// keeping provider order as the sort key. It returns the number stored.
func (u *SymbolUsecase) Seed(ctx context.Context, exchange string, limit int) (int, error) {
	if u.source == nil {
		return 0, fmt.Errorf("seed %s: no listing source configured", exchange)
	}
	if limit <= 0 {
		return 0, fmt.Errorf("seed %s: limit must be positive, got %d", exchange, limit)
	}

	listings, err := u.source.ListSymbols(ctx, exchange)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", exchange, err)
	}

	seen := make(map[string]struct{}, limit)
	symbols := make([]entity.Symbol, 0, limit)
	for _, l := range listings {
		if len(symbols) == limit {
			break
		}
		code := strings.ToUpper(strings.TrimSpace(l.Symbol))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		symbols = append(symbols, entity.Symbol{
			Code:     code,
			Name:     l.Name,
			Market:   exchange,
			IsActive: true,
			SortKey:  len(symbols) + 1,
		})
	}

	if err := u.repo.Upsert(ctx, symbols); err != nil {
		return 0, fmt.Errorf("seed %s: %w", exchange, err)
	}
	return len(symbols), nil
}
