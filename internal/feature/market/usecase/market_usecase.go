// Package usecase implements the Market Data Gateway: quotes, history,
// search and trending listings over a single provider.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"stock_portfolio/internal/feature/market/domain/entity"
	symbolentity "stock_portfolio/internal/feature/symbollist/domain/entity"
	"stock_portfolio/internal/platform/metrics"
	"stock_portfolio/internal/shared/apperr"
)

// MarketRepository is the provider capability set. Exactly one
// implementation is wired per deployment.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// Quote returns ErrUnknownSymbol when the provider has no price.
	Quote(ctx context.Context, symbol string) (*entity.Quote, error)
	// Candles returns ErrNoCandles when the window is empty.
	Candles(ctx context.Context, symbol, resolution string, from, to time.Time) ([]entity.Candle, error)
	Search(ctx context.Context, query string) ([]entity.Listing, error)
	ListSymbols(ctx context.Context, exchange string) ([]entity.Listing, error)
}

// UniverseRepository lists the curated symbols used for trending.
type UniverseRepository interface {
	ListActive(ctx context.Context) ([]symbolentity.Symbol, error)
}

// MarketUsecase normalizes provider responses and errors.
type MarketUsecase struct {
	repo     MarketRepository
	universe UniverseRepository
	cfg      Config
	now      func() time.Time
}

// NewMarketUsecase creates a MarketUsecase. universe may be nil, in which
// case trending always comes from the provider listing.
func NewMarketUsecase(repo MarketRepository, universe UniverseRepository, cfg Config) *MarketUsecase {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &MarketUsecase{repo: repo, universe: universe, cfg: cfg, now: time.Now}
}

// NormalizeSymbol trims and uppercases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// upstream tags uncategorized provider errors as UpstreamUnavailable.
func upstream(op, symbol string, err error) error {
	if apperr.KindOf(err) != apperr.KindInternal {
		return fmt.Errorf("%s %s: %w", op, symbol, err)
	}
	return fmt.Errorf("%s %s: %w: %w", op, symbol, apperr.ErrUpstreamUnavailable, err)
}

// GetQuote returns the current price of symbol. A missing price is an error,
// never a zero quote.
func (u *MarketUsecase) GetQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrSymbolRequired
	}
	q, err := u.repo.Quote(ctx, symbol)
	if err != nil {
		return nil, upstream("quote", symbol, err)
	}
	if !q.CurrentPrice.IsPositive() {
		return nil, upstream("quote", symbol, ErrUnknownSymbol)
	}
	return q, nil
}

// GetHistory returns candles for the configured trailing window.
func (u *MarketUsecase) GetHistory(ctx context.Context, symbol string) (*entity.HistoricalSeries, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrSymbolRequired
	}
	to := u.now()
	from := to.Add(-u.cfg.Window)

	candles, err := u.repo.Candles(ctx, symbol, u.cfg.Resolution, from, to)
	if err != nil {
		return nil, upstream("history", symbol, err)
	}
	if len(candles) == 0 {
		return nil, upstream("history", symbol, ErrNoCandles)
	}
	return &entity.HistoricalSeries{Symbol: symbol, Resolution: u.cfg.Resolution, Candles: candles}, nil
}

// Search returns enriched matches for query. A blank query returns an empty
// result without contacting the provider.
func (u *MarketUsecase) Search(ctx context.Context, query string) ([]entity.StockRow, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entity.StockRow{}, nil
	}
	listings, err := u.repo.Search(ctx, query)
	if err != nil {
		return nil, upstream("search", query, err)
	}
	if u.cfg.SearchLimit > 0 && len(listings) > u.cfg.SearchLimit {
		listings = listings[:u.cfg.SearchLimit]
	}
	return u.enrich(ctx, listings), nil
}

// Trending returns the active curated universe when one exists, otherwise
// the first TrendingLimit symbols of the provider's exchange listing.
func (u *MarketUsecase) Trending(ctx context.Context) ([]entity.StockRow, error) {
	listings, err := u.curated(ctx)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		listings, err = u.repo.ListSymbols(ctx, u.cfg.Exchange)
		if err != nil {
			return nil, upstream("list symbols", u.cfg.Exchange, err)
		}
	}
	if u.cfg.TrendingLimit > 0 && len(listings) > u.cfg.TrendingLimit {
		listings = listings[:u.cfg.TrendingLimit]
	}
	return u.enrich(ctx, listings), nil
}

func (u *MarketUsecase) curated(ctx context.Context) ([]entity.Listing, error) {
	if u.universe == nil {
		return nil, nil
	}
	symbols, err := u.universe.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list universe: %w", err)
	}
	out := make([]entity.Listing, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, entity.Listing{Symbol: s.Code, Name: s.Name})
	}
	return out, nil
}

// enrich attaches quotes to listings concurrently. Row order is preserved;
// a failed lookup leaves that row's price fields nil.
func (u *MarketUsecase) enrich(ctx context.Context, listings []entity.Listing) []entity.StockRow {
	rows := make([]entity.StockRow, len(listings))
	var g errgroup.Group
	g.SetLimit(u.cfg.Concurrency)

	for i, l := range listings {
		i, l := i, l
		rows[i] = entity.StockRow{Symbol: l.Symbol, Name: l.Name}
		g.Go(func() error {
			q, err := u.GetQuote(ctx, l.Symbol)
			if err != nil {
				metrics.EnrichmentFailures.Inc()
				slog.Warn("quote enrichment failed", "symbol", l.Symbol, "error", err)
				return nil
			}
			rows[i].Price = &q.CurrentPrice
			rows[i].Change = &q.ChangeAbsolute
			rows[i].ChangePercent = &q.ChangePercent
			return nil
		})
	}
	_ = g.Wait()
	return rows
}
