// Package usecase computes portfolio snapshots from holdings and market data.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	marketentity "stock_portfolio/internal/feature/market/domain/entity"
	portfolioentity "stock_portfolio/internal/feature/portfolio/domain/entity"
	"stock_portfolio/internal/feature/valuation/domain/entity"
	"stock_portfolio/internal/shared/apperr"
)

// CurrentLabel names the single point used when history is unavailable.
const CurrentLabel = "Current"

const seriesDateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// HoldingsLister reads a user's positions.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (portfolio and market usecases).
type HoldingsLister interface {
	ListHoldings(ctx context.Context, userID uint) (*portfolioentity.Holdings, error)
}

// MarketReader fetches prices for a single symbol.
type MarketReader interface {
	GetQuote(ctx context.Context, symbol string) (*marketentity.Quote, error)
	GetHistory(ctx context.Context, symbol string) (*marketentity.HistoricalSeries, error)
}

// ValuationUsecase builds snapshots. Provider failures degrade single rows
// and never fail the snapshot.
type ValuationUsecase struct {
	holdings    HoldingsLister
	market      MarketReader
	concurrency int
}

// NewValuationUsecase creates a ValuationUsecase that fetches at most
// concurrency symbols at a time.
func NewValuationUsecase(holdings HoldingsLister, market MarketReader, concurrency int) *ValuationUsecase {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ValuationUsecase{holdings: holdings, market: market, concurrency: concurrency}
}

// Snapshot values every position of userID. Only a store failure is returned.
func (u *ValuationUsecase) Snapshot(ctx context.Context, userID uint) (*entity.Snapshot, error) {
	if userID == 0 {
		return nil, apperr.ErrUnauthenticated
	}
	h, err := u.holdings.ListHoldings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	rows := make([]entity.PositionValuation, len(h.Positions))
	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, p := range h.Positions {
		i, p := i, p
		g.Go(func() error {
			rows[i] = u.valuePosition(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	return summarize(h.InvestedTotal, rows), nil
}

// valuePosition fetches the quote and history of one position concurrently.
func (u *ValuationUsecase) valuePosition(ctx context.Context, p portfolioentity.Position) entity.PositionValuation {
	row := entity.PositionValuation{
		Symbol:      p.Symbol,
		Name:        p.Name,
		Quantity:    p.Quantity,
		BoughtPrice: p.BoughtPrice,
	}

	var (
		q         *marketentity.Quote
		series    *marketentity.HistoricalSeries
		quoteErr  error
		seriesErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		q, quoteErr = u.market.GetQuote(ctx, p.Symbol)
		return nil
	})
	g.Go(func() error {
		series, seriesErr = u.market.GetHistory(ctx, p.Symbol)
		return nil
	})
	_ = g.Wait()

	if quoteErr != nil {
		slog.Warn("snapshot quote unavailable", "symbol", p.Symbol, "error", quoteErr)
		row.PriceUnavailable = true
	} else {
		price := q.CurrentPrice
		value := price.Mul(decimal.NewFromInt(int64(p.Quantity)))
		row.CurrentPrice = &price
		row.Value = &value
		if p.BoughtPrice.IsPositive() {
			pct := price.Sub(p.BoughtPrice).Div(p.BoughtPrice).Mul(hundred).Round(2)
			row.ChangePercent = &pct
		}
	}

	if seriesErr == nil && len(series.Candles) > 0 {
		row.Series = make([]entity.SeriesPoint, 0, len(series.Candles))
		for _, c := range series.Candles {
			row.Series = append(row.Series, entity.SeriesPoint{
				Name:  c.Time.UTC().Format(seriesDateLayout),
				Value: c.Close,
			})
		}
		return row
	}

	if seriesErr != nil {
		slog.Warn("snapshot history unavailable", "symbol", p.Symbol, "error", seriesErr)
	}
	row.HistoryDegraded = true
	row.Series = []entity.SeriesPoint{}
	if row.CurrentPrice != nil {
		row.Series = append(row.Series, entity.SeriesPoint{Name: CurrentLabel, Value: *row.CurrentPrice})
	}
	return row
}

// summarize totals the priced rows and builds the combined series.
func summarize(invested decimal.Decimal, rows []entity.PositionValuation) *entity.Snapshot {
	current := decimal.Zero
	pricedCost := decimal.Zero
	for _, r := range rows {
		if r.PriceUnavailable {
			continue
		}
		current = current.Add(*r.Value)
		pricedCost = pricedCost.Add(r.BoughtPrice.Mul(decimal.NewFromInt(int64(r.Quantity))))
	}

	profit := current.Sub(pricedCost)
	pct := decimal.Zero
	if !pricedCost.IsZero() {
		pct = profit.Div(pricedCost).Mul(hundred).Round(2)
	}

	return &entity.Snapshot{
		BoughtValue:   invested,
		CurrentValue:  current,
		Profit:        profit,
		ProfitPercent: pct,
		Positions:     rows,
		Combined:      combine(rows),
	}
}

// combine sums value × quantity per index. Labels come from the first
// position; rows are aligned by index, not by date.
func combine(rows []entity.PositionValuation) []entity.SeriesPoint {
	if len(rows) == 0 {
		return []entity.SeriesPoint{}
	}
	out := make([]entity.SeriesPoint, len(rows[0].Series))
	for i, pt := range rows[0].Series {
		sum := decimal.Zero
		for _, r := range rows {
			if i < len(r.Series) {
				sum = sum.Add(r.Series[i].Value.Mul(decimal.NewFromInt(int64(r.Quantity))))
			}
		}
		out[i] = entity.SeriesPoint{Name: pt.Name, Value: sum}
	}
	return out
}
