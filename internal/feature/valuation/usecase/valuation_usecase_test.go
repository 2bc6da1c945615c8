package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketentity "stock_portfolio/internal/feature/market/domain/entity"
	portfolioentity "stock_portfolio/internal/feature/portfolio/domain/entity"
	"stock_portfolio/internal/feature/valuation/domain/entity"
	"stock_portfolio/internal/shared/apperr"
)

type mockHoldingsLister struct {
	fn func(ctx context.Context, userID uint) (*portfolioentity.Holdings, error)
}

func (m *mockHoldingsLister) ListHoldings(ctx context.Context, userID uint) (*portfolioentity.Holdings, error) {
	return m.fn(ctx, userID)
}

// stubMarket serves fixed quotes and closes per symbol; a missing entry is an error.
type stubMarket struct {
	quotes map[string]string
	closes map[string][]string
}

var errProvider = errors.New("finnhub http 500")

func (s *stubMarket) GetQuote(ctx context.Context, symbol string) (*marketentity.Quote, error) {
	p, ok := s.quotes[symbol]
	if !ok {
		return nil, errProvider
	}
	return &marketentity.Quote{Symbol: symbol, CurrentPrice: decimal.RequireFromString(p)}, nil
}

func (s *stubMarket) GetHistory(ctx context.Context, symbol string) (*marketentity.HistoricalSeries, error) {
	closes, ok := s.closes[symbol]
	if !ok {
		return nil, errProvider
	}
	start := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	series := &marketentity.HistoricalSeries{Symbol: symbol, Resolution: "W"}
	for i, c := range closes {
		series.Candles = append(series.Candles, marketentity.Candle{
			Time:  start.AddDate(0, 0, 7*i),
			Close: decimal.RequireFromString(c),
		})
	}
	return series, nil
}

func holdings(positions ...portfolioentity.Position) *mockHoldingsLister {
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(p.Cost())
	}
	return &mockHoldingsLister{fn: func(ctx context.Context, userID uint) (*portfolioentity.Holdings, error) {
		return &portfolioentity.Holdings{Positions: positions, InvestedTotal: total}, nil
	}}
}

func position(symbol, price string, qty int) portfolioentity.Position {
	return portfolioentity.Position{Symbol: symbol, BoughtPrice: decimal.RequireFromString(price), Quantity: qty}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: want %s, got %s", msg, want, got)
}

func TestValuationUsecase_Snapshot_AllPriced(t *testing.T) {
	t.Parallel()

	market := &stubMarket{
		quotes: map[string]string{"AAPL": "110", "MSFT": "190"},
		closes: map[string][]string{"AAPL": {"100", "105", "110"}, "MSFT": {"200", "190"}},
	}
	uc := NewValuationUsecase(holdings(position("AAPL", "100", 2), position("MSFT", "200", 1)), market, 4)

	s, err := uc.Snapshot(context.Background(), 1)
	require.NoError(t, err)

	assertDecimal(t, "400", s.BoughtValue, "bought")
	assertDecimal(t, "410", s.CurrentValue, "current")
	assertDecimal(t, "10", s.Profit, "profit")
	assertDecimal(t, "2.5", s.ProfitPercent, "profit percent")

	require.Len(t, s.Positions, 2)
	aapl := s.Positions[0]
	assert.Equal(t, "AAPL", aapl.Symbol, "row order follows holdings")
	assert.False(t, aapl.PriceUnavailable)
	assert.False(t, aapl.HistoryDegraded)
	assertDecimal(t, "220", *aapl.Value, "aapl value")
	assertDecimal(t, "10", *aapl.ChangePercent, "aapl change")
	assert.Equal(t, "2025-05-05", aapl.Series[0].Name)
	assertDecimal(t, "-5", *s.Positions[1].ChangePercent, "msft change")

	require.Len(t, s.Combined, 3, "labels come from the first position")
	assert.Equal(t, "2025-05-19", s.Combined[2].Name)
	assertDecimal(t, "400", s.Combined[0].Value, "combined[0]")
	assertDecimal(t, "400", s.Combined[1].Value, "combined[1]")
	assertDecimal(t, "220", s.Combined[2].Value, "combined[2]")
}

// rendezvousMarket answers a symbol only once both its quote and history
// requests are in flight.
type rendezvousMarket struct {
	quoteStarted   chan struct{}
	historyStarted chan struct{}
}

func (m *rendezvousMarket) await(ctx context.Context, own, other chan struct{}) error {
	close(own)
	select {
	case <-other:
		return nil
	case <-time.After(2 * time.Second):
		return errors.New("request issued alone")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *rendezvousMarket) GetQuote(ctx context.Context, symbol string) (*marketentity.Quote, error) {
	if err := m.await(ctx, m.quoteStarted, m.historyStarted); err != nil {
		return nil, err
	}
	return &marketentity.Quote{Symbol: symbol, CurrentPrice: d("120")}, nil
}

func (m *rendezvousMarket) GetHistory(ctx context.Context, symbol string) (*marketentity.HistoricalSeries, error) {
	if err := m.await(ctx, m.historyStarted, m.quoteStarted); err != nil {
		return nil, err
	}
	return &marketentity.HistoricalSeries{Symbol: symbol, Candles: []marketentity.Candle{
		{Time: time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), Close: d("115")},
	}}, nil
}

func TestValuationUsecase_Snapshot_QuoteAndHistoryInParallel(t *testing.T) {
	t.Parallel()

	market := &rendezvousMarket{quoteStarted: make(chan struct{}), historyStarted: make(chan struct{})}
	p := position("NVDA", "100", 1)
	p.Name = "NVIDIA Corp"
	uc := NewValuationUsecase(holdings(p), market, 1)

	s, err := uc.Snapshot(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, s.Positions, 1)

	row := s.Positions[0]
	assert.Equal(t, "NVIDIA Corp", row.Name)
	assert.False(t, row.PriceUnavailable, "quote waited for history")
	assert.False(t, row.HistoryDegraded, "history waited for quote")
	assertDecimal(t, "120", *row.CurrentPrice, "current price")
	assertDecimal(t, "115", row.Series[0].Value, "series")
}

func TestValuationUsecase_Snapshot_HistoryFailure(t *testing.T) {
	t.Parallel()

	market := &stubMarket{quotes: map[string]string{"AAPL": "110"}}
	uc := NewValuationUsecase(holdings(position("AAPL", "100", 2)), market, 1)

	s, err := uc.Snapshot(context.Background(), 1)
	require.NoError(t, err)

	row := s.Positions[0]
	assert.True(t, row.HistoryDegraded)
	assert.False(t, row.PriceUnavailable)
	require.Len(t, row.Series, 1)
	assert.Equal(t, CurrentLabel, row.Series[0].Name)
	assertDecimal(t, "110", row.Series[0].Value, "current point")

	require.Len(t, s.Combined, 1)
	assertDecimal(t, "220", s.Combined[0].Value, "combined")
}

func TestValuationUsecase_Snapshot_QuoteFailure(t *testing.T) {
	t.Parallel()

	market := &stubMarket{
		quotes: map[string]string{"AAPL": "110"},
		closes: map[string][]string{"AAPL": {"110"}, "MSFT": {"195"}},
	}
	uc := NewValuationUsecase(holdings(position("AAPL", "100", 2), position("MSFT", "200", 1), position("NVDA", "50", 4)), market, 2)

	s, err := uc.Snapshot(context.Background(), 1)
	require.NoError(t, err)

	assertDecimal(t, "600", s.BoughtValue, "bought reports the full invested total")
	assertDecimal(t, "220", s.CurrentValue, "current only counts priced rows")
	assertDecimal(t, "20", s.Profit, "profit excludes unpriced cost")
	assertDecimal(t, "10", s.ProfitPercent, "profit percent")

	msft := s.Positions[1]
	assert.True(t, msft.PriceUnavailable)
	assert.Nil(t, msft.CurrentPrice)
	assert.Nil(t, msft.Value)
	assert.Nil(t, msft.ChangePercent)
	assert.False(t, msft.HistoryDegraded, "history is independent of the quote")
	assert.Len(t, msft.Series, 1)

	nvda := s.Positions[2]
	assert.True(t, nvda.PriceUnavailable)
	assert.True(t, nvda.HistoryDegraded)
	assert.Empty(t, nvda.Series)
	assert.NotNil(t, nvda.Series)
}

func TestValuationUsecase_Snapshot_NothingPriced(t *testing.T) {
	t.Parallel()

	uc := NewValuationUsecase(holdings(position("AAPL", "100", 1)), &stubMarket{}, 1)

	s, err := uc.Snapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, s.CurrentValue.IsZero())
	assert.True(t, s.ProfitPercent.IsZero(), "no division by zero")
	assert.Empty(t, s.Combined)
}

func TestValuationUsecase_Snapshot_Empty(t *testing.T) {
	t.Parallel()

	uc := NewValuationUsecase(holdings(), &stubMarket{}, 0)

	s, err := uc.Snapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, s.Positions)
	assert.Equal(t, []entity.SeriesPoint{}, s.Combined)
	assert.True(t, s.BoughtValue.IsZero())
	assert.True(t, s.Profit.IsZero())
}

func TestValuationUsecase_Snapshot_Errors(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection refused")
	tests := []struct {
		name     string
		userID   uint
		err      error
		wantErr  error
		wantKind apperr.Kind
	}{
		{"no user", 0, nil, apperr.ErrUnauthenticated, apperr.KindUnauthenticated},
		{"unknown user", 5, apperr.ErrUserNotFound, apperr.ErrUserNotFound, apperr.KindUserNotFound},
		{"store failure", 5, dbErr, dbErr, apperr.KindInternal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lister := &mockHoldingsLister{fn: func(ctx context.Context, userID uint) (*portfolioentity.Holdings, error) {
				return nil, tt.err
			}}
			_, err := NewValuationUsecase(lister, &stubMarket{}, 1).Snapshot(context.Background(), tt.userID)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
		})
	}
}
