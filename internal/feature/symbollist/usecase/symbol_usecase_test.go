package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketentity "stock_portfolio/internal/feature/market/domain/entity"
	"stock_portfolio/internal/feature/symbollist/domain/entity"
	"stock_portfolio/internal/feature/symbollist/usecase"
)

type mockSymbolRepository struct {
	ListActiveFunc func(ctx context.Context) ([]entity.Symbol, error)
	UpsertFunc     func(ctx context.Context, symbols []entity.Symbol) error
}

func (m *mockSymbolRepository) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockSymbolRepository) Upsert(ctx context.Context, symbols []entity.Symbol) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, symbols)
	}
	return nil
}

type mockListingSource struct {
	ListSymbolsFunc func(ctx context.Context, exchange string) ([]marketentity.Listing, error)
}

func (m *mockListingSource) ListSymbols(ctx context.Context, exchange string) ([]marketentity.Listing, error) {
	return m.ListSymbolsFunc(ctx, exchange)
}

func TestSymbolUsecase_ListActiveSymbols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		mockListActive  func(ctx context.Context) ([]entity.Symbol, error)
		expectedSymbols []entity.Symbol
		wantErr         bool
	}{
		{
			name: "success: returns list of active symbols",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return []entity.Symbol{{ID: 1, Code: "AAPL", Name: "APPLE INC", Market: "US", IsActive: true, SortKey: 1}}, nil
			},
			expectedSymbols: []entity.Symbol{{ID: 1, Code: "AAPL", Name: "APPLE INC", Market: "US", IsActive: true, SortKey: 1}},
		},
		{
			name: "failure: repository returns error",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return nil, errors.New("database connection failed")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewSymbolUsecase(&mockSymbolRepository{ListActiveFunc: tt.mockListActive}, nil)
			symbols, err := uc.ListActiveSymbols(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, symbols)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSymbols, symbols)
		})
	}
}

func TestSymbolUsecase_Seed(t *testing.T) {
	t.Parallel()

	source := &mockListingSource{
		ListSymbolsFunc: func(ctx context.Context, exchange string) ([]marketentity.Listing, error) {
			assert.Equal(t, "US", exchange)
			return []marketentity.Listing{
				{Symbol: "aapl", Name: "APPLE INC"},
				{Symbol: " ", Name: "blank"},
				{Symbol: "AAPL", Name: "duplicate"},
				{Symbol: "MSFT", Name: "MICROSOFT CORP"},
				{Symbol: "NVDA", Name: "NVIDIA CORP"},
			}, nil
		},
	}

	var stored []entity.Symbol
	repo := &mockSymbolRepository{
		UpsertFunc: func(ctx context.Context, symbols []entity.Symbol) error {
			stored = symbols
			return nil
		},
	}

	n, err := usecase.NewSymbolUsecase(repo, source).Seed(context.Background(), "US", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []entity.Symbol{
		{Code: "AAPL", Name: "APPLE INC", Market: "US", IsActive: true, SortKey: 1},
		{Code: "MSFT", Name: "MICROSOFT CORP", Market: "US", IsActive: true, SortKey: 2},
	}, stored)
}

func TestSymbolUsecase_Seed_Errors(t *testing.T) {
	t.Parallel()

	failing := &mockListingSource{
		ListSymbolsFunc: func(ctx context.Context, exchange string) ([]marketentity.Listing, error) {
			return nil, errors.New("finnhub http 429")
		},
	}

	tests := []struct {
		name   string
		uc     *usecase.SymbolUsecase
		limit  int
		errMsg string
	}{
		{"no source", usecase.NewSymbolUsecase(&mockSymbolRepository{}, nil), 10, "no listing source"},
		{"non-positive limit", usecase.NewSymbolUsecase(&mockSymbolRepository{}, failing), 0, "limit must be positive"},
		{"provider failure", usecase.NewSymbolUsecase(&mockSymbolRepository{}, failing), 10, "finnhub http 429"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.uc.Seed(context.Background(), "US", tt.limit)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
