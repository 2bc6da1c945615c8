// Package api holds the request and response bodies exchanged over HTTP.
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"stock_portfolio/internal/shared/apperr"
)

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// NewErrorResponse builds the body for err. Uncategorized errors are
// reported generically so internal details stay in the logs.
func NewErrorResponse(err error) ErrorResponse {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		return ErrorResponse{Error: "internal server error", Kind: string(kind)}
	}
	return ErrorResponse{Error: err.Error(), Kind: string(kind)}
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body of POST /refresh and POST /logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse carries an access token and the refresh token that rotates it.
type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// QuoteResponse is a point-in-time price.
type QuoteResponse struct {
	Symbol         string          `json:"symbol"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
	ChangeAbsolute decimal.Decimal `json:"changeAbsolute"`
	ChangePercent  decimal.Decimal `json:"changePercent"`
	Volume         *int64          `json:"volume,omitempty"`
	FetchedAt      time.Time       `json:"fetchedAt"`
}

// CandleResponse is one point of a historical series.
type CandleResponse struct {
	Date   string          `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// HistoryResponse is an ordered price history.
type HistoryResponse struct {
	Symbol     string           `json:"symbol"`
	Resolution string           `json:"resolution"`
	Points     []CandleResponse `json:"points"`
}

// StockRow is one row of a search or trending listing. Price fields are
// null when the quote could not be fetched.
type StockRow struct {
	Symbol        string           `json:"symbol"`
	Name          string           `json:"name"`
	Price         *decimal.Decimal `json:"price"`
	Change        *decimal.Decimal `json:"change"`
	ChangePercent *decimal.Decimal `json:"changePercent"`
}

// BuyRequest is the body of POST /portfolio/buy. Quantity defaults to 1.
type BuyRequest struct {
	Symbol   string          `json:"symbol" binding:"required"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// SellRequest is the body of POST /portfolio/sell.
type SellRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// PositionResponse is a held lot.
type PositionResponse struct {
	Symbol      string          `json:"symbol"`
	Name        string          `json:"name"`
	BoughtPrice decimal.Decimal `json:"boughtPrice"`
	Quantity    int             `json:"quantity"`
	PurchasedAt time.Time       `json:"purchasedAt"`
}

// HoldingsResponse is the body of GET /portfolio/holdings.
type HoldingsResponse struct {
	Positions     []PositionResponse `json:"positions"`
	InvestedTotal decimal.Decimal    `json:"investedTotal"`
}

// TradeResponse is one journal entry.
type TradeResponse struct {
	ID         string          `json:"id"`
	Side       string          `json:"side"`
	Symbol     string          `json:"symbol"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	ExecutedAt time.Time       `json:"executedAt"`
}

// SeriesPoint is a labelled value on a chart.
type SeriesPoint struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// SnapshotRow is the valuation of a single position.
type SnapshotRow struct {
	Symbol           string           `json:"symbol"`
	Name             string           `json:"name"`
	Quantity         int              `json:"quantity"`
	BoughtPrice      decimal.Decimal  `json:"boughtPrice"`
	CurrentPrice     *decimal.Decimal `json:"currentPrice"`
	Value            *decimal.Decimal `json:"value"`
	ChangePercent    *decimal.Decimal `json:"changePercent"`
	PriceUnavailable bool             `json:"priceUnavailable"`
	HistoryDegraded  bool             `json:"historyDegraded"`
	Series           []SeriesPoint    `json:"series"`
}

// SnapshotResponse is the body of GET /portfolio/snapshot.
type SnapshotResponse struct {
	BoughtValue   decimal.Decimal `json:"boughtValue"`
	CurrentValue  decimal.Decimal `json:"currentValue"`
	Profit        decimal.Decimal `json:"profit"`
	ProfitPercent decimal.Decimal `json:"profitPercent"`
	Positions     []SnapshotRow   `json:"positions"`
	Combined      []SeriesPoint   `json:"combined"`
}

// SymbolItem is one entry of the curated symbol universe.
type SymbolItem struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Market string `json:"market"`
}
