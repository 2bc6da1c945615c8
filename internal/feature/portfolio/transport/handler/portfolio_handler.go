// Package handler exposes the portfolio store over HTTP. Every route
// requires the user id set by the JWT middleware.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stock_portfolio/internal/api"
	"stock_portfolio/internal/feature/portfolio/domain/entity"
	jwtmw "stock_portfolio/internal/platform/jwt"
	"stock_portfolio/internal/platform/metrics"
	"stock_portfolio/internal/shared/apperr"
)

// PortfolioUsecase defines the usecase interface for portfolio operations.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type PortfolioUsecase interface {
	ListHoldings(ctx context.Context, userID uint) (*entity.Holdings, error)
	Buy(ctx context.Context, userID uint, symbol, name string, price decimal.Decimal, quantity int) (*entity.Position, error)
	Sell(ctx context.Context, userID uint, symbol string) (*entity.Position, error)
	ListTrades(ctx context.Context, userID uint) ([]entity.Trade, error)
}

// PortfolioHandler handles holdings, trades and the trade journal.
type PortfolioHandler struct {
	uc PortfolioUsecase
}

// NewPortfolioHandler creates a PortfolioHandler.
func NewPortfolioHandler(uc PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{uc: uc}
}

// Holdings handles GET /portfolio/holdings.
func (h *PortfolioHandler) Holdings(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	holdings, err := h.uc.ListHoldings(c.Request.Context(), userID)
	if err != nil {
		fail(c, "list holdings failed", err)
		return
	}

	res := api.HoldingsResponse{
		Positions:     make([]api.PositionResponse, 0, len(holdings.Positions)),
		InvestedTotal: holdings.InvestedTotal,
	}
	for _, p := range holdings.Positions {
		res.Positions = append(res.Positions, toPositionResponse(p))
	}
	c.JSON(http.StatusOK, res)
}

// Buy handles POST /portfolio/buy. A symbol that is already held answers
// 202 with a DuplicatePosition body and changes nothing.
func (h *PortfolioHandler) Buy(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req api.BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("buy bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.NewErrorResponse(apperr.ErrValidation))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	pos, err := h.uc.Buy(c.Request.Context(), userID, req.Symbol, req.Name, req.Price, req.Quantity)
	if err != nil {
		fail(c, "buy failed", err)
		return
	}
	metrics.TradesTotal.WithLabelValues(string(entity.SideBuy)).Inc()
	c.JSON(http.StatusCreated, toPositionResponse(*pos))
}

// Sell handles POST /portfolio/sell and returns the closed position.
func (h *PortfolioHandler) Sell(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req api.SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("sell bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.NewErrorResponse(apperr.ErrValidation))
		return
	}

	pos, err := h.uc.Sell(c.Request.Context(), userID, req.Symbol)
	if err != nil {
		fail(c, "sell failed", err)
		return
	}
	metrics.TradesTotal.WithLabelValues(string(entity.SideSell)).Inc()
	c.JSON(http.StatusOK, toPositionResponse(*pos))
}

// Trades handles GET /portfolio/trades.
func (h *PortfolioHandler) Trades(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	trades, err := h.uc.ListTrades(c.Request.Context(), userID)
	if err != nil {
		fail(c, "list trades failed", err)
		return
	}

	res := make([]api.TradeResponse, 0, len(trades))
	for _, t := range trades {
		res = append(res, api.TradeResponse{
			ID:         t.ID.String(),
			Side:       string(t.Side),
			Symbol:     t.Symbol,
			Price:      t.Price,
			Quantity:   t.Quantity,
			ExecutedAt: t.ExecutedAt,
		})
	}
	c.JSON(http.StatusOK, res)
}

func requireUser(c *gin.Context) (uint, bool) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.NewErrorResponse(apperr.ErrUnauthenticated))
		return 0, false
	}
	return userID, true
}

func fail(c *gin.Context, msg string, err error) {
	slog.Warn(msg, "error", err, "path", c.Request.URL.Path, "remote_addr", c.ClientIP())
	c.JSON(apperr.HTTPStatus(err), api.NewErrorResponse(err))
}

func toPositionResponse(p entity.Position) api.PositionResponse {
	return api.PositionResponse{
		Symbol:      p.Symbol,
		Name:        p.Name,
		BoughtPrice: p.BoughtPrice,
		Quantity:    p.Quantity,
		PurchasedAt: p.PurchasedAt,
	}
}
