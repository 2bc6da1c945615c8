// Package handler exposes the market data gateway over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_portfolio/internal/api"
	"stock_portfolio/internal/feature/market/domain/entity"
	"stock_portfolio/internal/shared/apperr"
)

// MarketUsecase is the subset of the market usecase the handler needs.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type MarketUsecase interface {
	GetQuote(ctx context.Context, symbol string) (*entity.Quote, error)
	GetHistory(ctx context.Context, symbol string) (*entity.HistoricalSeries, error)
	Search(ctx context.Context, query string) ([]entity.StockRow, error)
	Trending(ctx context.Context) ([]entity.StockRow, error)
}

// MarketHandler serves quotes, history and listings.
type MarketHandler struct {
	uc MarketUsecase
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(uc MarketUsecase) *MarketHandler {
	return &MarketHandler{uc: uc}
}

// GetQuote handles GET /stocks/:symbol/quote.
func (h *MarketHandler) GetQuote(c *gin.Context) {
	q, err := h.uc.GetQuote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		h.fail(c, "quote request failed", err)
		return
	}
	c.JSON(http.StatusOK, api.QuoteResponse{
		Symbol:         q.Symbol,
		CurrentPrice:   q.CurrentPrice,
		ChangeAbsolute: q.ChangeAbsolute,
		ChangePercent:  q.ChangePercent,
		Volume:         q.Volume,
		FetchedAt:      q.FetchedAt,
	})
}

// GetHistory handles GET /stocks/:symbol/history.
func (h *MarketHandler) GetHistory(c *gin.Context) {
	series, err := h.uc.GetHistory(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		h.fail(c, "history request failed", err)
		return
	}
	points := make([]api.CandleResponse, 0, len(series.Candles))
	for _, x := range series.Candles {
		points = append(points, api.CandleResponse{
			Date:   x.Time.UTC().Format("2006-01-02"),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}
	c.JSON(http.StatusOK, api.HistoryResponse{
		Symbol:     series.Symbol,
		Resolution: series.Resolution,
		Points:     points,
	})
}

// Search handles GET /stocks/search?query=.
func (h *MarketHandler) Search(c *gin.Context) {
	rows, err := h.uc.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.fail(c, "search request failed", err)
		return
	}
	c.JSON(http.StatusOK, toStockRows(rows))
}

// Trending handles GET /stocks/trending.
func (h *MarketHandler) Trending(c *gin.Context) {
	rows, err := h.uc.Trending(c.Request.Context())
	if err != nil {
		h.fail(c, "trending request failed", err)
		return
	}
	c.JSON(http.StatusOK, toStockRows(rows))
}

func (h *MarketHandler) fail(c *gin.Context, msg string, err error) {
	slog.Warn(msg, "error", err, "path", c.Request.URL.Path, "remote_addr", c.ClientIP())
	c.JSON(apperr.HTTPStatus(err), api.NewErrorResponse(err))
}

func toStockRows(rows []entity.StockRow) []api.StockRow {
	out := make([]api.StockRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, api.StockRow{
			Symbol:        r.Symbol,
			Name:          r.Name,
			Price:         r.Price,
			Change:        r.Change,
			ChangePercent: r.ChangePercent,
		})
	}
	return out
}
