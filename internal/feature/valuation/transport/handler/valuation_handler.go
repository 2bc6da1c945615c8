// Package handler serves the portfolio dashboard snapshot.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_portfolio/internal/api"
	"stock_portfolio/internal/feature/valuation/domain/entity"
	jwtmw "stock_portfolio/internal/platform/jwt"
	"stock_portfolio/internal/shared/apperr"
)

// ValuationUsecase defines the usecase interface for snapshots.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type ValuationUsecase interface {
	Snapshot(ctx context.Context, userID uint) (*entity.Snapshot, error)
}

type ValuationHandler struct {
	uc ValuationUsecase
}

func NewValuationHandler(uc ValuationUsecase) *ValuationHandler {
	return &ValuationHandler{uc: uc}
}

// Snapshot handles GET /portfolio/snapshot.
func (h *ValuationHandler) Snapshot(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.NewErrorResponse(apperr.ErrUnauthenticated))
		return
	}

	s, err := h.uc.Snapshot(c.Request.Context(), userID)
	if err != nil {
		slog.Warn("snapshot failed", "error", err, "user_id", userID, "remote_addr", c.ClientIP())
		c.JSON(apperr.HTTPStatus(err), api.NewErrorResponse(err))
		return
	}

	res := api.SnapshotResponse{
		BoughtValue:   s.BoughtValue,
		CurrentValue:  s.CurrentValue,
		Profit:        s.Profit,
		ProfitPercent: s.ProfitPercent,
		Positions:     make([]api.SnapshotRow, 0, len(s.Positions)),
		Combined:      toSeries(s.Combined),
	}
	for _, r := range s.Positions {
		res.Positions = append(res.Positions, api.SnapshotRow{
			Symbol:           r.Symbol,
			Name:             r.Name,
			Quantity:         r.Quantity,
			BoughtPrice:      r.BoughtPrice,
			CurrentPrice:     r.CurrentPrice,
			Value:            r.Value,
			ChangePercent:    r.ChangePercent,
			PriceUnavailable: r.PriceUnavailable,
			HistoryDegraded:  r.HistoryDegraded,
			Series:           toSeries(r.Series),
		})
	}
	c.JSON(http.StatusOK, res)
}

func toSeries(points []entity.SeriesPoint) []api.SeriesPoint {
	out := make([]api.SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.SeriesPoint{Name: p.Name, Value: p.Value})
	}
	return out
}
