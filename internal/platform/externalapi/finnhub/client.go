package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stock_portfolio/internal/feature/market/domain/entity"
	"stock_portfolio/internal/feature/market/usecase"
	"stock_portfolio/internal/platform/externalapi/finnhub/dto"
	"stock_portfolio/internal/platform/metrics"
	"stock_portfolio/internal/shared/ratelimiter"
)

// Client fetches market data from the Finnhub REST API.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
	now     func() time.Time
}

// Compile-time check that Client satisfies MarketRepository.
var _ usecase.MarketRepository = (*Client)(nil)

// NewClient creates a Client. limiter may be nil to disable throttling.
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.Limiter) *Client {
	if limiter == nil {
		limiter = ratelimiter.NewRateLimiter(0, 0)
	}
	return &Client{cfg: cfg, client: client, limiter: limiter, now: time.Now}
}

// get performs an authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) (err error) {
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := fmt.Sprintf("%s%s?%s", strings.TrimRight(c.cfg.BaseURL, "/"), endpoint, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Finnhub-Token", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		var body dto.ErrorResponse
		if json.NewDecoder(res.Body).Decode(&body) == nil && body.Error != "" {
			return fmt.Errorf("finnhub http %d: %s", res.StatusCode, body.Error)
		}
		return fmt.Errorf("finnhub http %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// Quote fetches the latest price. Finnhub answers unknown symbols with
// c=0 and t=0 instead of an error status.
func (c *Client) Quote(ctx context.Context, symbol string) (*entity.Quote, error) {
	var body dto.QuoteResponse
	if err := c.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &body); err != nil {
		return nil, err
	}

	current, ok, err := parseNumber(body.Current)
	if err != nil {
		return nil, fmt.Errorf("parse current price: %w", err)
	}
	if !ok || (current.IsZero() && body.Timestamp == 0) {
		return nil, usecase.ErrUnknownSymbol
	}
	change, _, err := parseNumber(body.Change)
	if err != nil {
		return nil, fmt.Errorf("parse change: %w", err)
	}
	pct, _, err := parseNumber(body.PercentChange)
	if err != nil {
		return nil, fmt.Errorf("parse percent change: %w", err)
	}

	q := &entity.Quote{
		Symbol:         symbol,
		CurrentPrice:   current,
		ChangeAbsolute: change,
		ChangePercent:  pct,
		FetchedAt:      c.now(),
	}
	if vol, ok, err := parseNumber(body.Volume); err == nil && ok {
		v := vol.IntPart()
		q.Volume = &v
	}
	return q, nil
}

// Candles fetches OHLCV bars between from and to. A status other than
// "ok" (Finnhub uses "no_data") means the window is empty.
func (c *Client) Candles(ctx context.Context, symbol, resolution string, from, to time.Time) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("resolution", resolution)
	q.Set("from", strconv.FormatInt(from.Unix(), 10))
	q.Set("to", strconv.FormatInt(to.Unix(), 10))

	var body dto.CandleResponse
	if err := c.get(ctx, "/stock/candle", q, &body); err != nil {
		return nil, err
	}
	if body.Status != "ok" {
		return nil, usecase.ErrNoCandles
	}

	n := len(body.Time)
	if len(body.Close) != n || len(body.Open) != n || len(body.High) != n || len(body.Low) != n {
		return nil, fmt.Errorf("finnhub candles: mismatched array lengths")
	}

	candles := make([]entity.Candle, 0, n)
	for i := 0; i < n; i++ {
		cd := entity.Candle{Time: time.Unix(body.Time[i], 0).UTC()}
		fields := []struct {
			name string
			raw  json.Number
			dst  *decimal.Decimal
		}{
			{"open", body.Open[i], &cd.Open},
			{"high", body.High[i], &cd.High},
			{"low", body.Low[i], &cd.Low},
			{"close", body.Close[i], &cd.Close},
		}
		for _, f := range fields {
			v, _, err := parseNumber(f.raw)
			if err != nil {
				return nil, fmt.Errorf("parse %s %q: %w", f.name, f.raw, err)
			}
			*f.dst = v
		}
		if i < len(body.Volume) {
			vol, _, err := parseNumber(body.Volume[i])
			if err != nil {
				return nil, fmt.Errorf("parse volume %q: %w", body.Volume[i], err)
			}
			cd.Volume = vol.IntPart()
		}
		candles = append(candles, cd)
	}
	return candles, nil
}

// Search looks up symbols by name or ticker.
func (c *Client) Search(ctx context.Context, query string) ([]entity.Listing, error) {
	var body dto.SearchResponse
	if err := c.get(ctx, "/search", url.Values{"q": {query}}, &body); err != nil {
		return nil, err
	}
	return toListings(body.Result), nil
}

// ListSymbols returns every symbol listed on exchange, in provider order.
func (c *Client) ListSymbols(ctx context.Context, exchange string) ([]entity.Listing, error) {
	var body []dto.SymbolResult
	if err := c.get(ctx, "/stock/symbol", url.Values{"exchange": {exchange}}, &body); err != nil {
		return nil, err
	}
	return toListings(body), nil
}

func toListings(rows []dto.SymbolResult) []entity.Listing {
	out := make([]entity.Listing, 0, len(rows))
	for _, r := range rows {
		if r.Symbol == "" {
			continue
		}
		out = append(out, entity.Listing{Symbol: r.Symbol, Name: r.Description})
	}
	return out
}

// parseNumber converts a JSON number to a decimal. ok is false for null or absent values.
func parseNumber(n json.Number) (d decimal.Decimal, ok bool, err error) {
	if n == "" {
		return decimal.Zero, false, nil
	}
	d, err = decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}
