// Package di provides dependency injection factories for creating application components.
package di

import (
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_portfolio/internal/feature/market/usecase"
	"stock_portfolio/internal/platform/cache"
	"stock_portfolio/internal/platform/externalapi/finnhub"
	infrahttp "stock_portfolio/internal/platform/http"
	"stock_portfolio/internal/shared/ratelimiter"
)

const (
	EnvKeyCacheQuoteTTL   = "CACHE_QUOTE_TTL"
	EnvKeyCacheHistoryTTL = "CACHE_HISTORY_TTL"
)

// NewFinnhubClient creates a throttled Finnhub client with its own HTTP client.
func NewFinnhubClient() *finnhub.Client {
	cfg := finnhub.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	limiter := ratelimiter.NewRateLimiter(cfg.RateLimit, time.Second)
	return finnhub.NewClient(cfg, httpClient, limiter)
}

// NewMarketRepository wraps provider with the Redis cache. A nil rdb
// returns a decorator that always reaches the provider.
func NewMarketRepository(rdb *redis.Client, provider usecase.MarketRepository) usecase.MarketRepository {
	return cache.NewCachingMarketRepository(rdb, LoadCacheTTLs(), provider, "market")
}

// LoadCacheTTLs reads CACHE_QUOTE_TTL and CACHE_HISTORY_TTL. Without an
// override, history entries live until the next market close.
func LoadCacheTTLs() cache.TTLs {
	ttl := cache.DefaultTTLs()
	ttl.HistoryUntil = cache.TimeUntilNextMarketClose
	if d, err := time.ParseDuration(os.Getenv(EnvKeyCacheQuoteTTL)); err == nil && d > 0 {
		ttl.Quote = d
	}
	if d, err := time.ParseDuration(os.Getenv(EnvKeyCacheHistoryTTL)); err == nil && d > 0 {
		ttl.History = d
		ttl.HistoryUntil = nil
	}
	return ttl
}
