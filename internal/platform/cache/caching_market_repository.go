// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_portfolio/internal/feature/market/domain/entity"
	"stock_portfolio/internal/feature/market/usecase"
)

// TTLs configures how long each kind of provider response is cached.
type TTLs struct {
	Quote   time.Duration
	History time.Duration
	Listing time.Duration
	// HistoryUntil, when set, replaces History and is evaluated at every
	// write, e.g. TimeUntilNextMarketClose.
	HistoryUntil func(now time.Time) time.Duration
}

// DefaultTTLs returns one minute for quotes, one hour for history and a day for listings.
func DefaultTTLs() TTLs {
	return TTLs{Quote: time.Minute, History: time.Hour, Listing: 24 * time.Hour}
}

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// Errors are never cached and every Redis failure falls through to inner.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	ttl       TTLs
	namespace string
	now       func() time.Time
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository wraps inner. A nil rdb disables caching.
// Non-positive TTLs take their DefaultTTLs value; an empty namespace uses "market".
func NewCachingMarketRepository(rdb *redis.Client, ttl TTLs, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	def := DefaultTTLs()
	if ttl.Quote <= 0 {
		ttl.Quote = def.Quote
	}
	if ttl.History <= 0 {
		ttl.History = def.History
	}
	if ttl.Listing <= 0 {
		ttl.Listing = def.Listing
	}
	if namespace == "" {
		namespace = "market"
	}
	return &CachingMarketRepository{inner: inner, rdb: rdb, ttl: ttl, namespace: namespace, now: time.Now}
}

func fixed(d time.Duration) func() time.Duration {
	return func() time.Duration { return d }
}

func (c *CachingMarketRepository) historyTTL() time.Duration {
	if c.ttl.HistoryUntil != nil {
		if d := c.ttl.HistoryUntil(c.now()); d > 0 {
			return d
		}
	}
	return c.ttl.History
}

// Quote returns a cached quote or fetches and caches a fresh one.
func (c *CachingMarketRepository) Quote(ctx context.Context, symbol string) (*entity.Quote, error) {
	key := fmt.Sprintf("%s:quote:%s", c.namespace, safe(symbol))
	return readThrough(ctx, c, key, fixed(c.ttl.Quote), func() (*entity.Quote, error) {
		return c.inner.Quote(ctx, symbol)
	})
}

// Candles caches per symbol, resolution, end date and window length, so
// repeated requests on the same day share an entry.
func (c *CachingMarketRepository) Candles(ctx context.Context, symbol, resolution string, from, to time.Time) ([]entity.Candle, error) {
	days := int(to.Sub(from).Hours() / 24)
	key := fmt.Sprintf("%s:candles:%s:%s:%s:%d",
		c.namespace,
		safe(symbol),
		safe(resolution),
		to.UTC().Format("20060102"),
		days,
	)
	return readThrough(ctx, c, key, c.historyTTL, func() ([]entity.Candle, error) {
		return c.inner.Candles(ctx, symbol, resolution, from, to)
	})
}

// Search caches results per lowercased query.
func (c *CachingMarketRepository) Search(ctx context.Context, query string) ([]entity.Listing, error) {
	key := fmt.Sprintf("%s:search:%s", c.namespace, safe(strings.ToLower(query)))
	return readThrough(ctx, c, key, fixed(c.ttl.Listing), func() ([]entity.Listing, error) {
		return c.inner.Search(ctx, query)
	})
}

// ListSymbols caches the exchange listing.
func (c *CachingMarketRepository) ListSymbols(ctx context.Context, exchange string) ([]entity.Listing, error) {
	key := fmt.Sprintf("%s:symbols:%s", c.namespace, safe(exchange))
	return readThrough(ctx, c, key, fixed(c.ttl.Listing), func() ([]entity.Listing, error) {
		return c.inner.ListSymbols(ctx, exchange)
	})
}

// readThrough checks the cache, falls back to load and stores the result
// (best effort). ttl is evaluated when the entry is written.
func readThrough[T any](ctx context.Context, c *CachingMarketRepository, key string, ttl func() time.Duration, load func() (T, error)) (T, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return load()
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to provider
	out, err := load()
	if err != nil {
		var zero T
		return zero, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, ttl()).Err()
	}
	return out, nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
