package usecase

import (
	"os"
	"strconv"
	"time"
)

// Config controls history windows and listing enrichment.
type Config struct {
	Resolution    string        // candle resolution, e.g. "W" or "D"
	Window        time.Duration // trailing window for history
	Exchange      string        // exchange listed for trending when the universe is empty
	TrendingLimit int
	SearchLimit   int
	Concurrency   int // parallel quote lookups per listing
}

// DefaultConfig returns weekly candles over the trailing year.
func DefaultConfig() Config {
	return Config{
		Resolution:    "W",
		Window:        365 * 24 * time.Hour,
		Exchange:      "US",
		TrendingLimit: 10,
		SearchLimit:   10,
		Concurrency:   8,
	}
}

// LoadConfig overlays environment variables on DefaultConfig.
// FINNHUB_HISTORY_WINDOW is a number of days.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("FINNHUB_HISTORY_RESOLUTION"); v != "" {
		cfg.Resolution = v
	}
	if n := positiveInt("FINNHUB_HISTORY_WINDOW"); n > 0 {
		cfg.Window = time.Duration(n) * 24 * time.Hour
	}
	if v := os.Getenv("FINNHUB_EXCHANGE"); v != "" {
		cfg.Exchange = v
	}
	if n := positiveInt("TRENDING_LIMIT"); n > 0 {
		cfg.TrendingLimit = n
	}
	if n := positiveInt("SEARCH_LIMIT"); n > 0 {
		cfg.SearchLimit = n
	}
	if n := positiveInt("FINNHUB_ENRICH_CONCURRENCY"); n > 0 {
		cfg.Concurrency = n
	}
	return cfg
}

func positiveInt(key string) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
