// Package finnhub is the Finnhub implementation of the market data provider.
package finnhub

import (
	"os"
	"strconv"
	"time"
)

const defaultBaseURL = "https://finnhub.io/api/v1"

// Config holds configuration for the Finnhub API client.
type Config struct {
	APIKey    string        // sent as the X-Finnhub-Token header
	BaseURL   string        // e.g. "https://finnhub.io/api/v1"
	Timeout   time.Duration // HTTP request timeout
	RateLimit int           // requests per second; 0 disables throttling
}

// LoadConfig loads Finnhub configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:    os.Getenv("FINNHUB_API_KEY"),
		BaseURL:   os.Getenv("FINNHUB_BASE_URL"),
		Timeout:   10 * time.Second,
		RateLimit: 25,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if d, err := time.ParseDuration(os.Getenv("FINNHUB_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	if n, err := strconv.Atoi(os.Getenv("FINNHUB_RATE_LIMIT")); err == nil && n >= 0 {
		cfg.RateLimit = n
	}
	return cfg
}
