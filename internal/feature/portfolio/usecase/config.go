package usecase

import (
	"os"
	"strconv"
)

const (
	EnvKeyMaxPositions = "PORTFOLIO_MAX_POSITIONS"
	EnvKeyTradeLimit   = "PORTFOLIO_TRADE_HISTORY_LIMIT"

	defaultTradeLimit = 100
)

// Config holds portfolio limits.
type Config struct {
	MaxPositions int // open positions per user; 0 is unlimited
	TradeLimit   int // journal rows returned by ListTrades
}

// LoadConfig reads limits from the environment.
func LoadConfig() Config {
	cfg := Config{TradeLimit: defaultTradeLimit}
	if n, err := strconv.Atoi(os.Getenv(EnvKeyMaxPositions)); err == nil && n >= 0 {
		cfg.MaxPositions = n
	}
	if n, err := strconv.Atoi(os.Getenv(EnvKeyTradeLimit)); err == nil && n > 0 {
		cfg.TradeLimit = n
	}
	return cfg
}
