package di

import (
	"log/slog"
	"os"
	"strings"

	authadapters "stock_portfolio/internal/feature/auth/adapters"
	authentity "stock_portfolio/internal/feature/auth/domain/entity"
	portfolioadapters "stock_portfolio/internal/feature/portfolio/adapters"
	symbolentity "stock_portfolio/internal/feature/symbollist/domain/entity"
)

const EnvKeyLogLevel = "LOG_LEVEL"

// NewLogger returns a JSON logger at the level named by LOG_LEVEL
// (debug, info, warn, error). Unknown values mean info.
func NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(os.Getenv(EnvKeyLogLevel)))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// Models lists every table migrated at startup. users must precede the
// tables that reference it.
func Models() []any {
	models := []any{
		&authentity.User{},
		&authadapters.SessionModel{},
		&symbolentity.Symbol{},
	}
	return append(models, portfolioadapters.Models()...)
}
