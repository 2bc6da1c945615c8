// Command ingest seeds the curated symbol universe from the provider's
// exchange listing. Existing rows are updated in place.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"stock_portfolio/internal/app/di"
	symbollistadapters "stock_portfolio/internal/feature/symbollist/adapters"
	symbollistusecase "stock_portfolio/internal/feature/symbollist/usecase"
	infradb "stock_portfolio/internal/platform/db"
)

func main() {
	exchange := flag.String("exchange", "US", "exchange code to list")
	limit := flag.Int("limit", 10, "number of symbols to keep")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	slog.SetDefault(di.NewLogger())

	db, err := infradb.Open(infradb.LoadConfigFromEnv(), di.Models()...)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// the seeder always reaches the provider
	uc := symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(db), di.NewFinnhubClient())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	n, err := uc.Seed(ctx, *exchange, *limit)
	if err != nil {
		slog.Error("seed failed", "exchange", *exchange, "error", err)
		os.Exit(1)
	}
	slog.Info("seed ok", "exchange", *exchange, "symbols", n)
}
