package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // market-close TTLs need America/New_York

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_portfolio/internal/app/di"
	"stock_portfolio/internal/app/router"
	authadapters "stock_portfolio/internal/feature/auth/adapters"
	authhandler "stock_portfolio/internal/feature/auth/transport/handler"
	authusecase "stock_portfolio/internal/feature/auth/usecase"
	markethandler "stock_portfolio/internal/feature/market/transport/handler"
	marketusecase "stock_portfolio/internal/feature/market/usecase"
	portfolioadapters "stock_portfolio/internal/feature/portfolio/adapters"
	portfoliohandler "stock_portfolio/internal/feature/portfolio/transport/handler"
	portfoliousecase "stock_portfolio/internal/feature/portfolio/usecase"
	symbollistadapters "stock_portfolio/internal/feature/symbollist/adapters"
	symbollisthandler "stock_portfolio/internal/feature/symbollist/transport/handler"
	symbollistusecase "stock_portfolio/internal/feature/symbollist/usecase"
	valuationhandler "stock_portfolio/internal/feature/valuation/transport/handler"
	valuationusecase "stock_portfolio/internal/feature/valuation/usecase"
	infradb "stock_portfolio/internal/platform/db"
	platformhandler "stock_portfolio/internal/platform/http/handler"
	jwtmw "stock_portfolio/internal/platform/jwt"
	infraredis "stock_portfolio/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	slog.SetDefault(di.NewLogger())

	// db
	db, err := infradb.Open(infradb.LoadConfigFromEnv(), di.Models()...)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("failed to get sql.DB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(infraredis.LoadConfig()); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	jwtCfg := jwtmw.LoadConfig()
	if jwtCfg.Secret == "" {
		slog.Warn("JWT_SECRET is not set. Authenticated routes will answer 500.")
	}

	// Repository
	userRepo := authadapters.NewUserRepository(db)
	sessionRepo := di.NewSessionRepository(rdb, db)
	symbolRepo := symbollistadapters.NewSymbolRepository(db)
	portfolioRepo := portfolioadapters.NewPortfolioRepository(db)
	marketRepo := di.NewMarketRepository(rdb, di.NewFinnhubClient())

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo,
		jwtmw.NewGenerator(jwtCfg.Secret, jwtCfg.Expiration),
		authusecase.SessionConfig{RefreshTTL: jwtCfg.RefreshTTL, MaxSessions: jwtCfg.MaxSessions})
	marketCfg := marketusecase.LoadConfig()
	symbolUC := symbollistusecase.NewSymbolUsecase(symbolRepo, marketRepo)
	marketUC := marketusecase.NewMarketUsecase(marketRepo, symbolRepo, marketCfg)
	portfolioUC := portfoliousecase.NewPortfolioUsecase(portfolioRepo, portfoliousecase.LoadConfig())
	valuationUC := valuationusecase.NewValuationUsecase(portfolioUC, marketUC, marketCfg.Concurrency)

	purgeCtx, cancelPurge := context.WithTimeout(context.Background(), 30*time.Second)
	if n, err := authUC.PurgeExpiredSessions(purgeCtx); err != nil {
		slog.Warn("failed to purge expired sessions", "error", err)
	} else {
		slog.Info("expired sessions purged", "count", n)
	}
	cancelPurge()

	// Handler
	checks := map[string]platformhandler.Check{
		"db": func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	r := router.NewRouter(router.Handlers{
		Health:    platformhandler.NewHealthHandler(checks),
		Auth:      authhandler.NewAuthHandler(authUC),
		Market:    markethandler.NewMarketHandler(marketUC),
		Symbol:    symbollisthandler.NewSymbolHandler(symbolUC),
		Portfolio: portfoliohandler.NewPortfolioHandler(portfolioUC),
		Valuation: valuationhandler.NewValuationHandler(valuationUC),
	}, router.LoadConfig())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
