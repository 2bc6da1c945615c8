// Package router wires every HTTP route of the service.
package router

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "stock_portfolio/internal/feature/auth/transport/handler"
	markethandler "stock_portfolio/internal/feature/market/transport/handler"
	portfoliohandler "stock_portfolio/internal/feature/portfolio/transport/handler"
	symbollisthandler "stock_portfolio/internal/feature/symbollist/transport/handler"
	valuationhandler "stock_portfolio/internal/feature/valuation/transport/handler"
	platformhandler "stock_portfolio/internal/platform/http/handler"
	jwtmw "stock_portfolio/internal/platform/jwt"
	"stock_portfolio/internal/platform/metrics"
)

const EnvKeyCORSAllowOrigins = "CORS_ALLOW_ORIGINS"

// Handlers groups the feature handlers mounted by NewRouter.
type Handlers struct {
	Health    *platformhandler.HealthHandler
	Auth      *authhandler.AuthHandler
	Market    *markethandler.MarketHandler
	Symbol    *symbollisthandler.SymbolHandler
	Portfolio *portfoliohandler.PortfolioHandler
	Valuation *valuationhandler.ValuationHandler
}

// Config holds router settings.
type Config struct {
	JWTSecret    string
	AllowOrigins []string // empty disables CORS
}

// LoadConfig reads JWT_SECRET and the comma separated CORS_ALLOW_ORIGINS.
func LoadConfig() Config {
	cfg := Config{JWTSecret: os.Getenv(jwtmw.EnvKeyJWTSecret)}
	for _, o := range strings.Split(os.Getenv(EnvKeyCORSAllowOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	return cfg
}

func NewRouter(h Handlers, cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware())

	if len(cfg.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// public
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/signup", h.Auth.Signup)
	r.POST("/login", h.Auth.Login)
	r.POST("/refresh", h.Auth.Refresh)
	r.POST("/logout", h.Auth.Logout)

	stocks := r.Group("/stocks")
	{
		stocks.GET("/search", h.Market.Search)
		stocks.GET("/trending", h.Market.Trending)
		stocks.GET("/:symbol/quote", h.Market.GetQuote)
		stocks.GET("/:symbol/history", h.Market.GetHistory)
	}
	r.GET("/symbols", h.Symbol.List)

	// bearer token required
	portfolio := r.Group("/portfolio")
	portfolio.Use(jwtmw.AuthRequired(cfg.JWTSecret))
	{
		portfolio.GET("/holdings", h.Portfolio.Holdings)
		portfolio.POST("/buy", h.Portfolio.Buy)
		portfolio.POST("/sell", h.Portfolio.Sell)
		portfolio.GET("/trades", h.Portfolio.Trades)
		portfolio.GET("/snapshot", h.Valuation.Snapshot)
	}

	return r
}
