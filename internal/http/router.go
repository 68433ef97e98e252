package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/i18n"
	"github.com/guttosm/pack-advice/internal/metrics"
	"github.com/guttosm/pack-advice/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var defaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// RouterConfig holds router configuration options.
type RouterConfig struct {
	// RateLimit requests per RateWindow, per IP and, with auth, per client.
	// Zero disables limiting.
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration

	EnableAuth bool
	APIKeys    map[string]bool

	EnableIdempotency bool
	// IdempotencyStore replaces the in-memory response cache when set.
	IdempotencyStore middleware.IdempotencyStore

	CORSOrigins []string
	SwaggerUser string
	SwaggerPass string

	// WebhookSecret signs the tokens of the cost invalidation webhook; empty
	// rejects every call.
	WebhookSecret []byte
	WebhookIssuer string

	Advice *AdviceHandler
	Costs  *CostHandler
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:      100,
		RateWindow:     time.Minute,
		RequestTimeout: middleware.DefaultRequestTimeout,
	}
}

// NewRouter builds the engine: probes, metrics and docs at the root, the
// cost webhook under /api with token auth, and every other /api route behind
// the API key, the per-client limit and idempotency.
func NewRouter(healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(notFound)
	router.NoMethod(methodNotAllowed)

	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(),
		middleware.ErrorHandler(),
	)
	if cfg.RateLimit > 0 {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow).RateLimit())
	}

	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	mountSwagger(router, cfg.SwaggerUser, cfg.SwaggerPass)

	if cfg.Costs != nil {
		hooks := router.Group("/api", middleware.Timeout(cfg.RequestTimeout))
		NewCostRoutes(cfg.Costs).RegisterWebhook(hooks, middleware.WebhookAuthConfig{
			Secret: cfg.WebhookSecret,
			Issuer: cfg.WebhookIssuer,
		})
	}

	api := router.Group("/api", apiMiddleware(&cfg)...)
	for _, routes := range businessRoutes(&cfg) {
		routes.Register(api)
	}
	return router
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Accept-Encoding", "Accept-Language",
			"Authorization", middleware.APIKeyHeader, middleware.IdempotencyKeyHeader, middleware.RequestIDHeader,
		},
		ExposeHeaders: []string{
			middleware.RequestIDHeader, middleware.IdempotencyReplayedHeader,
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
}

// mountSwagger serves the API docs, behind basic auth when credentials are set.
func mountSwagger(router *gin.Engine, user, pass string) {
	docs := ginSwagger.WrapHandler(swaggerFiles.Handler)
	if user != "" && pass != "" {
		router.GET("/swagger/*any", gin.BasicAuth(gin.Accounts{user: pass}), docs)
		return
	}
	router.GET("/swagger/*any", docs)
}

func apiMiddleware(cfg *RouterConfig) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{middleware.Timeout(cfg.RequestTimeout)}

	if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
		chain = append(chain, middleware.APIKeyAuth(cfg.APIKeys))
		if cfg.RateLimit > 0 {
			chain = append(chain, middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow).ClientRateLimit())
		}
	}

	if cfg.EnableIdempotency {
		idem := middleware.DefaultIdempotencyConfig()
		if cfg.IdempotencyStore != nil {
			idem.Store = cfg.IdempotencyStore
		}
		chain = append(chain, middleware.Idempotency(idem))
	}
	return chain
}

func businessRoutes(cfg *RouterConfig) []Routes {
	var routes []Routes
	if cfg.Advice != nil {
		routes = append(routes, NewAdviceRoutes(cfg.Advice))
	}
	if cfg.Costs != nil {
		routes = append(routes, NewCostRoutes(cfg.Costs))
	}
	return routes
}

func notFound(c *gin.Context) {
	NewResponseBuilder(c).Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
}

func methodNotAllowed(c *gin.Context) {
	NewResponseBuilder(c).Error(http.StatusMethodNotAllowed, i18n.ErrKeyInvalidRequest, nil)
}
