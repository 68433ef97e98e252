package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/config"
	"github.com/guttosm/pack-advice/internal/http"
	"github.com/guttosm/pack-advice/internal/ordersystem"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// Build creates the Gin engine.
func (r *RouterComponents) Build() *gin.Engine {
	return http.NewRouter(r.HealthHandler, r.Config)
}

// InitializeRouter creates the HTTP handlers, registers readiness checks and builds
// the router configuration. redisComponents and orders may be nil.
func InitializeRouter(
	cfg config.Config,
	services *ServiceComponents,
	db *DatabaseComponents,
	costComponents *CostComponents,
	redisComponents *RedisComponents,
	orders *ordersystem.Client,
) *RouterComponents {
	healthHandler := http.NewHealthHandler()
	if db != nil {
		healthHandler.RegisterChecker("mongodb", http.CheckerFunc(db.MongoDB.HealthCheck))
		healthHandler.RegisterCircuitBreaker("advice_store", db.AdviceCircuitBreaker, true)
	}
	if orders != nil {
		healthHandler.RegisterCircuitBreaker("order_system", orders.GetCircuitBreaker(), false)
	}
	if costComponents != nil && costComponents.Store != nil {
		healthHandler.RegisterOptionalChecker("cost_db", http.CheckerFunc(costComponents.Store.HealthCheck))
		healthHandler.RegisterCircuitBreaker("cost_store", costComponents.CircuitBreaker, false)
	}
	if redisComponents != nil {
		healthHandler.RegisterOptionalChecker("redis", http.CheckerFunc(func(ctx context.Context) error {
			return redisComponents.Client.Ping(ctx).Err()
		}))
	}

	var broadcaster http.CostBroadcaster
	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		RequestTimeout:    cfg.Server.RequestTimeout,
		APIKeys:           cfg.Auth.APIKeys,
		EnableAuth:        cfg.Auth.Enabled,
		EnableIdempotency: cfg.Server.EnableIdempotency,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		WebhookSecret:     []byte(cfg.Auth.WebhookSecret),
		WebhookIssuer:     cfg.Auth.WebhookIssuer,
		Advice: http.NewAdviceHandler(
			services.Advice,
			services.Tags,
			services.Feedback,
			http.WithAllowedCountries(cfg.Engine.AllowedCountries),
		),
	}
	if redisComponents != nil {
		broadcaster = redisComponents.Invalidator
		routerCfg.IdempotencyStore = redisComponents.IdempotencyStore
	}
	if costComponents != nil && costComponents.Provider != nil {
		routerCfg.Costs = http.NewCostHandler(costComponents.Provider, costComponents.Provider, broadcaster)
	}

	return &RouterComponents{
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
