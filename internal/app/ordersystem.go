package app

import (
	"github.com/guttosm/pack-advice/config"
	"github.com/guttosm/pack-advice/internal/ordersystem"
	"github.com/rs/zerolog/log"
)

// InitializeOrderSystem creates the order system client, or returns nil when no
// base URL is configured. Product sync and tag writing are disabled without it.
func InitializeOrderSystem(cfg config.OrderSystemConfig, cbCfg config.CircuitBreakerConfig) *ordersystem.Client {
	if !cfg.Enabled() {
		log.Warn().Msg("ORDER_SYSTEM_URL not set - product sync and tag writing are disabled")
		return nil
	}

	return ordersystem.NewClient(ordersystem.Config{
		BaseURL:           cfg.BaseURL,
		APIKey:            cfg.APIKey,
		UserAgent:         cfg.UserAgent,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Timeout:           cfg.Timeout,
		MaxRetries:        cfg.MaxRetries,
	}, newCircuitBreaker("order_system", cbCfg))
}
