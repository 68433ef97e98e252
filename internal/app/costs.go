package app

import (
	"context"

	"github.com/guttosm/pack-advice/config"
	"github.com/guttosm/pack-advice/internal/circuitbreaker"
	"github.com/guttosm/pack-advice/internal/costs"
	"github.com/guttosm/pack-advice/internal/repository"
	"github.com/rs/zerolog/log"
)

// CostComponents holds the cost table cache and its backing store.
type CostComponents struct {
	Provider       *costs.Provider
	Store          *repository.CostStore
	CircuitBreaker *circuitbreaker.CircuitBreaker
	Close          func(ctx context.Context) error
}

// InitializeCosts connects to the cost database. Without one the provider reports
// cost data as unavailable and advice is computed without prices.
func InitializeCosts(cfg config.CostStoreConfig, cbCfg config.CircuitBreakerConfig, containers costs.ContainerLister) *CostComponents {
	opts := []costs.Option{costs.WithTTL(cfg.TTL)}
	if containers != nil {
		opts = append(opts, costs.WithSKUValidation(containers))
	}

	if !cfg.Enabled() {
		log.Warn().Msg("COST_DB_DSN not set - advice is computed without costs")
		return &CostComponents{Provider: costs.NewProvider(nil, opts...)}
	}

	db, err := repository.ConnectCostDB(cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to cost database - continuing without costs")
		return &CostComponents{Provider: costs.NewProvider(nil, opts...)}
	}
	log.Info().Str("price_tier", cfg.PriceTier).Msg("Connected to cost database")

	store := repository.NewCostStore(db, cfg.PriceTier)
	cb := newCircuitBreaker("cost_store", cbCfg)

	return &CostComponents{
		Provider:       costs.NewProvider(repository.NewCostStoreWithCircuitBreaker(store, cb), opts...),
		Store:          store,
		CircuitBreaker: cb,
		Close: func(context.Context) error {
			return store.Close()
		},
	}
}
