package app

import (
	"context"
	"fmt"

	"github.com/guttosm/pack-advice/config"
	"github.com/guttosm/pack-advice/internal/circuitbreaker"
	"github.com/guttosm/pack-advice/internal/metrics"
	"github.com/guttosm/pack-advice/internal/repository"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds the MongoDB backed repositories.
type DatabaseComponents struct {
	MongoDB    *repository.MongoDB
	Catalog    *repository.CatalogRepository
	Containers *repository.ContainerRepository
	Advice     repository.AdviceRepositoryInterface

	AdviceCircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and creates the repositories.
func InitializeDatabase(cfg config.DatabaseConfig, cbCfg config.CircuitBreakerConfig) (*DatabaseComponents, error) {
	db, err := repository.ConnectMongoDB(context.Background(), repository.MongoSettings{
		URI:            cfg.URI,
		Database:       cfg.DatabaseName,
		MaxPoolSize:    cfg.MaxPoolSize,
		ConnectTimeout: cfg.ConnectTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	adviceCB := newCircuitBreaker("advice_store", cbCfg)

	return &DatabaseComponents{
		MongoDB:              db,
		Catalog:              repository.NewCatalogRepository(db),
		Containers:           repository.NewContainerRepository(db),
		Advice:               repository.NewAdviceRepositoryWithCircuitBreaker(repository.NewAdviceRepository(db), adviceCB),
		AdviceCircuitBreaker: adviceCB,
	}, nil
}

// newCircuitBreaker builds a breaker whose state is exported as a metric.
func newCircuitBreaker(name string, cfg config.CircuitBreakerConfig) *circuitbreaker.CircuitBreaker {
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.FailureThreshold,
		SuccessThreshold: cfg.SuccessThreshold,
		Timeout:          cfg.Timeout,
		Name:             name,
		OnStateChange: func(name string, to circuitbreaker.State) {
			metrics.RecordCircuitState(name, int(to))
			log.Warn().Str("circuit", name).Str("state", to.String()).Msg("Circuit breaker state changed")
		},
	})
	metrics.RecordCircuitState(name, int(circuitbreaker.StateClosed))
	return cb
}
