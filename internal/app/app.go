// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/config"
	"github.com/rs/zerolog/log"
)

// App holds the wired router and the resources that must be released on shutdown.
type App struct {
	Router *gin.Engine

	cancel  context.CancelFunc
	closers []func(ctx context.Context) error
}

// InitializeApp creates and wires all application dependencies.
// MongoDB is required; the cost database, Redis and the order system degrade when missing.
func InitializeApp(cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Logging)

	db, err := InitializeDatabase(cfg.Database, cfg.CircuitBreaker)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{cancel: cancel}
	a.closers = append(a.closers, db.MongoDB.Close)

	costComponents := InitializeCosts(cfg.CostStore, cfg.CircuitBreaker, db.Containers)
	if costComponents.Close != nil {
		a.closers = append(a.closers, costComponents.Close)
	}

	redisComponents := InitializeRedis(cfg.Redis)
	if redisComponents != nil {
		a.closers = append(a.closers, redisComponents.Close)
		go func() {
			if err := redisComponents.Invalidator.Listen(ctx, costComponents.Provider); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("Cost invalidation listener stopped")
			}
		}()
	}

	orders := InitializeOrderSystem(cfg.OrderSystem, cfg.CircuitBreaker)
	services := InitializeServices(cfg.Engine, db, costComponents, orders)
	routerComponents := InitializeRouter(cfg, services, db, costComponents, redisComponents, orders)

	a.Router = routerComponents.Build()
	return a, nil
}

// Close stops background listeners and releases every connection.
func (a *App) Close(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
