package app

import (
	"context"
	"time"

	"github.com/guttosm/pack-advice/config"
	"github.com/guttosm/pack-advice/internal/costs"
	"github.com/guttosm/pack-advice/internal/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisPingTimeout = 3 * time.Second

// RedisComponents holds the shared Redis client and the components built on it.
type RedisComponents struct {
	Client           redis.UniversalClient
	Invalidator      *costs.RedisInvalidator
	IdempotencyStore middleware.IdempotencyStore
}

// InitializeRedis connects to Redis. It returns nil when Redis is not configured or
// unreachable; the service then keeps cost caches and idempotency keys per replica.
func InitializeRedis(cfg config.RedisConfig) *RedisComponents {
	if !cfg.Enabled() {
		return nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		log.Error().Err(err).Msg("Invalid REDIS_URL - continuing without Redis")
		return nil
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("Failed to connect to Redis - continuing without Redis")
		_ = rdb.Close()
		return nil
	}
	log.Info().Str("channel", cfg.Channel).Msg("Connected to Redis")

	return &RedisComponents{
		Client:           rdb,
		Invalidator:      costs.NewRedisInvalidator(rdb, cfg.Channel),
		IdempotencyStore: middleware.NewRedisIdempotencyStore(rdb, middleware.IdempotencyKeyTTL),
	}
}

// Close releases the Redis connection pool.
func (r *RedisComponents) Close(context.Context) error {
	return r.Client.Close()
}
