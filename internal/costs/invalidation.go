package costs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultInvalidationChannel is the pub/sub channel shared by all replicas.
const DefaultInvalidationChannel = "pack-advice:cost-cache:invalidate"

// Invalidator clears a local cache.
type Invalidator interface {
	Invalidate()
}

type invalidationMessage struct {
	Source string    `json:"source"`
	At     time.Time `json:"at"`
}

// RedisInvalidator broadcasts cost cache invalidations to every replica over Redis pub/sub.
type RedisInvalidator struct {
	rdb        redis.UniversalClient
	channel    string
	instanceID string
}

// NewRedisInvalidator creates an invalidator on an existing Redis client.
func NewRedisInvalidator(rdb redis.UniversalClient, channel string) *RedisInvalidator {
	if channel == "" {
		channel = DefaultInvalidationChannel
	}
	return &RedisInvalidator{rdb: rdb, channel: channel, instanceID: uuid.NewString()}
}

// Publish announces an invalidation to the other replicas.
func (r *RedisInvalidator) Publish(ctx context.Context) error {
	data, err := json.Marshal(invalidationMessage{Source: r.instanceID, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.rdb.Publish(ctx, r.channel, data).Err()
}

// Listen invalidates target for every message published by another replica.
// It blocks until ctx is cancelled.
func (r *RedisInvalidator) Listen(ctx context.Context, target Invalidator) error {
	ps := r.rdb.Subscribe(ctx, r.channel)
	defer func() {
		_ = ps.Close()
	}()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	log.Info().Str("channel", r.channel).Msg("Listening for cost cache invalidations")

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			handleInvalidation(r.instanceID, msg.Payload, target)
		}
	}
}

// handleInvalidation applies one pub/sub payload; it reports whether target was invalidated.
func handleInvalidation(self, payload string, target Invalidator) bool {
	var msg invalidationMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		log.Warn().Err(err).Msg("Ignoring malformed cost cache invalidation")
		return false
	}
	if msg.Source == self {
		return false
	}
	target.Invalidate()
	return true
}
