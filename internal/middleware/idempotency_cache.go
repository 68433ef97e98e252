package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/guttosm/pack-advice/internal/logger"
	"github.com/redis/go-redis/v9"
)

// DefaultIdempotencyPrefix namespaces idempotency entries in Redis.
const DefaultIdempotencyPrefix = "pack-advice:idempotency:"

// CachedResponse is a replayable response together with the digest of the
// request body that produced it.
type CachedResponse struct {
	StatusCode  int               `json:"status_code"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        []byte            `json:"body"`
	RequestHash string            `json:"request_hash"`
	StoredAt    time.Time         `json:"stored_at"`
}

// IdempotencyStore keeps responses to replay for a repeated Idempotency-Key.
// Both methods are best effort: a failing store only costs a replay.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*CachedResponse, bool)
	Set(ctx context.Context, key string, resp *CachedResponse)
}

type memoryIdempotencyStore struct {
	mu    sync.RWMutex
	items map[string]*CachedResponse
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryIdempotencyStore creates a per-process store. Expired entries are
// swept every minute for the lifetime of the process.
func NewMemoryIdempotencyStore(ttl time.Duration) IdempotencyStore {
	s := &memoryIdempotencyStore{
		items: make(map[string]*CachedResponse),
		ttl:   ttl,
		now:   time.Now,
	}
	go func() {
		for range time.Tick(time.Minute) {
			s.cleanup()
		}
	}()
	return s
}

func (s *memoryIdempotencyStore) expired(resp *CachedResponse) bool {
	return s.now().Sub(resp.StoredAt) > s.ttl
}

func (s *memoryIdempotencyStore) Get(_ context.Context, key string) (*CachedResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp, ok := s.items[key]
	if !ok || s.expired(resp) {
		return nil, false
	}
	return resp, true
}

func (s *memoryIdempotencyStore) Set(_ context.Context, key string, resp *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp.StoredAt = s.now()
	s.items[key] = resp
}

func (s *memoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, resp := range s.items {
		if s.expired(resp) {
			delete(s.items, key)
		}
	}
}

// RedisIdempotencyStore shares replayable responses between replicas so a
// retry routed to another instance is still recognised.
type RedisIdempotencyStore struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewRedisIdempotencyStore creates a store on an existing Redis client.
func NewRedisIdempotencyStore(rdb redis.UniversalClient, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb, ttl: ttl, prefix: DefaultIdempotencyPrefix}
}

// Get reads a response; Redis errors are logged and treated as a miss.
func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (*CachedResponse, bool) {
	data, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false
	case err != nil:
		logger.FromContext(ctx).Warn().Err(err).Msg("Idempotency lookup failed")
		return nil, false
	}

	var resp CachedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("Ignoring malformed idempotency entry")
		return nil, false
	}
	return &resp, true
}

// Set stores a response with the store TTL.
func (s *RedisIdempotencyStore) Set(ctx context.Context, key string, resp *CachedResponse) {
	resp.StoredAt = time.Now().UTC()
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("Idempotency store failed")
	}
}
