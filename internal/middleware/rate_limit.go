package middleware

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/domain/dto"
	"github.com/guttosm/pack-advice/internal/i18n"
	"golang.org/x/time/rate"
)

const defaultNumShards = 16

// bucket is the token bucket of one caller.
type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterShard struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// RateLimiter hands every caller a token bucket of `limit` tokens refilled
// evenly over `window`. Buckets are spread over shards to keep lock
// contention low and are dropped after two idle windows.
type RateLimiter struct {
	shards []*limiterShard
	limit  int
	window time.Duration
	every  rate.Limit
	now    func() time.Time
	stopCh chan struct{}
	once   sync.Once
}

// NewRateLimiter creates a limiter allowing limit requests per window per caller.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return NewShardedRateLimiter(limit, window, defaultNumShards)
}

// NewShardedRateLimiter is NewRateLimiter with a custom shard count.
func NewShardedRateLimiter(limit int, window time.Duration, numShards int) *RateLimiter {
	if numShards <= 0 {
		numShards = defaultNumShards
	}
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	shards := make([]*limiterShard, numShards)
	for i := range shards {
		shards[i] = &limiterShard{buckets: make(map[string]*bucket)}
	}
	rl := &RateLimiter{
		shards: shards,
		limit:  limit,
		window: window,
		every:  rate.Limit(float64(limit) / window.Seconds()),
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

func (rl *RateLimiter) shard(id string) *limiterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return rl.shards[h.Sum32()%uint32(len(rl.shards))]
}

// allow takes one token from id's bucket. It reports the tokens left and,
// when refused, how long until the next token.
func (rl *RateLimiter) allow(id string) (ok bool, remaining int, retryAfter time.Duration) {
	now := rl.now()
	s := rl.shard(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	b, exists := s.buckets[id]
	if !exists {
		b = &bucket{limiter: rate.NewLimiter(rl.every, rl.limit)}
		s.buckets[id] = b
	}
	b.lastSeen = now

	if b.limiter.AllowN(now, 1) {
		return true, int(math.Floor(b.limiter.TokensAt(now))), 0
	}
	r := b.limiter.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, 0, wait
}

// RateLimit limits requests per client IP.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return rl.middleware(func(c *gin.Context) string { return "ip:" + c.ClientIP() })
}

// ClientRateLimit limits requests per API client set by APIKeyAuth, falling
// back to the client IP.
func (rl *RateLimiter) ClientRateLimit() gin.HandlerFunc {
	return rl.middleware(func(c *gin.Context) string {
		if client := c.GetString(APIClientKey); client != "" {
			return "client:" + client
		}
		return "ip:" + c.ClientIP()
	})
}

func (rl *RateLimiter) middleware(identify func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, remaining, wait := rl.allow(identify(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			abort(c, http.StatusTooManyRequests, dto.ErrCodeRateLimit, i18n.ErrKeyRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	cutoff := rl.now().Add(-2 * rl.window)
	for _, s := range rl.shards {
		s.mu.Lock()
		for id, b := range s.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(s.buckets, id)
			}
		}
		s.mu.Unlock()
	}
}

// Stop ends the eviction goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopCh) })
}

// Tracked returns the number of callers currently holding a bucket.
func (rl *RateLimiter) Tracked() int {
	total := 0
	for _, s := range rl.shards {
		s.mu.Lock()
		total += len(s.buckets)
		s.mu.Unlock()
	}
	return total
}
