package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/domain/dto"
	"github.com/guttosm/pack-advice/internal/i18n"
)

const (
	// IdempotencyKeyHeader carries the caller chosen key of a retried write.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the store.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long a stored response can be replayed.
	IdempotencyKeyTTL = 5 * time.Minute

	maxIdempotencyKeyLength = 255
)

// replayedHeaders are the response headers worth restoring on a replay.
// Request ids and rate limit counters belong to the retry itself.
var replayedHeaders = []string{"Content-Type", "Location", "ETag"}

// IdempotencyConfig holds configuration for idempotency middleware.
type IdempotencyConfig struct {
	Store   IdempotencyStore
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig returns an in-memory idempotency configuration.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Store:   NewMemoryIdempotencyStore(IdempotencyKeyTTL),
		TTL:     IdempotencyKeyTTL,
		Enabled: true,
	}
}

// Idempotency makes POST, PUT and PATCH requests carrying an Idempotency-Key
// safe to retry. Keys are scoped to the calling client, the method and the
// path. The first 2xx response for a key is stored and replayed to retries
// with the same body; a retry with another body is rejected with 422, and
// one that arrives while the first is still running gets 409.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Store == nil {
		return func(c *gin.Context) { c.Next() }
	}
	inflight := &inflightKeys{keys: make(map[string]struct{})}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || !isIdempotentWrite(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abort(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest)
			return
		}

		bodyHash, err := hashBody(c.Request)
		if err != nil {
			abort(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequestBody)
			return
		}
		storeKey := idempotencyStoreKey(key, c.GetString(APIClientKey), c.Request)
		ctx := c.Request.Context()

		if cached, ok := cfg.Store.Get(ctx, storeKey); ok {
			if cached.RequestHash != bodyHash {
				abort(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidRequest, i18n.ErrKeyIdempotencyMismatch)
				return
			}
			replay(c, cached)
			return
		}

		if !inflight.acquire(storeKey) {
			abort(c, http.StatusConflict, dto.ErrCodeConflict, i18n.ErrKeyConflict)
			return
		}
		defer inflight.release(storeKey)

		rec := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if status := rec.Status(); status >= 200 && status < 300 {
			cfg.Store.Set(ctx, storeKey, &CachedResponse{
				StatusCode:  status,
				Headers:     pickHeaders(rec.Header()),
				Body:        rec.body.Bytes(),
				RequestHash: bodyHash,
			})
		}
	}
}

func isIdempotentWrite(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

func replay(c *gin.Context, cached *CachedResponse) {
	for k, v := range cached.Headers {
		c.Header(k, v)
	}
	c.Header(IdempotencyReplayedHeader, "true")
	c.Status(cached.StatusCode)
	_, _ = c.Writer.Write(cached.Body)
	c.Abort()
}

// idempotencyStoreKey scopes a caller's key so two clients, or two routes,
// never share an entry.
func idempotencyStoreKey(key, client string, req *http.Request) string {
	h := sha256.New()
	for _, part := range []string{client, req.Method, req.URL.Path, key} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// hashBody digests the request body and leaves it readable for the handler.
func hashBody(req *http.Request) (string, error) {
	sum := sha256.New()
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return "", err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		sum.Write(body)
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}

func pickHeaders(h http.Header) map[string]string {
	picked := make(map[string]string, len(replayedHeaders))
	for _, name := range replayedHeaders {
		if v := h.Get(name); v != "" {
			picked[name] = v
		}
	}
	return picked
}

// inflightKeys rejects a retry that races the request it repeats.
type inflightKeys struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func (f *inflightKeys) acquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.keys[key]; busy {
		return false
	}
	f.keys[key] = struct{}{}
	return true
}

func (f *inflightKeys) release(key string) {
	f.mu.Lock()
	delete(f.keys, key)
	f.mu.Unlock()
}

// recordingWriter tees the response body so it can be stored.
type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
