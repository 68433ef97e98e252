package middleware

import (
	"hash/fnv"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/domain/dto"
	"github.com/guttosm/pack-advice/internal/i18n"
)

const (
	// APIKeyHeader carries the caller's API key.
	APIKeyHeader = "X-API-Key"
	// APIKeyQuery is accepted when the header cannot be set, e.g. from the swagger UI.
	APIKeyQuery = "api_key"
	// APIClientKey holds a stable, non-secret id of the presented key for
	// per-client rate limits and access logs.
	APIClientKey = "api_client"
)

// APIKeyAuth admits requests presenting one of validKeys. An empty set
// disables the check.
func APIKeyAuth(validKeys map[string]bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(validKeys) == 0 {
			c.Next()
			return
		}

		key := presentedAPIKey(c)
		switch {
		case key == "":
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyAPIKeyRequired)
		case !validKeys[key]:
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyInvalidAPIKey)
		default:
			c.Set(APIClientKey, clientID(key))
			c.Next()
		}
	}
}

func presentedAPIKey(c *gin.Context) string {
	if key := c.GetHeader(APIKeyHeader); key != "" {
		return key
	}
	return c.Query(APIKeyQuery)
}

// clientID is a short fingerprint of the key so the key itself never reaches logs.
func clientID(key string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return strconv.FormatUint(h.Sum64(), 16)
}
