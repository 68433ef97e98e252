package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/guttosm/pack-advice/internal/domain/dto"
	"github.com/guttosm/pack-advice/internal/i18n"
)

const (
	// DefaultWebhookIssuer is the issuer expected on cost table webhook tokens.
	DefaultWebhookIssuer = "cost-table"
	// WebhookSubjectKey is the context key holding the token subject.
	WebhookSubjectKey = "webhook_subject"
)

// WebhookAuthConfig configures WebhookAuth.
type WebhookAuthConfig struct {
	// Secret is the shared HS256 signing secret.
	Secret []byte
	// Issuer is the required "iss" claim.
	Issuer string
	// Leeway tolerates clock skew on time-based claims.
	Leeway time.Duration
}

// WebhookAuth returns a middleware that accepts only bearer tokens signed with
// the shared secret by the expected issuer. Tokens must carry an expiry.
func WebhookAuth(cfg WebhookAuthConfig) gin.HandlerFunc {
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultWebhookIssuer
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) {
		return cfg.Secret, nil
	}

	return func(c *gin.Context) {
		reject := func(key string) {
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, key)
		}

		if len(cfg.Secret) == 0 {
			reject(i18n.ErrKeyUnauthorized)
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject(i18n.ErrKeyTokenRequired)
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			reject(i18n.ErrKeyInvalidToken)
			return
		}

		var claims jwt.RegisteredClaims
		if _, err := parser.ParseWithClaims(tokenString, &claims, keyFunc); err != nil {
			_ = c.Error(err)
			reject(i18n.ErrKeyInvalidToken)
			return
		}

		c.Set(WebhookSubjectKey, claims.Subject)
		c.Next()
	}
}
