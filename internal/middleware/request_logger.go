package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/logger"
	"github.com/rs/zerolog"
)

// RequestLogger writes one access log line per request through the request
// scoped logger. The level follows the response status.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		event := logger.FromContext(c.Request.Context()).WithLevel(getLogLevel(status)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", status).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Int("response_bytes", c.Writer.Size()).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent())

		if route := c.FullPath(); route != "" {
			event = event.Str("route", route)
		}
		if client := c.GetString(APIClientKey); client != "" {
			event = event.Str("api_client", client)
		}
		if subject := c.GetString(WebhookSubjectKey); subject != "" {
			event = event.Str("webhook_subject", subject)
		}

		event.Msg("HTTP request")
	}
}

func getLogLevel(statusCode int) zerolog.Level {
	switch {
	case statusCode >= 500:
		return zerolog.ErrorLevel
	case statusCode >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
