package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/domain/dto"
	"github.com/guttosm/pack-advice/internal/i18n"
	"github.com/guttosm/pack-advice/internal/logger"
)

// ErrorHandler logs errors attached to the gin context. When the handler left
// the response unwritten, binding and validation errors become a 400 and
// everything else a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last()
		logger.FromContext(c.Request.Context()).Error().
			Err(last.Err).
			Int("error_count", len(c.Errors)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}
		var verr *dto.ValidationError
		if last.IsType(gin.ErrorTypeBind) || errors.As(last.Err, &verr) {
			abort(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest)
			return
		}
		abort(c, http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError)
	}
}
