package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/domain/dto"
	"github.com/guttosm/pack-advice/internal/i18n"
)

// abort stops the chain with a localized error body carrying the request id.
func abort(c *gin.Context, status int, code, messageKey string) {
	c.AbortWithStatusJSON(status, dto.NewError(code, i18n.Message(c, messageKey)).WithRequestID(GetRequestID(c)))
}
