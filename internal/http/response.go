package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/domain/dto"
	"github.com/guttosm/pack-advice/internal/i18n"
	"github.com/guttosm/pack-advice/internal/middleware"
)

// ResponseBuilder writes the standard success and error envelopes.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success writes data in a SuccessResponse envelope.
func (b *ResponseBuilder) Success(statusCode int, data any) {
	b.c.JSON(statusCode, dto.SuccessResponse{
		Data:      data,
		RequestID: middleware.GetRequestID(b.c),
		Timestamp: time.Now().UTC(),
	})
}

// SuccessOK writes data with status 200.
func (b *ResponseBuilder) SuccessOK(data any) {
	b.Success(http.StatusOK, data)
}

// Error aborts with a localized error envelope. err is attached to the gin
// context for the error log; a validation error also names the offending field.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	resp := dto.NewError(dto.ErrCodeFromStatus(statusCode), i18n.Message(b.c, messageKey)).
		WithRequestID(middleware.GetRequestID(b.c))

	if err != nil {
		_ = b.c.Error(err)
		var verr *dto.ValidationError
		if errors.As(err, &verr) {
			resp.Details = map[string]string{"field": verr.Field, "reason": verr.Message}
		}
	}
	b.c.AbortWithStatusJSON(statusCode, resp)
}
