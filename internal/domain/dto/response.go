package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/pack-advice/internal/domain/model"
)

// Machine-readable error codes of ErrorResponse.Error.
const (
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimit        = "rate_limit_exceeded"
	ErrCodeTimeout          = "timeout"
	ErrCodeUnavailable      = "service_unavailable"
	ErrCodeInternal         = "internal_error"
)

// SuccessResponse is the envelope of every successful API response.
// @Description Successful API response wrapper
type SuccessResponse struct {
	Data      any       `json:"data" swaggertype:"object"`
	RequestID string    `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time `json:"timestamp" example:"2026-03-01T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse is the envelope of every API error. Message is localized
// from the caller's Accept-Language; Error is stable across locales.
// @Description Standardized error response
type ErrorResponse struct {
	Error     string            `json:"error" example:"invalid_request"`
	Message   string            `json:"message,omitempty" example:"orderId: must be a positive integer"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-03-01T10:00:00Z"`
} // @name ErrorResponse

// NewError stamps an error envelope with the current time.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: code, Message: message, Timestamp: time.Now().UTC()}
}

// WithRequestID returns a copy of e carrying requestID.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// ErrCodeFromStatus maps an HTTP status to its error code. Unmapped statuses
// are reported as internal errors.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusMethodNotAllowed:
		return ErrCodeMethodNotAllowed
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrCodeTimeout
	default:
		return ErrCodeInternal
	}
}

// ApplyTagsResponse lists the tags written to the order.
// @Description Tags written to the order
type ApplyTagsResponse struct {
	AdviceID    string   `json:"adviceId" example:"1f0e3c4e-4b8e-4a53-9f55-0a8a5d2b6c11"`
	TagsWritten []string `json:"tagsWritten" example:"C-Box S,C-Box S (2)"`
} // @name ApplyTagsResponse

// AdviceLogResponse is one page of the advice log.
// @Description Page of packaging advice records
type AdviceLogResponse struct {
	Items  []model.PackagingAdviceResult `json:"items"`
	Total  int64                         `json:"total" example:"120"`
	Limit  int                           `json:"limit" example:"20"`
	Offset int                           `json:"offset" example:"0"`
} // @name AdviceLogResponse

// CostSummaryResponse lists the representative cost entry per box SKU for a country.
// @Description Representative box costs for a destination country
type CostSummaryResponse struct {
	CountryCode string                     `json:"countryCode" example:"NL"`
	Entries     map[string]model.CostEntry `json:"entries"`
} // @name CostSummaryResponse

// CostInvalidationResponse reports where an invalidation was delivered.
// @Description Cost cache invalidation result
type CostInvalidationResponse struct {
	Invalidated bool `json:"invalidated" example:"true"`
	Broadcast   bool `json:"broadcast" example:"true"`
} // @name CostInvalidationResponse
