package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/circuitbreaker"
	"github.com/guttosm/pack-advice/internal/domain/dto"
	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/guttosm/pack-advice/internal/i18n"
	"github.com/guttosm/pack-advice/internal/ordersystem"
	"github.com/guttosm/pack-advice/internal/service"
)

// AdviceHandler provides HTTP handlers for packaging advice routes.
type AdviceHandler struct {
	advice           service.AdviceService
	tags             service.TagApplier
	feedback         service.FeedbackService
	allowedCountries []string
}

// AdviceHandlerOption configures an AdviceHandler.
type AdviceHandlerOption func(*AdviceHandler)

// WithAllowedCountries restricts the accepted destination countries.
func WithAllowedCountries(countries []string) AdviceHandlerOption {
	return func(h *AdviceHandler) {
		h.allowedCountries = countries
	}
}

// NewAdviceHandler creates a new AdviceHandler instance.
func NewAdviceHandler(advice service.AdviceService, tags service.TagApplier, feedback service.FeedbackService, opts ...AdviceHandlerOption) *AdviceHandler {
	h := &AdviceHandler{
		advice:           advice,
		tags:             tags,
		feedback:         feedback,
		allowedCountries: dto.DefaultAllowedCountries,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Calculate handles POST /api/advice/calculate requests.
//
// @Summary      Calculate packaging advice
// @Description  Classifies the order lines into shipping units, matches them against container compartment rules and returns the cheapest box set. An unchanged order returns the stored advice. Supports idempotency via Idempotency-Key header.
// @Tags         Advice
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.CalculateAdviceRequest true "Order contents"
// @Success      200 {object} dto.SuccessResponse{data=model.PackagingAdviceResult} "Advice"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid API key"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Service unavailable"
// @Security     ApiKeyAuth
// @Router       /api/advice/calculate [post]
func (h *AdviceHandler) Calculate(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindRequest[dto.CalculateAdviceRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}
	if err := req.Validate(h.allowedCountries); err != nil {
		builder.Error(http.StatusBadRequest, validationKey(err), err)
		return
	}

	advice, err := h.advice.Calculate(c.Request.Context(), service.AdviceRequest{
		OrderID:                   req.OrderID,
		PickID:                    req.PickID,
		ShippingProviderProfileID: req.ShippingProviderProfileID,
		CountryCode:               req.CountryCode,
		Products:                  req.Products,
	})
	if err != nil {
		h.serviceError(builder, err)
		return
	}
	builder.SuccessOK(advice)
}

// List handles GET /api/advice requests.
//
// @Summary      List packaging advice
// @Description  Returns non-invalidated advice, newest first. Outcome "pending" selects advice without recorded feedback.
// @Tags         Advice
// @Produce      json
// @Param        confidence query string false "full_match, partial_match or no_match"
// @Param        outcome query string false "followed, modified, ignored, no_advice or pending"
// @Param        limit query int false "Page size (default 20, max 100)"
// @Param        offset query int false "Page offset"
// @Success      200 {object} dto.SuccessResponse{data=dto.AdviceLogResponse} "Advice log page"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid paging"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     ApiKeyAuth
// @Router       /api/advice [get]
func (h *AdviceHandler) List(c *gin.Context) {
	builder := NewResponseBuilder(c)

	limit, err := queryInt(c, "limit")
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	filter := model.AdviceFilter{
		Confidence: c.Query("confidence"),
		Outcome:    c.Query("outcome"),
		Limit:      limit,
		Offset:     offset,
	}.Normalized()

	items, total, err := h.advice.List(c.Request.Context(), filter)
	if err != nil {
		h.serviceError(builder, err)
		return
	}
	builder.SuccessOK(dto.AdviceLogResponse{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Get handles GET /api/advice/:id requests.
//
// @Summary      Get packaging advice
// @Tags         Advice
// @Produce      json
// @Param        id path string true "Advice id"
// @Success      200 {object} dto.SuccessResponse{data=model.PackagingAdviceResult} "Advice"
// @Failure      404 {object} dto.ErrorResponse "Advice not found"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     ApiKeyAuth
// @Router       /api/advice/{id} [get]
func (h *AdviceHandler) Get(c *gin.Context) {
	builder := NewResponseBuilder(c)

	advice, err := h.advice.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serviceError(builder, err)
		return
	}
	builder.SuccessOK(advice)
}

// LatestForOrder handles GET /api/orders/:orderId/advice requests.
//
// @Summary      Get the current advice of an order
// @Tags         Advice
// @Produce      json
// @Param        orderId path int true "Order id"
// @Success      200 {object} dto.SuccessResponse{data=model.PackagingAdviceResult} "Advice"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid order id"
// @Failure      404 {object} dto.ErrorResponse "Order has no active advice"
// @Security     ApiKeyAuth
// @Router       /api/orders/{orderId}/advice [get]
func (h *AdviceHandler) LatestForOrder(c *gin.Context) {
	builder := NewResponseBuilder(c)

	orderID, err := pathOrderID(c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	advice, err := h.advice.LatestForOrder(c.Request.Context(), orderID)
	if err != nil {
		h.serviceError(builder, err)
		return
	}
	builder.SuccessOK(advice)
}

// ApplyTags handles POST /api/advice/:id/apply-tags requests.
//
// @Summary      Write advice tags to the order
// @Description  Replaces the engine-owned tags on the order with one tag per advised box. Tags unknown to the order system are skipped.
// @Tags         Advice
// @Produce      json
// @Param        id path string true "Advice id"
// @Success      200 {object} dto.SuccessResponse{data=dto.ApplyTagsResponse} "Tags written"
// @Failure      404 {object} dto.ErrorResponse "Advice not found"
// @Failure      502 {object} dto.ErrorResponse "Order system unavailable"
// @Security     ApiKeyAuth
// @Router       /api/advice/{id}/apply-tags [post]
func (h *AdviceHandler) ApplyTags(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id := c.Param("id")
	written, err := h.tags.Apply(c.Request.Context(), id)
	if err != nil {
		h.serviceError(builder, err)
		return
	}
	builder.SuccessOK(dto.ApplyTagsResponse{AdviceID: id, TagsWritten: written})
}

// RecordOutcome handles POST /api/advice/:id/outcome requests.
//
// @Summary      Record how the order was actually packed
// @Tags         Advice
// @Accept       json
// @Produce      json
// @Param        id path string true "Advice id"
// @Param        request body dto.RecordOutcomeRequest true "Boxes actually used"
// @Success      200 {object} dto.SuccessResponse{data=model.OutcomeRecord} "Outcome"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      404 {object} dto.ErrorResponse "Advice not found"
// @Security     ApiKeyAuth
// @Router       /api/advice/{id}/outcome [post]
func (h *AdviceHandler) RecordOutcome(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindRequest[dto.RecordOutcomeRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	record, err := h.feedback.RecordOutcome(c.Request.Context(), c.Param("id"), req.ActualBoxes)
	if err != nil {
		h.serviceError(builder, err)
		return
	}
	builder.SuccessOK(record)
}

func (h *AdviceHandler) serviceError(builder *ResponseBuilder, err error) {
	var statusErr *ordersystem.StatusError
	switch {
	case errors.Is(err, service.ErrAdviceNotFound):
		builder.Error(http.StatusNotFound, i18n.ErrKeyAdviceNotFound, err)
	case errors.Is(err, service.ErrNoProducts):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationProducts, err)
	case errors.Is(err, service.ErrAdviceConflict):
		builder.Error(http.StatusConflict, i18n.ErrKeyConflict, err)
	case errors.As(err, &statusErr), errors.Is(err, ordersystem.ErrRateLimited), errors.Is(err, ordersystem.ErrNotFound):
		builder.Error(http.StatusBadGateway, i18n.ErrKeyOrderSystemUnavailable, err)
	case errors.Is(err, circuitbreaker.ErrCircuitOpen), errors.Is(err, service.ErrOrderSystemNotConfigured):
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyOrderSystemUnavailable, err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

func validationKey(err error) string {
	switch {
	case errors.Is(err, dto.ErrUnsupportedCountry):
		return i18n.ErrKeyValidationCountry
	case errors.Is(err, dto.ErrNoProducts):
		return i18n.ErrKeyValidationProducts
	}
	var verr *dto.ValidationError
	if errors.As(err, &verr) && strings.HasPrefix(verr.Field, "products") {
		return i18n.ErrKeyValidationProducts
	}
	return i18n.ErrKeyInvalidRequest
}
