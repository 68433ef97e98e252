package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/costs"
	"github.com/guttosm/pack-advice/internal/domain/dto"
	"github.com/guttosm/pack-advice/internal/i18n"
	"github.com/guttosm/pack-advice/internal/middleware"
	"github.com/guttosm/pack-advice/internal/service"
	"github.com/rs/zerolog/log"
)

var errCostDataUnavailable = errors.New("cost data unavailable")

// CostBroadcaster tells other replicas to drop their cost cache.
type CostBroadcaster interface {
	Publish(ctx context.Context) error
}

// CostHandler provides HTTP handlers for the cost table routes.
type CostHandler struct {
	costs       service.CostSource
	cache       costs.Invalidator
	broadcaster CostBroadcaster
}

// NewCostHandler creates a new CostHandler. broadcaster may be nil.
func NewCostHandler(source service.CostSource, cache costs.Invalidator, broadcaster CostBroadcaster) *CostHandler {
	return &CostHandler{costs: source, cache: cache, broadcaster: broadcaster}
}

// Summary handles GET /api/costs requests.
//
// @Summary      Cost summary per box
// @Description  Returns the representative cost entry per box SKU for a destination country: the cheapest entry valid for any weight, else the cheapest entry.
// @Tags         Costs
// @Produce      json
// @Param        country query string true "ISO country code"
// @Success      200 {object} dto.SuccessResponse{data=dto.CostSummaryResponse} "Cost summary"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing country"
// @Failure      503 {object} dto.ErrorResponse "Cost data unavailable"
// @Security     ApiKeyAuth
// @Router       /api/costs [get]
func (h *CostHandler) Summary(c *gin.Context) {
	builder := NewResponseBuilder(c)

	country := strings.ToUpper(strings.TrimSpace(c.Query("country")))
	if country == "" {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationCountry, dto.ErrUnsupportedCountry)
		return
	}

	table, ok := h.costs.CostsForCountry(c.Request.Context(), country)
	if !ok {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyCostDataUnavailable, errCostDataUnavailable)
		return
	}
	builder.SuccessOK(dto.CostSummaryResponse{
		CountryCode: country,
		Entries:     costs.Summary(table),
	})
}

// Invalidate handles POST /api/costs/invalidate requests.
//
// @Summary      Invalidate the cost cache
// @Description  Called by the cost table publisher after a new price list is published. Clears the local cache and notifies other replicas.
// @Tags         Costs
// @Produce      json
// @Param        Authorization header string true "Bearer token signed with the webhook secret"
// @Success      200 {object} dto.SuccessResponse{data=dto.CostInvalidationResponse} "Cache invalidated"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid token"
// @Security     BearerAuth
// @Router       /api/costs/invalidate [post]
func (h *CostHandler) Invalidate(c *gin.Context) {
	builder := NewResponseBuilder(c)

	h.cache.Invalidate()
	resp := dto.CostInvalidationResponse{Invalidated: true}

	if h.broadcaster != nil {
		if err := h.broadcaster.Publish(c.Request.Context()); err != nil {
			log.Error().
				Err(err).
				Str("request_id", middleware.GetRequestID(c)).
				Msg("Failed to broadcast cost cache invalidation")
		} else {
			resp.Broadcast = true
		}
	}

	builder.SuccessOK(resp)
}
