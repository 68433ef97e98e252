package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/middleware"
)

// Routes mounts a handler's endpoints on the /api group.
type Routes interface {
	Register(api *gin.RouterGroup)
}

var (
	_ Routes = (*AdviceRoutes)(nil)
	_ Routes = (*CostRoutes)(nil)
)

// AdviceRoutes exposes the advice calculation, log and feedback endpoints.
type AdviceRoutes struct {
	handler *AdviceHandler
}

// NewAdviceRoutes wraps handler.
func NewAdviceRoutes(handler *AdviceHandler) *AdviceRoutes {
	return &AdviceRoutes{handler: handler}
}

// Register mounts /advice and the per-order lookup.
func (r *AdviceRoutes) Register(api *gin.RouterGroup) {
	advice := api.Group("/advice")
	advice.POST("/calculate", r.handler.Calculate)
	advice.GET("", r.handler.List)
	advice.GET("/:id", r.handler.Get)
	advice.POST("/:id/apply-tags", r.handler.ApplyTags)
	advice.POST("/:id/outcome", r.handler.RecordOutcome)

	api.GET("/orders/:orderId/advice", r.handler.LatestForOrder)
}

// CostRoutes exposes the cost table summary and its invalidation webhook.
type CostRoutes struct {
	handler *CostHandler
}

// NewCostRoutes wraps handler.
func NewCostRoutes(handler *CostHandler) *CostRoutes {
	return &CostRoutes{handler: handler}
}

// Register mounts the cost summary.
func (r *CostRoutes) Register(api *gin.RouterGroup) {
	api.GET("/costs", r.handler.Summary)
}

// RegisterWebhook mounts the invalidation webhook. The cost publisher is not
// an API client, so the group must not carry API key auth; the webhook
// authenticates with a signed token instead.
func (r *CostRoutes) RegisterWebhook(hooks *gin.RouterGroup, auth middleware.WebhookAuthConfig) {
	hooks.POST("/costs/invalidate", middleware.WebhookAuth(auth), r.handler.Invalidate)
}
