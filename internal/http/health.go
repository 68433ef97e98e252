package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/circuitbreaker"
	"golang.org/x/sync/errgroup"
)

// readinessCheckTimeout bounds one dependency probe.
const readinessCheckTimeout = 2 * time.Second

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusDown     = "down"
)

// HealthChecker defines the interface for health check operations.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a ping function, such as MongoDB.HealthCheck, to HealthChecker.
type CheckerFunc func(ctx context.Context) error

// Check calls f.
func (f CheckerFunc) Check(ctx context.Context) error {
	return f(ctx)
}

type dependency struct {
	name     string
	required bool
	checker  HealthChecker
	breaker  *circuitbreaker.CircuitBreaker
}

// HealthHandler serves the liveness and readiness probes. Required
// dependencies fail readiness; optional ones, like the cost table, only mark
// the service degraded because advice is still computed without them.
type HealthHandler struct {
	deps []dependency
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// RegisterChecker adds a required dependency probe.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.deps = append(h.deps, dependency{name: name, required: true, checker: checker})
}

// RegisterOptionalChecker adds a probe whose failure only degrades the service.
func (h *HealthHandler) RegisterOptionalChecker(name string, checker HealthChecker) {
	h.deps = append(h.deps, dependency{name: name, checker: checker})
}

// RegisterCircuitBreaker reports the state of cb as name_circuit. An open
// circuit fails readiness when required is set.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker, required bool) {
	if cb == nil {
		return
	}
	h.deps = append(h.deps, dependency{name: name + "_circuit", required: required, breaker: cb})
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// CheckResult is the outcome of one dependency probe.
type CheckResult struct {
	Status   string `json:"status" example:"ok"`
	Required bool   `json:"required"`
	Detail   string `json:"detail,omitempty" example:"connection refused"`
}

// ReadinessReport is the body of the readiness probe.
type ReadinessReport struct {
	Status string                 `json:"status" example:"ok"`
	Checks map[string]CheckResult `json:"checks"`
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK while the process is serving requests.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Probes every dependency concurrently. A failing required dependency returns 503; a failing optional one returns 200 with status "degraded".
// @Tags        Health
// @Produce     json
// @Success     200 {object} ReadinessReport "Ready, possibly degraded"
// @Failure     503 {object} ReadinessReport "A required dependency is down"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := h.check(c.Request.Context())
	status := http.StatusOK
	if report.Status == statusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

func (h *HealthHandler) check(ctx context.Context) ReadinessReport {
	ctx, cancel := context.WithTimeout(ctx, readinessCheckTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]CheckResult, len(h.deps))
	)
	var g errgroup.Group
	for _, d := range h.deps {
		g.Go(func() error {
			res := CheckResult{Status: statusOK, Required: d.required}
			switch {
			case d.breaker != nil:
				stats := d.breaker.GetStats()
				if !stats.IsHealthy {
					res.Status = statusDown
					res.Detail = "circuit " + stats.State
				}
			case d.checker != nil:
				if err := d.checker.Check(ctx); err != nil {
					res.Status = statusDown
					res.Detail = err.Error()
				}
			}
			mu.Lock()
			results[d.name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report := ReadinessReport{Status: statusOK, Checks: results}
	for _, res := range results {
		switch {
		case res.Status == statusOK:
		case res.Required:
			report.Status = statusDown
		case report.Status == statusOK:
			report.Status = statusDegraded
		}
	}
	return report
}
