// Package metrics provides Prometheus metrics collection for the packaging advice service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace prefixes every metric of the service.
const namespace = "pack_advice"

// unmatchedRoute labels requests no route matched, keeping scanners from
// creating a series per probed path.
const unmatchedRoute = "unmatched"

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// AdviceCalculationsTotal tracks advice computations by resulting confidence.
	AdviceCalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name: "advice_calculations_total",
			Help: "Total number of packaging advice calculations",
		},
		[]string{"confidence"},
	)

	// AdviceCalculationDuration tracks advice computation duration.
	AdviceCalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:    "advice_calculation_duration_seconds",
			Help:    "Packaging advice calculation duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
	)

	// AdviceDedupHitsTotal counts computations answered by an unchanged earlier advice.
	AdviceDedupHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name: "advice_dedup_hits_total",
			Help: "Total number of advice requests answered by an existing advice",
		},
	)

	// CostCacheRefreshesTotal tracks cost table reloads.
	CostCacheRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name: "cost_cache_refreshes_total",
			Help: "Total number of cost table reloads",
		},
		[]string{"result"},
	)

	// TagWritesTotal tracks order tag mutations.
	TagWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name: "tag_writes_total",
			Help: "Total number of order tag mutations",
		},
		[]string{"action", "result"},
	)

	// OnDemandClassificationsTotal tracks products classified during an advice request.
	OnDemandClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name: "on_demand_classifications_total",
			Help: "Total number of on-demand product classifications",
		},
		[]string{"result"},
	)

	// CircuitBreakerState exposes the state of each circuit breaker: 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)
)

// PrometheusMiddleware counts and times every request by method, route
// template and status.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		labels := prometheus.Labels{
			"method":      c.Request.Method,
			"path":        route,
			"status_code": strconv.Itoa(c.Writer.Status()),
		}
		HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.With(labels).Inc()
	}
}

// RecordAdviceCalculation records metrics for an advice computation.
func RecordAdviceCalculation(duration time.Duration, confidence string) {
	AdviceCalculationDuration.Observe(duration.Seconds())
	AdviceCalculationsTotal.WithLabelValues(confidence).Inc()
}

// RecordAdviceDedupHit records an advice request answered without recomputation.
func RecordAdviceDedupHit() {
	AdviceDedupHitsTotal.Inc()
}

// RecordCostCacheRefresh records a cost table reload.
func RecordCostCacheRefresh(result string) {
	CostCacheRefreshesTotal.WithLabelValues(result).Inc()
}

// RecordTagWrite records an order tag mutation.
func RecordTagWrite(action, result string) {
	TagWritesTotal.WithLabelValues(action, result).Inc()
}

// RecordOnDemandClassification records a product classified during a request.
func RecordOnDemandClassification(result string) {
	OnDemandClassificationsTotal.WithLabelValues(result).Inc()
}

// RecordCircuitState records a circuit breaker transition.
func RecordCircuitState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}
