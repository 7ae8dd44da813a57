// Package metrics exports validation metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "amisform"

// Collector records validation events. It implements amisform.Observer and
// the request observer of the middleware package.
//
// Metrics:
//   - amisform_validations_total: validations by result (valid, invalid)
//   - amisform_validation_duration_seconds: time spent per validation
//   - amisform_violations_total: violations by rule ("rule" for form rules)
//   - amisform_expression_failures_total: expressions that failed by gate
//   - amisform_http_requests_total: HTTP validation requests by status code
//   - amisform_http_request_duration_seconds: HTTP handling time
type Collector struct {
	registry *prometheus.Registry

	validations        *prometheus.CounterVec
	validationDuration prometheus.Histogram
	violations         *prometheus.CounterVec
	expressionFailures *prometheus.CounterVec
	requests           *prometheus.CounterVec
	requestDuration    prometheus.Histogram
}

// NewCollector creates a collector and registers its metrics with registry.
// If registry is nil a new one is created.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	c := &Collector{
		registry: registry,
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Total number of validations by result",
		}, []string{"result"}),
		validationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Duration of a validation in seconds",
			// validations without expressions finish in microseconds
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to 2.6s
		}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_total",
			Help:      "Total number of reported violations by rule",
		}, []string{"rule"}),
		expressionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expression_failures_total",
			Help:      "Total number of expressions that could not be evaluated",
		}, []string{"gate"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP validation requests by status code",
		}, []string{"code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP validation requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	registry.MustRegister(c.validations, c.validationDuration, c.violations,
		c.expressionFailures, c.requests, c.requestDuration)
	return c
}

// ValidationDone records one finished validation.
func (c *Collector) ValidationDone(violations int, elapsed time.Duration) {
	result := "valid"
	if violations > 0 {
		result = "invalid"
	}
	c.validations.WithLabelValues(result).Inc()
	c.validationDuration.Observe(elapsed.Seconds())
}

// ExpressionFailed records an expression that could not be evaluated.
func (c *Collector) ExpressionFailed(gate string) {
	c.expressionFailures.WithLabelValues(gate).Inc()
}

// RuleFailed records one violation of rule.
func (c *Collector) RuleFailed(rule string) {
	c.violations.WithLabelValues(rule).Inc()
}

// RequestDone records one handled HTTP request.
func (c *Collector) RequestDone(code int, elapsed time.Duration) {
	c.requests.WithLabelValues(strconv.Itoa(code)).Inc()
	c.requestDuration.Observe(elapsed.Seconds())
}

// Registry returns the registry the metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler returns an HTTP handler exposing the registry in the Prometheus
// exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
