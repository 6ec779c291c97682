// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oksasatya/classical-review/pkg/apperror"
)

// Review operation labels.
const (
	OpCreate = "create"
	OpChange = "change"
	OpDelete = "delete"
	OpLike   = "like"
	OpUnlike = "unlike"
)

// Result labels.
const (
	ResultOK         = "ok"
	ResultValidation = "validation"
	ResultConflict   = "conflict"
	ResultError      = "error"
)

// MetricsCollector is what services and middleware record through.
type MetricsCollector interface {
	RecordReviewOperation(op string, err error)
	RecordHTTPRequest(method, route string, status int, elapsed time.Duration)
}

// Collector is the Prometheus implementation of MetricsCollector.
type Collector struct {
	reviewOps    *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reviewOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classical_review_review_operations_total",
			Help: "Review lifecycle operations by outcome",
		}, []string{"operation", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classical_review_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classical_review_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(c.reviewOps, c.httpRequests, c.httpLatency)
	return c
}

// RecordReviewOperation counts one review operation under the result err maps to.
func (c *Collector) RecordReviewOperation(op string, err error) {
	c.reviewOps.WithLabelValues(op, ResultOf(err)).Inc()
}

// RecordHTTPRequest counts a served request and observes its latency.
func (c *Collector) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ResultOf classifies an operation error into a result label.
func ResultOf(err error) string {
	var ve *apperror.ValidationError
	switch {
	case err == nil:
		return ResultOK
	case errors.As(err, &ve):
		return ResultValidation
	case apperror.IsKind(err, apperror.KindConflict):
		return ResultConflict
	default:
		return ResultError
	}
}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordReviewOperation(string, error) {}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
