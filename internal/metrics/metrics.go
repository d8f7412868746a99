// Package metrics declares the Prometheus instruments exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected" // short-circuited by an open breaker
	OutcomeEmpty    = "empty"
)

var (
	// Provider Metrics
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibereader_provider_requests_total",
			Help: "LLM provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vibereader_provider_request_duration_seconds",
			Help:    "Duration of LLM provider calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"provider"},
	)

	// Recommendation Metrics
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibereader_recommendations_total",
			Help: "Recommendation responses by flow and the strategy that produced them",
		},
		[]string{"flow", "source"}, // flow: "quiz", "vibe"
	)

	// Catalog Metrics
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibereader_catalog_requests_total",
			Help: "Book catalog calls by outcome",
		},
		[]string{"source", "outcome"},
	)

	// Cache Metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibereader_cache_lookups_total",
			Help: "Cache lookups by result",
		},
		[]string{"cache", "result"}, // result: "hit", "miss", "error"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vibereader_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibereader_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vibereader_api_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordProviderCall records one provider call.
func RecordProviderCall(provider string, duration time.Duration, outcome string) {
	ProviderRequests.WithLabelValues(provider, outcome).Inc()
	ProviderDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordRecommendation records which strategy answered a request.
func RecordRecommendation(flow, source string) {
	Recommendations.WithLabelValues(flow, source).Inc()
}

// RecordCatalogCall records one catalog call.
func RecordCatalogCall(source string, err error, results int) {
	outcome := OutcomeSuccess
	switch {
	case err != nil:
		outcome = OutcomeFailure
	case results == 0:
		outcome = OutcomeEmpty
	}
	CatalogRequests.WithLabelValues(source, outcome).Inc()
}

// RecordCacheLookup records a cache lookup.
func RecordCacheLookup(cache string, hit bool, err error) {
	result := "miss"
	switch {
	case err != nil:
		result = "error"
	case hit:
		result = "hit"
	}
	CacheLookups.WithLabelValues(cache, result).Inc()
}

// RecordAPIRequest records an HTTP request by its route pattern.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
