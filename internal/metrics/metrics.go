// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// Engine Metrics
	EngineOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cooccur_engine_operations_total",
			Help: "Total number of recommendation engine operations",
		},
		[]string{"operation", "status"},
	)

	EngineOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cooccur_engine_operation_duration_seconds",
			Help:    "Duration of recommendation engine operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"operation"},
	)

	RecommendationRecomputes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cooccur_recommendation_recomputes_total",
			Help: "Total number of per-value recommendation list recomputations",
		},
		[]string{"trigger"}, // add_object, add_range, refresh
	)

	// Store Metrics
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cooccur_store_errors_total",
			Help: "Total number of storage backend errors",
		},
		[]string{"backend", "operation"},
	)

	// Refresh Metrics
	RefreshValuesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cooccur_refresh_values_total",
			Help: "Total number of values recomputed by periodic refreshes",
		},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cooccur_refresh_duration_seconds",
			Help:    "Duration of full refresh runs in seconds",
			Buckets: []float64{0.01, 0.1, 1, 5, 15, 60, 300, 900},
		},
	)

	RefreshErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cooccur_refresh_errors_total",
			Help: "Total number of failed refresh runs",
		},
	)

	RefreshLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cooccur_refresh_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful refresh",
		},
	)

	// Ingest Metrics
	IngestMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cooccur_ingest_messages_total",
			Help: "Total number of ingested NATS messages",
		},
		[]string{"subject", "status"}, // status: success, error, invalid
	)

	IngestProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cooccur_ingest_processing_duration_seconds",
			Help:    "Time to apply one ingested message in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordStoreError records a failed storage backend call.
func RecordStoreError(backend, operation string) {
	StoreErrors.WithLabelValues(backend, operation).Inc()
}

// RecordRefresh records one full refresh run.
func RecordRefresh(values int, duration time.Duration, err error) {
	RefreshDuration.Observe(duration.Seconds())
	RefreshValuesTotal.Add(float64(values))
	if err != nil {
		RefreshErrors.Inc()
		return
	}
	RefreshLastSuccess.SetToCurrentTime()
}

// RecordIngestMessage records the outcome of one ingested message.
func RecordIngestMessage(subject, status string, duration time.Duration) {
	IngestMessagesTotal.WithLabelValues(subject, status).Inc()
	IngestProcessingDuration.Observe(duration.Seconds())
}

// RecordBreakerRequest records a call through a circuit breaker.
// result is success, failure or rejected.
func RecordBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordBreakerTransition records a breaker state change. state values are
// 0 closed, 1 half-open, 2 open.
func RecordBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}
