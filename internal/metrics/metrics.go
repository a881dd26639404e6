// Package metrics declares the Prometheus collectors for the chatbot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fallback outcomes.
const (
	OutcomeAnswered    = "answered"
	OutcomeCacheHit    = "cache_hit"
	OutcomeError       = "error"
	OutcomeTimeout     = "timeout"
	OutcomeCanceled    = "canceled"
	OutcomePanic       = "panic"
	OutcomeCircuitOpen = "circuit_open"
	OutcomeUnavailable = "unavailable"
)

var (
	IntentsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitzone_intents_total",
			Help: "Total number of classified messages by intent and deciding stage",
		},
		[]string{"intent", "basis"},
	)

	FallbackRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitzone_fallback_requests_total",
			Help: "Total number of generative fallback attempts by outcome",
		},
		[]string{"outcome"},
	)

	FallbackDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fitzone_fallback_duration_seconds",
			Help:    "Duration of generative fallback calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
	)

	CircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitzone_fallback_circuit_state",
			Help: "Fallback circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitzone_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
