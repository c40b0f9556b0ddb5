package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route template and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docqa_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration covers fast validation failures up to slow model calls.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docqa_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)

	// ExtractionsTotal counts extraction attempts by format and outcome
	// (ok, empty, failed, degraded, unsupported).
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docqa_extractions_total",
			Help: "Total number of document text extractions",
		},
		[]string{"format", "outcome"},
	)

	// GenerationDuration measures calls to the language model.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docqa_generation_duration_seconds",
			Help:    "Duration of language model calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"backend", "status"},
	)
)
