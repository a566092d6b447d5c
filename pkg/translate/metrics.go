package translate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for message-level translations.
const (
	statusTranslated = "translated"
	statusSuppressed = "suppressed"
	statusFailed     = "failed"
)

var (
	// Message-level pipeline metrics
	translationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medbridge_translations_total",
			Help: "Total number of message translations by outcome",
		},
		[]string{"engine", "status"},
	)

	translationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medbridge_translation_duration_seconds",
			Help:    "End-to-end duration of message translations in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"engine", "status"},
	)

	translationSegments = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medbridge_translation_segments",
			Help:    "Number of provider-safe segments per translated message",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"engine"},
	)

	// Per-segment provider call metrics
	providerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medbridge_provider_requests_total",
			Help: "Total number of upstream provider requests",
		},
		[]string{"engine", "status"},
	)

	providerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medbridge_provider_request_duration_seconds",
			Help:    "Duration of upstream provider requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"engine"},
	)
)

// recordTranslation records the outcome of one message-level translation.
func recordTranslation(engine, status string, duration time.Duration) {
	translationsTotal.WithLabelValues(engine, status).Inc()
	translationDuration.WithLabelValues(engine, status).Observe(duration.Seconds())
}

// observeSegments records how many segments a message was split into.
func observeSegments(engine string, count int) {
	translationSegments.WithLabelValues(engine).Observe(float64(count))
}

// recordProviderCall records one upstream request.
func recordProviderCall(engine string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	providerRequestsTotal.WithLabelValues(engine, status).Inc()
	providerRequestDuration.WithLabelValues(engine).Observe(duration.Seconds())
}
