// Package metrics provides centralized Prometheus metrics registry for the pricing service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EvaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "snooker",
		Name:      "evaluations_total",
		Help:      "Total number of match evaluations priced",
	})
	QuotesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "snooker",
		Name:      "quotes_total",
		Help:      "Total number of stateless quote requests",
	})
	TipsIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snooker",
		Name:      "tips_issued_total",
		Help:      "Total number of tips issued by classification",
	}, []string{"classification"})
	InversionNonConvergedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "snooker",
		Name:      "inversion_non_converged_total",
		Help:      "Total number of pre-match odds inversions that hit the iteration cap",
	})
)

// Gauge metrics
var (
	StreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "snooker",
		Name:      "stream_clients",
		Help:      "Number of connected websocket stream clients",
	})
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "snooker",
		Name:      "cache_hit_ratio",
		Help:      "Evaluation cache hit ratio since process start",
	})
)

// Histogram metrics
var (
	EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "snooker",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of full evaluation cycles in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	InversionIterations = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "snooker",
		Name:      "inversion_iterations",
		Help:      "Bisection iterations used per pre-match odds inversion",
		Buckets:   []float64{5, 10, 20, 30, 40, 60, 80, 100},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(EvaluationsTotal)
		registry.MustRegister(QuotesTotal)
		registry.MustRegister(TipsIssuedTotal)
		registry.MustRegister(InversionNonConvergedTotal)

		// Register gauge metrics
		registry.MustRegister(StreamClients)
		registry.MustRegister(CacheHitRatio)

		// Register histogram metrics
		registry.MustRegister(EvaluationDuration)
		registry.MustRegister(InversionIterations)

		// Register notifier metrics
		registry.MustRegister(WebhookDeliveriesTotal)
		registry.MustRegister(NotifierBreakerTripsTotal)
		registry.MustRegister(WebhookDeliveryLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEvaluation records one evaluation cycle and its duration.
func RecordEvaluation(durationSeconds float64) {
	EvaluationsTotal.Inc()
	EvaluationDuration.Observe(durationSeconds)
}

// RecordQuote records a stateless quote request.
func RecordQuote() {
	QuotesTotal.Inc()
}

// RecordTipIssued records an issued tip by classification.
func RecordTipIssued(classification string) {
	TipsIssuedTotal.WithLabelValues(classification).Inc()
}

// RecordInversion records iteration usage for a pre-match odds inversion.
func RecordInversion(iterations int, converged bool) {
	InversionIterations.Observe(float64(iterations))
	if !converged {
		InversionNonConvergedTotal.Inc()
	}
}

// UpdateStreamClients updates the connected stream client gauge.
func UpdateStreamClients(count float64) {
	StreamClients.Set(count)
}

// UpdateCacheHitRatio updates the evaluation cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	CacheHitRatio.Set(ratio)
}
