// Package metrics defines webhook notifier metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Notifier counter vectors
var (
	WebhookDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snooker",
		Name:      "webhook_deliveries_total",
		Help:      "Total number of webhook delivery attempts by status",
	}, []string{"status"})

	NotifierBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "snooker",
		Name:      "notifier_breaker_trips_total",
		Help:      "Total number of notifier circuit breaker trips",
	})
)

// Notifier histograms
var (
	WebhookDeliveryLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "snooker",
		Name:      "webhook_delivery_latency_seconds",
		Help:      "Latency of webhook deliveries in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// RecordWebhookDelivery records a webhook delivery attempt.
// status should be one of: "success", "failure"
func RecordWebhookDelivery(status string, latencySeconds float64) {
	WebhookDeliveriesTotal.WithLabelValues(status).Inc()
	WebhookDeliveryLatency.Observe(latencySeconds)
}

// RecordNotifierBreakerTrip records a notifier circuit breaker trip event.
func RecordNotifierBreakerTrip() {
	NotifierBreakerTripsTotal.Inc()
}
