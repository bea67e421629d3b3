package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordEvaluation(t *testing.T) {
	InitRegistry()
	durationSeconds := 0.002

	assert.NotPanics(t, func() {
		RecordEvaluation(durationSeconds)
	})
}

func TestRecordTipIssued(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name           string
		classification string
	}{
		{
			name:           "value tip",
			classification: "VALUE",
		},
		{
			name:           "marginal tip",
			classification: "MARGINAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordTipIssued(tt.classification)
			})
		})
	}
}

func TestRecordInversion(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name       string
		iterations int
		converged  bool
	}{
		{
			name:       "converged quickly",
			iterations: 18,
			converged:  true,
		},
		{
			name:       "hit iteration cap",
			iterations: 80,
			converged:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordInversion(tt.iterations, tt.converged)
			})
		})
	}
}

func TestUpdateStreamClients(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name  string
		count float64
	}{
		{
			name:  "no clients",
			count: 0,
		},
		{
			name:  "several clients",
			count: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateStreamClients(tt.count)
			})
		})
	}
}

func TestUpdateCacheHitRatio(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		UpdateCacheHitRatio(0.85)
	})
}

func TestNotifierMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordWebhookDelivery("success", 0.12)
	})

	assert.NotPanics(t, func() {
		RecordWebhookDelivery("failure", 1.5)
	})

	assert.NotPanics(t, func() {
		RecordNotifierBreakerTrip()
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}

func BenchmarkRecordEvaluation(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordEvaluation(0.002)
	}
}

func BenchmarkRecordTipIssued(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordTipIssued("VALUE")
	}
}
