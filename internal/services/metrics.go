package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Board composition metrics
	BoardRequests     prometheus.Counter
	BoardLatency      prometheus.Histogram
	BoardErrors       *prometheus.CounterVec
	NarrativeOutcomes *prometheus.CounterVec

	// Catalog matching metrics
	MatchTierSize     prometheus.Histogram
	DefaultSampleHits prometheus.Counter
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		// Vision board requests counter
		BoardRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "weddingverse_board_requests_total",
			Help: "Total number of vision board composition requests",
		}),

		// Composition latency histogram, dominated by the generative call
		BoardLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "weddingverse_board_duration_seconds",
			Help:    "Vision board composition latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),

		// Composition errors by kind
		BoardErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "weddingverse_board_errors_total",
			Help: "Total number of vision board errors by kind",
		}, []string{"kind"}),

		// Narrative outcomes: "generated" or "template"
		NarrativeOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "weddingverse_narrative_outcomes_total",
			Help: "Total number of narratives by source",
		}, []string{"source"}),

		// Size of the winning match tier per request
		MatchTierSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "weddingverse_match_tier_size",
			Help:    "Number of images in the selected match tier",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		}),

		// Requests served from the default catalog sample
		DefaultSampleHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "weddingverse_default_sample_total",
			Help: "Total number of requests served from the default catalog sample",
		}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordBoardRequest records a vision board composition request
func (m *Metrics) RecordBoardRequest() {
	m.BoardRequests.Inc()
}

// RecordBoardLatency records composition latency
func (m *Metrics) RecordBoardLatency(seconds float64) {
	m.BoardLatency.Observe(seconds)
}

// RecordBoardError records a composition error
func (m *Metrics) RecordBoardError(kind string) {
	m.BoardErrors.WithLabelValues(kind).Inc()
}

// RecordNarrativeOutcome records whether the narrative came from the
// generative reply or the deterministic template
func (m *Metrics) RecordNarrativeOutcome(source string) {
	m.NarrativeOutcomes.WithLabelValues(source).Inc()
}

// RecordMatchTierSize records the size of the selected match tier
func (m *Metrics) RecordMatchTierSize(size int) {
	m.MatchTierSize.Observe(float64(size))
}

// RecordDefaultSampleHit records a request served from the default sample
func (m *Metrics) RecordDefaultSampleHit() {
	m.DefaultSampleHits.Inc()
}
