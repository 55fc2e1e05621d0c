package dating

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	discoverRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dating_discover_requests_total",
			Help: "Total number of discovery requests by outcome",
		},
		[]string{"outcome"},
	)

	fallbackStageTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dating_discover_fallback_stage_total",
			Help: "Eligibility stage that produced the candidate pool",
		},
		[]string{"stage"},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dating_compatibility_scores",
			Help:    "Distribution of raw compatibility totals",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	candidatePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dating_candidate_pool_size",
			Help:    "Number of candidates scored per discovery request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	enrichmentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dating_enrichment_failures_total",
			Help: "Per-candidate enrichment failures recovered locally",
		},
		[]string{"field"},
	)

	responseTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dating_response_time_seconds",
			Help: "Response time for discovery operations",
		},
		[]string{"action"},
	)
)

func RecordDiscoverOutcome(outcome string) {
	discoverRequestsTotal.WithLabelValues(outcome).Inc()
}

func RecordFallbackStage(stage FallbackStage) {
	fallbackStageTotal.WithLabelValues(string(stage)).Inc()
}

func RecordCompatibilityScore(score float64) {
	compatibilityScores.Observe(score)
}

func RecordPoolSize(n int) {
	candidatePoolSize.Observe(float64(n))
}

func RecordEnrichmentFailure(field string) {
	enrichmentFailures.WithLabelValues(field).Inc()
}

func RecordResponseTime(action string, duration time.Duration) {
	responseTime.WithLabelValues(action).Observe(duration.Seconds())
}
