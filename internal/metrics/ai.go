package metrics

import "github.com/prometheus/client_golang/prometheus"

// AI provider Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tasknest",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tasknest",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tasknest",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"model", "type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tasknest",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SuggestionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tasknest",
			Name:      "suggestion_requests_total",
			Help:      "Total number of subtask suggestion completions",
		},
		[]string{"model", "status"},
	)

	SuggestionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tasknest",
			Name:      "suggestion_request_duration_seconds",
			Help:      "Subtask suggestion completion duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	BackfillTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tasknest",
			Name:      "backfill_tasks_total",
			Help:      "Backfill candidates processed by outcome",
		},
		[]string{"outcome"}, // "updated" / "failed"
	)
)

var aiMetricsRegistered bool

// RegisterAIMetrics registers Prometheus AI metrics. Must be called once from main.
func RegisterAIMetrics() {
	if aiMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(SuggestionRequestsTotal)
	prometheus.MustRegister(SuggestionRequestDuration)
	prometheus.MustRegister(BackfillTasksTotal)
	aiMetricsRegistered = true
}
