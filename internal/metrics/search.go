package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	EngineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "leadsearch",
			Name:      "engine_request_duration_seconds",
			Help:      "Search engine call duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op", "outcome"},
	)

	SearchRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "leadsearch",
			Name:      "search_retries_total",
			Help:      "Searches retried without sort after a failure",
		},
	)

	SearchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadsearch",
			Name:      "search_failures_total",
			Help:      "Searches that failed after the retry",
		},
		[]string{"class"}, // "structural" / "transient"
	)

	CountReconciliationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadsearch",
			Name:      "count_reconciliation_total",
			Help:      "Capped totals replaced by an exact count",
		},
		[]string{"result"}, // "exact" / "estimate"
	)

	IndexResolutionFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "leadsearch",
			Name:      "index_resolution_failures_total",
			Help:      "Requests for which no lead index existed",
		},
	)

	MappingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadsearch",
			Name:      "mapping_cache_total",
			Help:      "Index mapping cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ExportRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "leadsearch",
			Name:      "export_rows_total",
			Help:      "Rows written by CSV exports",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(EngineRequestDuration)
	prometheus.MustRegister(SearchRetriesTotal)
	prometheus.MustRegister(SearchFailuresTotal)
	prometheus.MustRegister(CountReconciliationTotal)
	prometheus.MustRegister(IndexResolutionFailuresTotal)
	prometheus.MustRegister(MappingCacheTotal)
	prometheus.MustRegister(ExportRowsTotal)
	searchMetricsRegistered = true
}
