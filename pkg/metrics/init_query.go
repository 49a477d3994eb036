package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initQueryMetrics() {
	r.QueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgraph_queries_total",
			Help: "Total number of graph queries executed",
		},
		[]string{"query_type", "status"},
	)

	r.QueryDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kgraph_query_duration_seconds",
			Help:    "Query execution duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
		[]string{"query_type"},
	)

	r.QueryResults = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kgraph_query_result_size",
			Help:    "Number of labels returned per query",
			Buckets: []float64{1, 10, 100, 1000, 10000},
		},
		[]string{"query_type"},
	)
}
