package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initBuildMetrics() {
	r.RecordsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgraph_records_total",
			Help: "Total number of input records processed, by source and outcome",
		},
		[]string{"source", "status"},
	)

	r.SourceDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kgraph_source_build_duration_seconds",
			Help:    "Time spent building one source into the graph",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"source"},
	)

	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "kgraph_graph_nodes",
			Help: "Number of nodes in the built graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "kgraph_graph_edges",
			Help: "Number of edges in the built graph",
		},
	)

	r.EdgesByRelation = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kgraph_graph_edges_by_relation",
			Help: "Number of edges in the built graph, by relation",
		},
		[]string{"relation"},
	)

	r.TrendKeywordsTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kgraph_trend_keywords",
			Help: "Number of tracked keyword columns in each source's trend table",
		},
		[]string{"source"},
	)
}
