package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLayoutMetrics() {
	r.LayoutDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kgraph_layout_duration_seconds",
			Help:    "Force-directed layout duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.CommunitiesSize = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "kgraph_communities",
			Help: "Number of communities in the last partition",
		},
	)

	r.Modularity = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "kgraph_modularity",
			Help: "Modularity of the last community partition",
		},
	)
}
