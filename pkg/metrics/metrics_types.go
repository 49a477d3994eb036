package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the metrics for one build, query or visualize run.
// A nil *Registry is valid and records nothing.
type Registry struct {
	// Build Metrics
	RecordsTotal       *prometheus.CounterVec
	SourceDuration     *prometheus.HistogramVec
	GraphNodes         prometheus.Gauge
	GraphEdges         prometheus.Gauge
	EdgesByRelation    *prometheus.GaugeVec
	TrendKeywordsTotal *prometheus.GaugeVec

	// Query Metrics
	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	QueryResults  *prometheus.HistogramVec

	// Layout Metrics
	LayoutDuration  prometheus.Histogram
	CommunitiesSize prometheus.Gauge
	Modularity      prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initBuildMetrics()
	r.initQueryMetrics()
	r.initLayoutMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}
