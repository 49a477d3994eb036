package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Record outcomes
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// RecordSourceRecords counts processed and skipped records for a source
func (r *Registry) RecordSourceRecords(source string, ok, skipped int, duration time.Duration) {
	if r == nil {
		return
	}
	r.RecordsTotal.WithLabelValues(source, StatusOK).Add(float64(ok))
	r.RecordsTotal.WithLabelValues(source, StatusSkipped).Add(float64(skipped))
	r.SourceDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// SetTrendKeywords records the tracked keyword count of a source's trend table
func (r *Registry) SetTrendKeywords(source string, n int) {
	if r == nil {
		return
	}
	r.TrendKeywordsTotal.WithLabelValues(source).Set(float64(n))
}

// UpdateGraphSize records the size of a built or loaded graph
func (r *Registry) UpdateGraphSize(nodes, edges int, byRelation map[string]int) {
	if r == nil {
		return
	}
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
	for relation, n := range byRelation {
		r.EdgesByRelation.WithLabelValues(relation).Set(float64(n))
	}
}

// RecordQuery records a query execution
func (r *Registry) RecordQuery(queryType, status string, duration time.Duration, results int) {
	if r == nil {
		return
	}
	r.QueriesTotal.WithLabelValues(queryType, status).Inc()
	r.QueryDuration.WithLabelValues(queryType).Observe(duration.Seconds())
	if status == StatusOK {
		r.QueryResults.WithLabelValues(queryType).Observe(float64(results))
	}
}

// RecordLayout records a layout run and the community partition it produced
func (r *Registry) RecordLayout(duration time.Duration, communities int, modularity float64) {
	if r == nil {
		return
	}
	r.LayoutDuration.Observe(duration.Seconds())
	r.CommunitiesSize.Set(float64(communities))
	r.Modularity.Set(modularity)
}

// WriteTextfile writes all metrics in the Prometheus text format to path,
// for collection by a node exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
