package algorithms

import (
	"bytes"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/dd0wney/trendgraph/pkg/logging"
	"github.com/dd0wney/trendgraph/pkg/metrics"
)

func counterValue(t *testing.T, reg *metrics.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(m *dto.Metric, labels map[string]string) bool {
	for _, lp := range m.GetLabel() {
		if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestEngine_RecordsQueries(t *testing.T) {
	var buf bytes.Buffer
	reg := metrics.NewRegistry()
	g := buildGraph(t, [][2]string{{"A", "B"}, {"Y", "Z"}})
	engine := NewEngine(g, Options{Logger: logging.NewJSONLogger(&buf, logging.InfoLevel), Metrics: reg})

	if _, err := engine.BreadthFirstReachable("A"); err != nil {
		t.Fatalf("BFS failed: %v", err)
	}
	if _, err := engine.ShortestPath("A", "Z"); err == nil {
		t.Fatal("Expected ErrNoPath")
	}
	if _, err := engine.TopCentralNodes(2); err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if _, err := engine.KHopNeighbours("A", DefaultKHopOptions()); err != nil {
		t.Fatalf("KHop failed: %v", err)
	}
	if got := len(engine.ConnectedComponents().Components); got != 2 {
		t.Errorf("Expected 2 components, got %d", got)
	}

	if v := counterValue(t, reg, "kgraph_queries_total", map[string]string{"query_type": QueryBFS, "status": metrics.StatusOK}); v != 1 {
		t.Errorf("Expected 1 ok bfs query, got %v", v)
	}
	if v := counterValue(t, reg, "kgraph_queries_total", map[string]string{"query_type": QueryPath, "status": metrics.StatusError}); v != 1 {
		t.Errorf("Expected 1 failed path query, got %v", v)
	}

	logs := buf.String()
	if !strings.Contains(logs, `"level":"ERROR"`) {
		t.Errorf("Expected failed query logged at ERROR:\n%s", logs)
	}
	if strings.Count(logs, "\n") != 5 {
		t.Errorf("Expected 5 log lines, got:\n%s", logs)
	}
}

func TestEngine_NilOptions(t *testing.T) {
	engine := NewEngine(buildGraph(t, [][2]string{{"A", "B"}}), Options{})
	if _, err := engine.TopCentralNodes(1); err != nil {
		t.Fatalf("Top failed without logger or metrics: %v", err)
	}
	if engine.Graph().NodeCount() != 2 {
		t.Error("Graph() returned a different store")
	}
}
