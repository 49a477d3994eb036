package algorithms

import (
	"errors"
	"testing"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

func TestShortestPath(t *testing.T) {
	g := buildGraph(t, [][2]string{
		{"A", "B"}, {"B", "C"}, {"C", "D"},
		{"A", "E"}, {"E", "D"},
	})

	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{"same node", "A", "A", []string{"A"}},
		{"adjacent", "A", "B", []string{"A", "B"}},
		{"shorter branch", "A", "D", []string{"A", "E", "D"}},
		{"reverse", "D", "A", []string{"D", "E", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShortestPath(g, tt.from, tt.to)
			if err != nil {
				t.Fatalf("ShortestPath failed: %v", err)
			}
			if !equalStrings(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestShortestPath_NoPathVersusNotFound(t *testing.T) {
	g := buildGraph(t, [][2]string{{"A", "B"}, {"Y", "Z"}})

	_, err := ShortestPath(g, "A", "Z")
	if !errors.Is(err, graph.ErrNoPath) {
		t.Errorf("Expected ErrNoPath, got %v", err)
	}
	if errors.Is(err, graph.ErrNotFound) {
		t.Error("Disconnected endpoints must not report ErrNotFound")
	}

	_, err = ShortestPath(g, "A", "missing")
	if !errors.Is(err, graph.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if graph.IsNoPath(err) {
		t.Error("Absent endpoint must not report ErrNoPath")
	}

	_, err = ShortestPath(g, "missing", "A")
	if !graph.IsNotFound(err) {
		t.Errorf("Expected ErrNotFound for absent start, got %v", err)
	}
}
