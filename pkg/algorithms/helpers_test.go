package algorithms

import (
	"testing"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

// buildGraph creates a store from "a-b" pairs joined by Contains. Isolated
// nodes can be listed in isolated.
func buildGraph(t *testing.T, edges [][2]string, isolated ...string) *graph.Store {
	t.Helper()
	g := graph.NewStore()
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1], graph.RelationContains); err != nil {
			t.Fatalf("AddEdge(%s, %s) failed: %v", e[0], e[1], err)
		}
	}
	for _, label := range isolated {
		if _, err := g.AddNode(label, graph.CategoryKeyword); err != nil {
			t.Fatalf("AddNode(%s) failed: %v", label, err)
		}
	}
	return g
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
