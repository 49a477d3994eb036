package algorithms

import (
	"math"
	"testing"
)

func TestConnectedComponents(t *testing.T) {
	g := buildGraph(t, [][2]string{{"A", "B"}, {"B", "C"}, {"X", "Y"}}, "solo")

	result := ConnectedComponents(g)
	if len(result.Components) != 3 {
		t.Fatalf("Expected 3 components, got %d", len(result.Components))
	}
	if !equalStrings(result.Components[0].Nodes, []string{"A", "B", "C"}) {
		t.Errorf("Unexpected first component %v", result.Components[0].Nodes)
	}
	if result.Components[2].Size != 1 || result.Components[2].Nodes[0] != "solo" {
		t.Errorf("Expected singleton solo component, got %v", result.Components[2].Nodes)
	}
	if result.NodeComponent["Y"] != 1 {
		t.Errorf("Expected Y in component 1, got %d", result.NodeComponent["Y"])
	}
	if result.Largest().ID != 0 {
		t.Errorf("Expected largest component 0, got %d", result.Largest().ID)
	}

	total := 0
	for _, c := range result.Components {
		total += c.Size
	}
	if total != g.NodeCount() {
		t.Errorf("Components cover %d nodes, graph has %d", total, g.NodeCount())
	}
}

func TestConnectedComponents_Empty(t *testing.T) {
	result := ConnectedComponents(buildGraph(t, nil))
	if len(result.Components) != 0 || result.Largest() != nil {
		t.Error("Expected no components for an empty graph")
	}
}

func TestClusteringCoefficient(t *testing.T) {
	// Triangle A-B-C with a pendant D on A.
	g := buildGraph(t, [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}, {"A", "D"}})

	cc := ClusteringCoefficient(g)
	if math.Abs(cc["A"]-1.0/3.0) > 1e-9 {
		t.Errorf("Expected A = 1/3, got %v", cc["A"])
	}
	if cc["B"] != 1.0 {
		t.Errorf("Expected B = 1, got %v", cc["B"])
	}
	if cc["D"] != 0.0 {
		t.Errorf("Expected D = 0, got %v", cc["D"])
	}

	want := (1.0/3.0 + 1 + 1 + 0) / 4
	if got := AverageClusteringCoefficient(g); math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected average %v, got %v", want, got)
	}
	if AverageClusteringCoefficient(buildGraph(t, nil)) != 0 {
		t.Error("Expected 0 for empty graph")
	}
}
