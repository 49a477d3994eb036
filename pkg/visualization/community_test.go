package visualization

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

// twoCliques builds two 4-cliques joined by one bridge edge.
func twoCliques(t *testing.T) *graph.Store {
	var edges [][2]string
	for _, side := range []string{"a", "b"} {
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				edges = append(edges, [2]string{fmt.Sprintf("%s%d", side, i), fmt.Sprintf("%s%d", side, j)})
			}
		}
	}
	edges = append(edges, [2]string{"a0", "b0"})
	return buildGraph(t, edges)
}

func TestDetectCommunities_TwoCliques(t *testing.T) {
	g := twoCliques(t)
	communities := DetectCommunities(g)

	if len(communities) != 2 {
		t.Fatalf("Expected 2 communities, got %d: %v", len(communities), communities)
	}
	for _, c := range communities {
		if c.Size() != 4 {
			t.Errorf("Expected community of 4, got %v", c.Nodes)
		}
	}
	if CommunityOf("a1", communities) == CommunityOf("b1", communities) {
		t.Error("Cliques were merged")
	}
	if CommunityOf("a0", communities) != 0 {
		t.Errorf("Expected the community holding the first node first, got %d", CommunityOf("a0", communities))
	}

	q := Modularity(g, communities)
	// 13 edges, each side 6 internal edges and degree sum 13
	want := 2 * (6.0/13.0 - 0.25)
	if math.Abs(q-want) > 1e-9 {
		t.Errorf("Expected modularity %v, got %v", want, q)
	}
}

func TestDetectCommunities_IsolatedNodes(t *testing.T) {
	g := buildGraph(t, [][2]string{{"x", "y"}}, "p", "q")
	communities := DetectCommunities(g)

	if len(communities) != 3 {
		t.Fatalf("Expected 3 communities, got %v", communities)
	}
	if communities[0].Size() != 2 {
		t.Errorf("Expected the pair first, got %v", communities[0].Nodes)
	}
	if communities[1].Nodes[0] != "p" || communities[2].Nodes[0] != "q" {
		t.Errorf("Expected singletons in insertion order, got %v", communities)
	}
}

func TestDetectCommunities_Empty(t *testing.T) {
	if got := DetectCommunities(graph.NewStore()); len(got) != 0 {
		t.Errorf("Expected no communities, got %v", got)
	}
	if q := Modularity(graph.NewStore(), nil); q != 0 {
		t.Errorf("Expected 0 modularity, got %v", q)
	}
}

func TestCommunityOf_Absent(t *testing.T) {
	communities := []Community{{Nodes: []string{"a"}}}
	if CommunityOf("zzz", communities) != -1 {
		t.Error("Expected -1 for an absent label")
	}
	if CommunityOf("a", nil) != -1 {
		t.Error("Expected -1 for an empty partition")
	}
}

func TestCategoryPalette(t *testing.T) {
	g := graph.NewStore()
	g.AddNode("t", "reddit")
	g.AddNode("k", graph.CategoryKeyword)
	g.AddNode("e", graph.CategoryEntity)
	g.AddNode("k2", graph.CategoryKeyword)

	palette := CategoryPalette(g)
	want := map[graph.Category]int{graph.CategoryEntity: 0, graph.CategoryKeyword: 1, "reddit": 2}
	if len(palette) != len(want) {
		t.Fatalf("Expected %d colours, got %v", len(want), palette)
	}
	for c, idx := range want {
		if palette[c] != idx {
			t.Errorf("Expected %s -> %d, got %d", c, idx, palette[c])
		}
	}
}

// TestCommunityInvariants uses property-based testing to verify the
// partition covers every node exactly once
func TestCommunityInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150

	properties := gopter.NewProperties(parameters)

	properties.Property("communities partition the node set", prop.ForAll(
		func(ops []int) bool {
			g := graph.NewStore()
			for i := 0; i+1 < len(ops); i += 2 {
				_ = g.AddEdge(fmt.Sprintf("n%d", ops[i]), fmt.Sprintf("n%d", ops[i+1]), graph.RelationCoTrend)
			}
			g.AddNode("isolated", graph.CategoryKeyword)

			seen := make(map[string]int)
			for _, c := range DetectCommunities(g) {
				if c.Size() == 0 {
					return false
				}
				for _, label := range c.Nodes {
					seen[label]++
				}
			}
			if len(seen) != g.NodeCount() {
				return false
			}
			for _, label := range g.Labels() {
				if seen[label] != 1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 12)),
	))

	properties.Property("greedy partition is no worse than singletons", prop.ForAll(
		func(ops []int) bool {
			g := graph.NewStore()
			for i := 0; i+1 < len(ops); i += 2 {
				_ = g.AddEdge(fmt.Sprintf("n%d", ops[i]), fmt.Sprintf("n%d", ops[i+1]), graph.RelationCoTrend)
			}
			singletons := make([]Community, 0, g.NodeCount())
			for _, label := range g.Labels() {
				singletons = append(singletons, Community{Nodes: []string{label}})
			}
			return Modularity(g, DetectCommunities(g)) >= Modularity(g, singletons)-1e-9
		},
		gen.SliceOf(gen.IntRange(0, 12)),
	))

	properties.TestingRun(t)
}
