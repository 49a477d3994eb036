package algorithms

import (
	"sort"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

// DefaultTopK is the result size of TopCentralNodes when k <= 0.
const DefaultTopK = 10

// RankedNode is a node label with its score.
type RankedNode struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// DegreeCentrality computes degree / (n - 1) for every node, where degree
// counts distinct neighbours. Graphs with fewer than two nodes have no
// defined centrality.
func DegreeCentrality(g *graph.Store) (map[string]float64, error) {
	n := g.NodeCount()
	if n <= 1 {
		return nil, graph.NewError("DegreeCentrality").Context("%d nodes", n).
			Cause(graph.ErrEmptyGraph).Err()
	}

	scores := make(map[string]float64, n)
	denom := float64(n - 1)
	for _, label := range g.Labels() {
		degree, err := g.Degree(label)
		if err != nil {
			return nil, err
		}
		scores[label] = float64(degree) / denom
	}
	return scores, nil
}

// TopCentralNodes returns at most k nodes by descending degree centrality.
// Ties keep insertion order.
func TopCentralNodes(g *graph.Store, k int) ([]RankedNode, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	scores, err := DegreeCentrality(g)
	if err != nil {
		return nil, err
	}

	labels := g.Labels()
	ranked := make([]RankedNode, 0, len(labels))
	for _, label := range labels {
		ranked = append(ranked, RankedNode{Label: label, Score: scores[label]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked, nil
}
