package algorithms

import "github.com/dd0wney/trendgraph/pkg/graph"

// ClusteringCoefficient computes the local clustering coefficient of every
// node: the fraction of neighbour pairs that are themselves adjacent.
// Nodes with fewer than two neighbours score 0.
func ClusteringCoefficient(g *graph.Store) map[string]float64 {
	labels := g.Labels()
	coefficients := make(map[string]float64, len(labels))

	// Pre-build neighbour sets for O(1) adjacency checks
	neighborSets := make(map[string]map[string]bool, len(labels))
	for _, label := range labels {
		neighbors, _ := g.Neighbors(label)
		set := make(map[string]bool, len(neighbors))
		for _, n := range neighbors {
			set[n] = true
		}
		neighborSets[label] = set
	}

	for _, label := range labels {
		neighbors, _ := g.Neighbors(label)
		k := len(neighbors)
		if k < 2 {
			coefficients[label] = 0.0
			continue
		}

		triangles := 0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if neighborSets[neighbors[i]][neighbors[j]] {
					triangles++
				}
			}
		}
		coefficients[label] = float64(triangles) / float64(k*(k-1)/2)
	}

	return coefficients
}

// AverageClusteringCoefficient is the mean local coefficient, 0 for an empty
// graph.
func AverageClusteringCoefficient(g *graph.Store) float64 {
	coefficients := ClusteringCoefficient(g)
	if len(coefficients) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, c := range coefficients {
		sum += c
	}
	return sum / float64(len(coefficients))
}
