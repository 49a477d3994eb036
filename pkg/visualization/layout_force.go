package visualization

import (
	"math"
	"math/rand"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

// minDistance keeps coincident nodes from producing infinite forces.
const minDistance = 0.01

// ForceDirectedLayout implements Fruchterman-Reingold placement: every pair
// of nodes repels with k²/d, every edge attracts with d²/k, and the maximum
// step cools linearly to zero over the configured iterations.
type ForceDirectedLayout struct {
	config LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config LayoutConfig) *ForceDirectedLayout {
	return &ForceDirectedLayout{config: config.withDefaults()}
}

// ComputeLayout computes positions using force-directed algorithm. The same
// seed and graph always give the same positions.
func (fdl *ForceDirectedLayout) ComputeLayout(g *graph.Store) (map[string]Position, error) {
	labels := g.Labels()
	cfg := fdl.config

	if len(labels) == 0 {
		return make(map[string]Position), nil
	}

	// Single node - center it
	if len(labels) == 1 {
		return map[string]Position{
			labels[0]: {X: cfg.Width / 2, Y: cfg.Height / 2},
		}, nil
	}

	adjacency := indexAdjacency(g, labels)

	// Initial placement in the unit square
	rng := rand.New(rand.NewSource(cfg.Seed))
	positions := make([]Position, len(labels))
	for i := range positions {
		positions[i] = Position{X: rng.Float64(), Y: rng.Float64()}
	}

	k := cfg.Strength
	temperature := 0.1 * spread(positions)
	dt := temperature / float64(cfg.Iterations+1)
	displacement := make([]Position, len(labels))

	for iter := 0; iter < cfg.Iterations; iter++ {
		for i := range displacement {
			displacement[i] = Position{}
		}

		// Repulsion between all nodes
		for i := 0; i < len(positions); i++ {
			for j := i + 1; j < len(positions); j++ {
				dx := positions[i].X - positions[j].X
				dy := positions[i].Y - positions[j].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), minDistance)

				force := (k * k) / (dist * dist)
				displacement[i].X += dx * force
				displacement[i].Y += dy * force
				displacement[j].X -= dx * force
				displacement[j].Y -= dy * force
			}
		}

		// Attraction between connected nodes, applied once per direction
		for i, neighbors := range adjacency {
			for _, j := range neighbors {
				dx := positions[i].X - positions[j].X
				dy := positions[i].Y - positions[j].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), minDistance)

				force := dist / k
				displacement[i].X -= dx * force
				displacement[i].Y -= dy * force
			}
		}

		// Move each node at most temperature along its net force
		for i := range positions {
			length := math.Max(math.Hypot(displacement[i].X, displacement[i].Y), minDistance)
			positions[i].X += displacement[i].X * temperature / length
			positions[i].Y += displacement[i].Y * temperature / length
		}

		temperature -= dt
	}

	byLabel := make(map[string]Position, len(labels))
	for i, label := range labels {
		byLabel[label] = positions[i]
	}
	return normalizePositions(byLabel, cfg.Width, cfg.Height, cfg.Padding), nil
}

// indexAdjacency lists each node's distinct neighbours by index into labels.
func indexAdjacency(g *graph.Store, labels []string) [][]int {
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}
	adjacency := make([][]int, len(labels))
	for i, label := range labels {
		neighbors, _ := g.Neighbors(label)
		adjacency[i] = make([]int, 0, len(neighbors))
		for _, n := range neighbors {
			adjacency[i] = append(adjacency[i], index[n])
		}
	}
	return adjacency
}

// spread is the larger side of the bounding box of positions.
func spread(positions []Position) float64 {
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for _, p := range positions {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return math.Max(maxX-minX, maxY-minY)
}
