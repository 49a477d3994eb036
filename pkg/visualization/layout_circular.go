package visualization

import (
	"math"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

// CircularLayout arranges nodes in a circle in insertion order
type CircularLayout struct {
	config LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config LayoutConfig) *CircularLayout {
	return &CircularLayout{config: config.withDefaults()}
}

// ComputeLayout arranges nodes in a circle
func (cl *CircularLayout) ComputeLayout(g *graph.Store) (map[string]Position, error) {
	labels := g.Labels()
	positions := make(map[string]Position, len(labels))

	if len(labels) == 0 {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	if len(labels) == 1 {
		positions[labels[0]] = Position{X: centerX, Y: centerY}
		return positions, nil
	}

	radius := math.Min(centerX, centerY) - cl.config.Padding
	angleStep := 2 * math.Pi / float64(len(labels))

	for i, label := range labels {
		angle := float64(i) * angleStep
		positions[label] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions, nil
}
