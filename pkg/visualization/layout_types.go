// Package visualization turns a graph into a renderable 2-D scene: node
// positions, a community partition and per-node styling hints. Drawing the
// scene is left to an external renderer.
package visualization

import (
	"github.com/dd0wney/trendgraph/pkg/graph"
)

// Layout algorithms selectable by name.
const (
	AlgorithmForce    = "force"
	AlgorithmCircular = "circular"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Algorithm  string  // AlgorithmForce (default) or AlgorithmCircular
	Iterations int     // Number of iterations for iterative algorithms
	Strength   float64 // Optimal edge length before scaling to the canvas
	Seed       int64   // Seed for the initial placement
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Padding    float64 // Padding from edges
}

// DefaultLayoutConfig returns the layout settings used by kgraph visualize.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Algorithm:  AlgorithmForce,
		Iterations: 100,
		Strength:   0.5,
		Seed:       42,
		Width:      1000,
		Height:     800,
		Padding:    50,
	}
}

// withDefaults fills zero fields from DefaultLayoutConfig. Seed 0 is a valid
// seed and is kept.
func (c LayoutConfig) withDefaults() LayoutConfig {
	d := DefaultLayoutConfig()
	if c.Algorithm == "" {
		c.Algorithm = d.Algorithm
	}
	if c.Iterations <= 0 {
		c.Iterations = d.Iterations
	}
	if c.Strength <= 0 {
		c.Strength = d.Strength
	}
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Padding < 0 || 2*c.Padding >= c.Width || 2*c.Padding >= c.Height {
		c.Padding = 0
	}
	return c
}

// Layout interface for different layout algorithms
type Layout interface {
	ComputeLayout(g *graph.Store) (map[string]Position, error)
}

// NewLayout returns the layout named by config.Algorithm.
func NewLayout(config LayoutConfig) (Layout, error) {
	config = config.withDefaults()
	switch config.Algorithm {
	case AlgorithmForce:
		return NewForceDirectedLayout(config), nil
	case AlgorithmCircular:
		return NewCircularLayout(config), nil
	default:
		return nil, graph.NewError("NewLayout").Entity("layout").
			Context("unknown algorithm %q", config.Algorithm).Err()
	}
}
