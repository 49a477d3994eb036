package visualization

import (
	"encoding/json"
	"fmt"

	"github.com/dd0wney/trendgraph/pkg/graph"
	"github.com/dd0wney/trendgraph/pkg/logging"
	"github.com/dd0wney/trendgraph/pkg/metrics"
)

// Options carries the run-scoped collaborators for BuildScene.
type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// SceneNode is one node with everything a renderer needs to draw it.
type SceneNode struct {
	Label     string         `json:"label"`
	Category  graph.Category `json:"category"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Degree    int            `json:"degree"`
	Community int            `json:"community"`
	Color     int            `json:"color"`
	Size      float64        `json:"size"`
	Hover     string         `json:"hover"`
}

// SceneEdge is one edge in the scene.
type SceneEdge struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Relation graph.Relation `json:"relation"`
}

// Scene is a laid-out, partitioned graph ready for an external renderer.
type Scene struct {
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	Nodes       []SceneNode      `json:"nodes"`
	Edges       []SceneEdge      `json:"edges"`
	Communities []Community      `json:"communities"`
	Modularity  float64          `json:"modularity"`
	Palette     []graph.Category `json:"palette"`
}

// NodeSize is the marker size for a node of the given degree.
func NodeSize(degree int) float64 {
	return 5 + 3*float64(degree)
}

// BuildScene lays out g, detects communities and assembles the scene.
func BuildScene(g *graph.Store, config LayoutConfig, opts Options) (*Scene, error) {
	config = config.withDefaults()
	logger := logging.OrNop(opts.Logger).With(logging.Component("visualization"))
	timer := logging.StartTimer(logger, "scene built",
		logging.String("algorithm", config.Algorithm),
		logging.Int("iterations", config.Iterations),
		logging.Int("nodes", g.NodeCount()),
	)

	layout, err := NewLayout(config)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	positions, err := layout.ComputeLayout(g)
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("layout failed: %w", err)
	}

	communities := DetectCommunities(g)
	modularity := Modularity(g, communities)

	communityIndex := make(map[string]int, g.NodeCount())
	for i, c := range communities {
		for _, label := range c.Nodes {
			communityIndex[label] = i
		}
	}
	palette := CategoryPalette(g)

	scene := &Scene{
		Width:       config.Width,
		Height:      config.Height,
		Nodes:       make([]SceneNode, 0, g.NodeCount()),
		Edges:       make([]SceneEdge, 0, g.EdgeCount()),
		Communities: communities,
		Modularity:  modularity,
		Palette:     g.Categories(),
	}

	for _, n := range g.Nodes() {
		degree, _ := g.Degree(n.Label)
		community, ok := communityIndex[n.Label]
		if !ok {
			community = -1
			logger.Warn("node missing from partition", logging.Label(n.Label))
		}
		pos := positions[n.Label]
		scene.Nodes = append(scene.Nodes, SceneNode{
			Label:     n.Label,
			Category:  n.Category,
			X:         pos.X,
			Y:         pos.Y,
			Degree:    degree,
			Community: community,
			Color:     palette[n.Category],
			Size:      NodeSize(degree),
			Hover:     fmt.Sprintf("%s (Degree: %d)", n.Label, degree),
		})
	}
	for _, e := range g.Edges() {
		scene.Edges = append(scene.Edges, SceneEdge{From: e.From, To: e.To, Relation: e.Relation})
	}

	elapsed := timer.End(
		logging.Int("communities", len(communities)),
		logging.Float64("modularity", modularity),
	)
	opts.Metrics.RecordLayout(elapsed, len(communities), modularity)
	return scene, nil
}

// ExportJSON exports the scene to JSON for the renderer
func (s *Scene) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scene: %w", err)
	}
	return data, nil
}
