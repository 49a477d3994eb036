package algorithms

import (
	"container/list"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

// Component is one connected component. Nodes are in BFS order from the
// earliest-inserted member.
type Component struct {
	ID    int      `json:"id"`
	Nodes []string `json:"nodes"`
	Size  int      `json:"size"`
}

// ComponentResult partitions every node into connected components.
type ComponentResult struct {
	Components    []*Component   `json:"components"`
	NodeComponent map[string]int `json:"-"` // label → component ID
}

// Largest returns the biggest component, or nil for an empty graph. Ties go
// to the lower ID.
func (r *ComponentResult) Largest() *Component {
	var best *Component
	for _, c := range r.Components {
		if best == nil || c.Size > best.Size {
			best = c
		}
	}
	return best
}

// ConnectedComponents finds all connected components in the graph. IDs
// follow the insertion order of each component's first node.
func ConnectedComponents(g *graph.Store) *ComponentResult {
	result := &ComponentResult{
		Components:    make([]*Component, 0),
		NodeComponent: make(map[string]int, g.NodeCount()),
	}

	visited := make(map[string]bool, g.NodeCount())
	for _, start := range g.Labels() {
		if visited[start] {
			continue
		}

		component := &Component{ID: len(result.Components), Nodes: make([]string, 0)}
		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			label := queue.Remove(queue.Front()).(string)
			component.Nodes = append(component.Nodes, label)
			result.NodeComponent[label] = component.ID

			neighbors, _ := g.Neighbors(label)
			for _, n := range neighbors {
				if !visited[n] {
					visited[n] = true
					queue.PushBack(n)
				}
			}
		}

		component.Size = len(component.Nodes)
		result.Components = append(result.Components, component)
	}

	return result
}
