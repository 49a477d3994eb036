// Package algorithms answers read-only queries over a graph.Store: traversal,
// degree ranking, shortest paths and component structure. Nodes are named by
// label throughout.
package algorithms

import (
	"container/list"
	"fmt"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

// BreadthFirstReachable returns every node reachable from start in FIFO
// order. A node is marked visited when it is dequeued, so it may sit in the
// queue more than once before it is first visited.
func BreadthFirstReachable(g *graph.Store, start string) ([]string, error) {
	if !g.Has(start) {
		return nil, graph.NotFoundError("BreadthFirstReachable", start)
	}

	visited := make(map[string]bool)
	order := make([]string, 0)

	queue := list.New()
	queue.PushBack(start)

	for queue.Len() > 0 {
		label := queue.Remove(queue.Front()).(string)
		if visited[label] {
			continue
		}
		visited[label] = true
		order = append(order, label)

		neighbors, err := g.Neighbors(label)
		if err != nil {
			return nil, err
		}
		for _, n := range neighbors {
			if !visited[n] {
				queue.PushBack(n)
			}
		}
	}

	return order, nil
}

// KHopOptions configures the k-hop neighbourhood traversal.
type KHopOptions struct {
	MaxHops    int              // must be >= 1
	Relations  []graph.Relation // nil means all relations
	MaxResults int              // 0 = unlimited; BFS order gives closer nodes priority
}

// KHopResult holds the BFS neighbourhood of a source node.
type KHopResult struct {
	Source         string           `json:"source"`
	ByHop          map[int][]string `json:"by_hop"`    // hop distance → labels at that distance
	Distances      map[string]int   `json:"distances"` // label → shortest hop count
	TotalReachable int              `json:"total_reachable"`
}

// DefaultKHopOptions returns sensible defaults.
func DefaultKHopOptions() KHopOptions {
	return KHopOptions{MaxHops: 2}
}

type bfsEntry struct {
	label string
	hop   int
}

// KHopNeighbours performs a BFS from source up to MaxHops levels, returning
// all discovered nodes grouped by distance. The source is never included.
func KHopNeighbours(g *graph.Store, source string, opts KHopOptions) (*KHopResult, error) {
	if opts.MaxHops < 1 {
		return nil, fmt.Errorf("MaxHops must be >= 1, got %d", opts.MaxHops)
	}
	if !g.Has(source) {
		return nil, graph.NotFoundError("KHopNeighbours", source)
	}

	allowed := make(map[graph.Relation]bool, len(opts.Relations))
	for _, r := range opts.Relations {
		allowed[r] = true
	}

	result := &KHopResult{
		Source:    source,
		ByHop:     make(map[int][]string),
		Distances: make(map[string]int),
	}
	visited := map[string]bool{source: true}
	queue := []bfsEntry{{label: source, hop: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.hop >= opts.MaxHops {
			continue
		}
		nextHop := current.hop + 1

		for _, neighbor := range neighborsVia(g, current.label, allowed) {
			if visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			result.Distances[neighbor] = nextHop
			result.ByHop[nextHop] = append(result.ByHop[nextHop], neighbor)
			result.TotalReachable++

			if opts.MaxResults > 0 && result.TotalReachable >= opts.MaxResults {
				return result, nil
			}
			queue = append(queue, bfsEntry{label: neighbor, hop: nextHop})
		}
	}

	return result, nil
}

// neighborsVia lists distinct neighbours reached over an allowed relation.
// An empty filter allows every relation.
func neighborsVia(g *graph.Store, label string, allowed map[graph.Relation]bool) []string {
	neighbors, _ := g.Neighbors(label)
	if len(allowed) == 0 {
		return neighbors
	}
	out := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		for r := range allowed {
			if g.HasEdge(label, n, r) {
				out = append(out, n)
				break
			}
		}
	}
	return out
}
