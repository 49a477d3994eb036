package algorithms

import (
	"container/list"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

// ShortestPath returns a fewest-hops path from start to end, both included.
// An absent endpoint is ErrNotFound; endpoints in different components are
// ErrNoPath.
func ShortestPath(g *graph.Store, start, end string) ([]string, error) {
	if !g.Has(start) {
		return nil, graph.NotFoundError("ShortestPath", start)
	}
	if !g.Has(end) {
		return nil, graph.NotFoundError("ShortestPath", end)
	}
	if start == end {
		return []string{start}, nil
	}

	parent := map[string]string{start: start}
	queue := list.New()
	queue.PushBack(start)

	for queue.Len() > 0 {
		current := queue.Remove(queue.Front()).(string)
		neighbors, _ := g.Neighbors(current)
		for _, n := range neighbors {
			if _, seen := parent[n]; seen {
				continue
			}
			parent[n] = current
			if n == end {
				return buildPath(parent, start, end), nil
			}
			queue.PushBack(n)
		}
	}

	return nil, graph.NewError("ShortestPath").Context("%s -> %s", start, end).
		Cause(graph.ErrNoPath).Err()
}

// buildPath walks the parent map back from end.
func buildPath(parent map[string]string, start, end string) []string {
	path := []string{end}
	for current := end; current != start; {
		current = parent[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
