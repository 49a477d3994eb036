package visualization

import (
	"sort"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

// Community is one block of the partition. Nodes are in insertion order.
type Community struct {
	Nodes []string `json:"nodes"`
}

// Size returns the number of member nodes.
func (c Community) Size() int { return len(c.Nodes) }

// simpleGraph is the store reduced to distinct neighbour pairs, indexed by
// insertion order. Parallel edges with different relations count once.
type simpleGraph struct {
	labels    []string
	adjacency [][]int
	degree    []int
	edges     int
}

func newSimpleGraph(g *graph.Store) *simpleGraph {
	labels := g.Labels()
	sg := &simpleGraph{
		labels:    labels,
		adjacency: indexAdjacency(g, labels),
		degree:    make([]int, len(labels)),
	}
	for i, neighbors := range sg.adjacency {
		sg.degree[i] = len(neighbors)
		sg.edges += len(neighbors)
	}
	sg.edges /= 2
	return sg
}

// DetectCommunities partitions g by Clauset-Newman-Moore greedy modularity
// agglomeration: starting from singletons, repeatedly merge the pair of
// adjacent communities with the largest modularity gain until no merge
// improves it. Communities are ordered by size, largest first, then by their
// earliest-inserted member. Every node appears in exactly one community.
func DetectCommunities(g *graph.Store) []Community {
	sg := newSimpleGraph(g)
	n := len(sg.labels)
	if n == 0 {
		return []Community{}
	}

	members := make([][]int, n)
	for i := range members {
		members[i] = []int{i}
	}

	if sg.edges > 0 {
		mergeGreedy(sg, members)
	}

	out := make([][]int, 0, n)
	for _, m := range members {
		if len(m) > 0 {
			sort.Ints(m)
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i][0] < out[j][0]
	})

	communities := make([]Community, len(out))
	for i, m := range out {
		nodes := make([]string, len(m))
		for j, idx := range m {
			nodes[j] = sg.labels[idx]
		}
		communities[i] = Community{Nodes: nodes}
	}
	return communities
}

// mergeGreedy runs the CNM merge loop in place over members. dq[i][j] holds
// the modularity change from joining communities i and j, kept only for
// adjacent pairs; a[i] is the fraction of edge ends in community i.
func mergeGreedy(sg *simpleGraph, members [][]int) {
	n := len(sg.labels)
	twoM := 2 * float64(sg.edges)

	a := make([]float64, n)
	dq := make([]map[int]float64, n)
	for i := 0; i < n; i++ {
		a[i] = float64(sg.degree[i]) / twoM
		dq[i] = make(map[int]float64, len(sg.adjacency[i]))
	}
	for i := 0; i < n; i++ {
		for _, j := range sg.adjacency[i] {
			dq[i][j] = 2 * (1/twoM - a[i]*a[j])
		}
	}

	alive := make([]bool, n)
	for i := range alive {
		alive[i] = true
	}

	for {
		// Best pair; ties go to the lowest (i, j)
		bestI, bestJ, best := -1, -1, 0.0
		for i := 0; i < n; i++ {
			if !alive[i] {
				continue
			}
			for _, j := range sortedKeys(dq[i]) {
				if j <= i {
					continue
				}
				if gain := dq[i][j]; gain > best+1e-12 {
					bestI, bestJ, best = i, j, gain
				}
			}
		}
		if bestI < 0 {
			return
		}

		// Merge j into i
		i, j := bestI, bestJ
		for _, k := range unionKeys(dq[i], dq[j]) {
			if k == i || k == j {
				continue
			}
			dik, inI := dq[i][k]
			djk, inJ := dq[j][k]

			var merged float64
			switch {
			case inI && inJ:
				merged = dik + djk
			case inI:
				merged = dik - 2*a[j]*a[k]
			default:
				merged = djk - 2*a[i]*a[k]
			}
			dq[i][k] = merged
			dq[k][i] = merged
			delete(dq[k], j)
		}
		delete(dq[i], j)
		dq[j] = nil

		a[i] += a[j]
		a[j] = 0
		members[i] = append(members[i], members[j]...)
		members[j] = nil
		alive[j] = false
	}
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func unionKeys(x, y map[int]float64) []int {
	seen := make(map[int]float64, len(x)+len(y))
	for k := range x {
		seen[k] = 0
	}
	for k := range y {
		seen[k] = 0
	}
	return sortedKeys(seen)
}

// Modularity scores a partition of g: the fraction of edges inside
// communities minus the fraction expected at random with the same degrees.
// Labels missing from g are ignored. A graph without edges scores 0.
func Modularity(g *graph.Store, communities []Community) float64 {
	sg := newSimpleGraph(g)
	if sg.edges == 0 {
		return 0
	}

	index := make(map[string]int, len(sg.labels))
	for i, label := range sg.labels {
		index[label] = i
	}
	block := make(map[int]int, len(sg.labels))
	for c, community := range communities {
		for _, label := range community.Nodes {
			if i, ok := index[label]; ok {
				block[i] = c
			}
		}
	}

	m := float64(sg.edges)
	internal := make(map[int]float64)
	degrees := make(map[int]float64)
	for i, neighbors := range sg.adjacency {
		ci, ok := block[i]
		if !ok {
			continue
		}
		degrees[ci] += float64(sg.degree[i])
		for _, j := range neighbors {
			if cj, ok := block[j]; ok && cj == ci && i < j {
				internal[ci]++
			}
		}
	}

	q := 0.0
	for c := range communities {
		share := degrees[c] / (2 * m)
		q += internal[c]/m - share*share
	}
	return q
}

// CommunityOf returns the index of the community containing label, or -1.
func CommunityOf(label string, communities []Community) int {
	for i, c := range communities {
		for _, n := range c.Nodes {
			if n == label {
				return i
			}
		}
	}
	return -1
}

// CategoryPalette assigns every category in g a stable colour index: its
// position in the sorted list of distinct categories.
func CategoryPalette(g *graph.Store) map[graph.Category]int {
	categories := g.Categories()
	palette := make(map[graph.Category]int, len(categories))
	for i, c := range categories {
		palette[c] = i
	}
	return palette
}
