package graph

import (
	"sort"
	"strings"
)

// Store is an in-memory undirected graph keyed by node label. At most one
// edge exists per (unordered pair, relation) and self-loops are rejected.
//
// Nodes live in an arena indexed by ID-1; adjacency is recorded on both
// endpoints. Store is not safe for concurrent mutation: build one store per
// goroutine and combine them with Merge.
type Store struct {
	nodes   []Node
	byLabel map[string]uint64
	adj     map[uint64][]halfEdge
	edges   []Edge
	edgeSet map[edgeKey]struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		nodes:   make([]Node, 0),
		byLabel: make(map[string]uint64),
		adj:     make(map[uint64][]halfEdge),
		edges:   make([]Edge, 0),
		edgeSet: make(map[edgeKey]struct{}),
	}
}

// AddNode returns the ID of the node with this label, creating it with
// category if absent. An existing node keeps its original category.
func (s *Store) AddNode(label string, category Category) (uint64, error) {
	if strings.TrimSpace(label) == "" {
		return 0, NewError("AddNode").Entity("node").Cause(ErrInvalidLabel).Err()
	}
	if id, ok := s.byLabel[label]; ok {
		return id, nil
	}
	if category == "" {
		category = CategoryUnknown
	}

	id := uint64(len(s.nodes) + 1)
	s.nodes = append(s.nodes, Node{ID: id, Label: label, Category: category})
	s.byLabel[label] = id
	return id, nil
}

// AddEdge inserts the (a, b, relation) edge if absent. Missing endpoints are
// created with CategoryUnknown. Re-inserting an existing edge in either
// direction is a no-op.
func (s *Store) AddEdge(a, b string, relation Relation) error {
	if !relation.Valid() {
		return NewError("AddEdge").Edge().Context("%s -- %s", a, b).
			Cause(ErrInvalidRelation).Err()
	}
	if a == b {
		return NewError("AddEdge").Node(a).Context("relation %s", relation).
			Cause(ErrInvalidEdge).Err()
	}

	from, err := s.AddNode(a, CategoryUnknown)
	if err != nil {
		return err
	}
	to, err := s.AddNode(b, CategoryUnknown)
	if err != nil {
		return err
	}

	key := newEdgeKey(from, to, relation)
	if _, exists := s.edgeSet[key]; exists {
		return nil
	}
	s.edgeSet[key] = struct{}{}
	s.edges = append(s.edges, Edge{
		ID:       uint64(len(s.edges) + 1),
		From:     a,
		To:       b,
		Relation: relation,
	})
	s.adj[from] = append(s.adj[from], halfEdge{to: to, relation: relation})
	s.adj[to] = append(s.adj[to], halfEdge{to: from, relation: relation})
	return nil
}

// Has reports whether a node with this label exists.
func (s *Store) Has(label string) bool {
	_, ok := s.byLabel[label]
	return ok
}

// Node returns the node with this label.
func (s *Store) Node(label string) (Node, error) {
	id, ok := s.byLabel[label]
	if !ok {
		return Node{}, NotFoundError("Node", label)
	}
	return s.nodes[id-1], nil
}

// Neighbors returns the distinct labels adjacent to label, in the order the
// connecting edges were inserted.
func (s *Store) Neighbors(label string) ([]string, error) {
	id, ok := s.byLabel[label]
	if !ok {
		return nil, NotFoundError("Neighbors", label)
	}
	return s.neighborLabels(id), nil
}

func (s *Store) neighborLabels(id uint64) []string {
	half := s.adj[id]
	seen := make(map[uint64]struct{}, len(half))
	result := make([]string, 0, len(half))
	for _, h := range half {
		if _, dup := seen[h.to]; dup {
			continue
		}
		seen[h.to] = struct{}{}
		result = append(result, s.nodes[h.to-1].Label)
	}
	return result
}

// Degree returns the number of distinct neighbours of label. Two nodes joined
// by more than one relation count once.
func (s *Store) Degree(label string) (int, error) {
	id, ok := s.byLabel[label]
	if !ok {
		return 0, NotFoundError("Degree", label)
	}
	return len(s.neighborLabels(id)), nil
}

// HasEdge reports whether the (a, b, relation) edge exists in either direction.
func (s *Store) HasEdge(a, b string, relation Relation) bool {
	from, ok := s.byLabel[a]
	if !ok {
		return false
	}
	to, ok := s.byLabel[b]
	if !ok {
		return false
	}
	_, exists := s.edgeSet[newEdgeKey(from, to, relation)]
	return exists
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int {
	return len(s.nodes)
}

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int {
	return len(s.edges)
}

// Nodes returns a copy of all nodes in insertion order.
func (s *Store) Nodes() []Node {
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Labels returns all node labels in insertion order.
func (s *Store) Labels() []string {
	out := make([]string, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.Label
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (s *Store) Edges() []Edge {
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Categories returns the distinct node categories, sorted.
func (s *Store) Categories() []Category {
	seen := make(map[Category]struct{})
	for _, n := range s.nodes {
		seen[n.Category] = struct{}{}
	}
	out := make([]Category, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Stats summarises a store for logs and CLI output.
type Stats struct {
	Nodes      int              `json:"nodes"`
	Edges      int              `json:"edges"`
	ByCategory map[Category]int `json:"by_category"`
	ByRelation map[Relation]int `json:"by_relation"`
}

// Stats counts nodes per category and edges per relation.
func (s *Store) Stats() Stats {
	st := Stats{
		Nodes:      len(s.nodes),
		Edges:      len(s.edges),
		ByCategory: make(map[Category]int),
		ByRelation: make(map[Relation]int),
	}
	for _, n := range s.nodes {
		st.ByCategory[n.Category]++
	}
	for _, e := range s.edges {
		st.ByRelation[e.Relation]++
	}
	return st
}
