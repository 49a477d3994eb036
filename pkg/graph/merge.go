package graph

// Merge replays src's nodes and then its edges into dst using the same
// idempotent AddNode/AddEdge contract. Categories already present in dst win.
func Merge(dst, src *Store) error {
	for _, n := range src.nodes {
		if _, err := dst.AddNode(n.Label, n.Category); err != nil {
			return err
		}
	}
	for _, e := range src.edges {
		if err := dst.AddEdge(e.From, e.To, e.Relation); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether a and b hold the same labels with the same categories
// and the same unordered edge set. Insertion order and IDs are ignored.
func Equal(a, b *Store) bool {
	if a.NodeCount() != b.NodeCount() || a.EdgeCount() != b.EdgeCount() {
		return false
	}
	for _, n := range a.nodes {
		other, err := b.Node(n.Label)
		if err != nil || other.Category != n.Category {
			return false
		}
	}
	for _, e := range a.edges {
		if !b.HasEdge(e.From, e.To, e.Relation) {
			return false
		}
	}
	return true
}
