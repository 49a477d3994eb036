package graph

import "fmt"

// Category is advisory display metadata attached to a node on first creation.
type Category string

const (
	CategoryKeyword    Category = "Keyword"
	CategoryEntity     Category = "Entity"
	CategorySubreddit  Category = "Subreddit"
	CategoryGroup      Category = "Category"
	CategorySourceItem Category = "Source-item"
	CategoryUnknown    Category = "Unknown"
)

// Relation is the closed vocabulary of edge labels.
type Relation string

const (
	RelationCoTrend     Relation = "co-trend"
	RelationContains    Relation = "Contains"
	RelationMentions    Relation = "Mentions"
	RelationDiscusses   Relation = "Discusses"
	RelationDiscussedIn Relation = "discussed_in"
)

var relations = map[Relation]struct{}{
	RelationCoTrend:     {},
	RelationContains:    {},
	RelationMentions:    {},
	RelationDiscusses:   {},
	RelationDiscussedIn: {},
}

// Valid reports whether r belongs to the relation vocabulary.
func (r Relation) Valid() bool {
	_, ok := relations[r]
	return ok
}

// ParseRelation validates a relation read from an external source.
func ParseRelation(s string) (Relation, error) {
	r := Relation(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRelation, s)
	}
	return r, nil
}

// Node is a graph vertex. ID is the arena index assigned at first insertion,
// starting at 1.
type Node struct {
	ID       uint64   `json:"id"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
}

// Edge is an undirected, relation-labelled connection. From is the endpoint
// given first when the edge was inserted.
type Edge struct {
	ID       uint64   `json:"id"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Relation Relation `json:"relation"`
}

// halfEdge is one endpoint's view of an edge.
type halfEdge struct {
	to       uint64
	relation Relation
}

// edgeKey identifies an edge independent of endpoint order.
type edgeKey struct {
	lo, hi   uint64
	relation Relation
}

func newEdgeKey(a, b uint64, r Relation) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b, relation: r}
}
