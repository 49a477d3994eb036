package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

// GroupKind says which grouping column a record's Group came from.
type GroupKind int

const (
	GroupNone GroupKind = iota
	GroupSubreddit
	GroupCategory
)

// Category returns the node category used for a group label.
func (k GroupKind) Category() graph.Category {
	switch k {
	case GroupSubreddit:
		return graph.CategorySubreddit
	case GroupCategory:
		return graph.CategoryGroup
	default:
		return graph.CategoryUnknown
	}
}

// Record is one normalised row from a non-trend source. Every field is
// optional; the builder branches on which ones are present.
type Record struct {
	Title     string
	Keywords  []string
	Entities  []string
	Group     string
	GroupKind GroupKind

	// Metadata carried through from the normaliser but not used for graph
	// structure.
	Score     float64
	Sentiment *float64
	URL       string

	// Line is the 1-based position in the source file, for diagnostics.
	Line int
}

func (r Record) HasTitle() bool    { return strings.TrimSpace(r.Title) != "" }
func (r Record) HasKeywords() bool { return len(r.Keywords) > 0 }
func (r Record) HasEntities() bool { return len(r.Entities) > 0 }
func (r Record) HasGroup() bool    { return r.GroupKind != GroupNone && strings.TrimSpace(r.Group) != "" }

// Validate reports why a record cannot be applied, or nil.
func (r Record) Validate() error {
	if r.HasTitle() {
		return nil
	}
	switch {
	case r.HasKeywords():
		return fmt.Errorf("record has keywords but no title")
	case r.HasEntities():
		return fmt.Errorf("record has entities but no title")
	case r.HasGroup():
		return fmt.Errorf("record has a group but no title")
	default:
		return fmt.Errorf("record is empty")
	}
}

// SplitKeywords splits a comma-delimited keyword string, dropping blanks.
func SplitKeywords(s string) []string {
	return splitList(s, ",")
}

// splitEntities accepts either ';' or ',' as the separator.
func splitEntities(s string) []string {
	if strings.Contains(s, ";") {
		return splitList(s, ";")
	}
	return splitList(s, ",")
}

func splitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// stringList decodes either a JSON array of strings or a comma-delimited
// string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = SplitKeywords(s)
	return nil
}

// TrendTable is a wide trend series: one column per tracked keyword, one row
// per time sample.
type TrendTable struct {
	Keywords   []string
	Timestamps []string
	Rows       [][]float64

	// SkippedRows counts samples dropped for having non-numeric cells.
	SkippedRows int
}

// SourceKind selects the reader and builder path for a source.
type SourceKind string

const (
	KindRecords SourceKind = "records"
	KindTrends  SourceKind = "trends"
)

// Source names one normalised input file. Name doubles as the node category
// for titles read from it.
type Source struct {
	Name string
	Kind SourceKind
	Path string
}

// Category is the node category for items from this source.
func (s Source) Category() graph.Category {
	if s.Name == "" {
		return graph.CategorySourceItem
	}
	return graph.Category(s.Name)
}
