// Package gexf reads and writes graphs as GEXF 1.2 documents, the XML
// interchange format understood by Gephi and networkx.
package gexf

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

const (
	namespace = "http://www.gexf.net/1.2draft"
	version   = "1.2"

	// Attribute titles. Files written elsewhere may number attributes
	// differently, so decoding resolves them by title.
	categoryAttr = "category"
	relationAttr = "relation"
)

// Meta is the document-level metadata block.
type Meta struct {
	Creator      string
	RunID        string
	LastModified time.Time
}

type document struct {
	XMLName xml.Name     `xml:"gexf"`
	XMLNS   string       `xml:"xmlns,attr"`
	Version string       `xml:"version,attr"`
	Meta    *metaElement `xml:"meta,omitempty"`
	Graph   graphElement `xml:"graph"`
}

type metaElement struct {
	LastModified string `xml:"lastmodifieddate,attr,omitempty"`
	Creator      string `xml:"creator,omitempty"`
	Description  string `xml:"description,omitempty"`
}

type graphElement struct {
	Mode            string            `xml:"mode,attr,omitempty"`
	DefaultEdgeType string            `xml:"defaultedgetype,attr"`
	Attributes      []attributesBlock `xml:"attributes"`
	Nodes           []nodeElement     `xml:"nodes>node"`
	Edges           []edgeElement     `xml:"edges>edge"`
}

type attributesBlock struct {
	Class      string             `xml:"class,attr"`
	Attributes []attributeElement `xml:"attribute"`
}

type attributeElement struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type attValue struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

type nodeElement struct {
	ID        string     `xml:"id,attr"`
	Label     string     `xml:"label,attr,omitempty"`
	AttValues []attValue `xml:"attvalues>attvalue"`
}

type edgeElement struct {
	ID        string     `xml:"id,attr"`
	Source    string     `xml:"source,attr"`
	Target    string     `xml:"target,attr"`
	Label     string     `xml:"label,attr,omitempty"`
	AttValues []attValue `xml:"attvalues>attvalue"`
}

// Encode writes store as an undirected GEXF document. Node ids are the
// store's arena IDs; categories and relations travel as named attributes. A
// label or category XML cannot carry fails with graph.ErrInvalidLabel before
// anything is written.
func Encode(w io.Writer, store *graph.Store, meta Meta) error {
	doc := document{
		XMLNS:   namespace,
		Version: version,
		Graph: graphElement{
			Mode:            "static",
			DefaultEdgeType: "undirected",
			Attributes: []attributesBlock{
				{Class: "node", Attributes: []attributeElement{{ID: "0", Title: categoryAttr, Type: "string"}}},
				{Class: "edge", Attributes: []attributeElement{{ID: "0", Title: relationAttr, Type: "string"}}},
			},
		},
	}
	if meta.Creator != "" || meta.RunID != "" || !meta.LastModified.IsZero() {
		doc.Meta = &metaElement{Creator: meta.Creator, Description: meta.RunID}
		if !meta.LastModified.IsZero() {
			doc.Meta.LastModified = meta.LastModified.UTC().Format("2006-01-02")
		}
	}

	nodes := store.Nodes()
	ids := make(map[string]string, len(nodes))
	doc.Graph.Nodes = make([]nodeElement, 0, len(nodes))
	for _, n := range nodes {
		if !representable(n.Label) {
			return graph.NewError("Encode").Node(n.Label).
				Context("label holds characters XML cannot carry").Cause(graph.ErrInvalidLabel).Err()
		}
		if !representable(string(n.Category)) {
			return graph.NewError("Encode").Node(n.Label).
				Context("category %q holds characters XML cannot carry", n.Category).Cause(graph.ErrInvalidLabel).Err()
		}
		id := strconv.FormatUint(n.ID, 10)
		ids[n.Label] = id
		doc.Graph.Nodes = append(doc.Graph.Nodes, nodeElement{
			ID:        id,
			Label:     n.Label,
			AttValues: []attValue{{For: "0", Value: string(n.Category)}},
		})
	}

	edges := store.Edges()
	doc.Graph.Edges = make([]edgeElement, 0, len(edges))
	for _, e := range edges {
		doc.Graph.Edges = append(doc.Graph.Edges, edgeElement{
			ID:        strconv.FormatUint(e.ID, 10),
			Source:    ids[e.From],
			Target:    ids[e.To],
			AttValues: []attValue{{For: "0", Value: string(e.Relation)}},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write gexf header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode gexf: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write gexf: %w", err)
	}
	return nil
}

// representable reports whether s survives an XML round trip unchanged:
// valid UTF-8 made only of XML 1.0 characters.
func representable(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t', r == '\n', r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= utf8.MaxRune:
		default:
			return false
		}
	}
	return true
}

// Decode reads a GEXF document into a new store. Every failure wraps
// graph.ErrCorruptFile.
func Decode(r io.Reader) (*graph.Store, Meta, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, Meta{}, corrupt("malformed xml: %v", err)
	}

	var meta Meta
	if doc.Meta != nil {
		meta.Creator = doc.Meta.Creator
		meta.RunID = doc.Meta.Description
		if t, err := time.Parse("2006-01-02", doc.Meta.LastModified); err == nil {
			meta.LastModified = t
		}
	}

	nodeAttrs, edgeAttrs := attributeIDs(doc.Graph.Attributes)
	categoryID, ok := nodeAttrs[categoryAttr]
	if !ok && len(doc.Graph.Nodes) > 0 {
		return nil, meta, corrupt("node attribute %q not declared", categoryAttr)
	}
	relationID, hasRelation := edgeAttrs[relationAttr]

	store := graph.NewStore()
	labels := make(map[string]string, len(doc.Graph.Nodes))
	for _, n := range doc.Graph.Nodes {
		if n.ID == "" {
			return nil, meta, corrupt("node without id")
		}
		label := n.Label
		if label == "" {
			label = n.ID
		}
		category, found := lookup(n.AttValues, categoryID)
		if !found {
			return nil, meta, corrupt("node %q has no %s", n.ID, categoryAttr)
		}
		if _, err := store.AddNode(label, graph.Category(category)); err != nil {
			return nil, meta, corrupt("node %q: %v", n.ID, err)
		}
		labels[n.ID] = label
	}

	for _, e := range doc.Graph.Edges {
		from, okFrom := labels[e.Source]
		to, okTo := labels[e.Target]
		if !okFrom || !okTo {
			return nil, meta, corrupt("edge %q references unknown node", e.ID)
		}

		value := e.Label
		if hasRelation {
			if v, found := lookup(e.AttValues, relationID); found {
				value = v
			}
		}
		if value == "" {
			return nil, meta, corrupt("edge %q has no %s", e.ID, relationAttr)
		}
		relation, err := graph.ParseRelation(value)
		if err != nil {
			return nil, meta, corrupt("edge %q: %v", e.ID, err)
		}
		if err := store.AddEdge(from, to, relation); err != nil {
			return nil, meta, corrupt("edge %q: %v", e.ID, err)
		}
	}

	return store, meta, nil
}

// attributeIDs maps attribute titles to ids for each class.
func attributeIDs(blocks []attributesBlock) (node, edge map[string]string) {
	node = make(map[string]string)
	edge = make(map[string]string)
	for _, b := range blocks {
		target := node
		if b.Class == "edge" {
			target = edge
		}
		for _, a := range b.Attributes {
			target[a.Title] = a.ID
		}
	}
	return node, edge
}

func lookup(values []attValue, id string) (string, bool) {
	for _, v := range values {
		if v.For == id {
			return v.Value, true
		}
	}
	return "", false
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", graph.ErrCorruptFile, fmt.Sprintf(format, args...))
}
