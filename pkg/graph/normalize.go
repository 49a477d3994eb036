package graph

import (
	"strings"
	"unicode"
)

// DefaultSynonyms maps common abbreviations onto a single canonical label.
var DefaultSynonyms = map[string]string{
	"ml":    "machine learning",
	"ai":    "artificial intelligence",
	"cloud": "cloud computing",
}

// Canonicalizer turns raw field values into node labels: control characters
// dropped, lowercase, trimmed, internal whitespace collapsed, then mapped
// through a synonym table.
// Lemmatisation happens upstream; values are otherwise used as given.
type Canonicalizer struct {
	synonyms map[string]string
}

// NewCanonicalizer creates a canonicalizer with DefaultSynonyms plus extra.
// Entries in extra override defaults; keys and values are themselves
// normalised so configuration may use any casing.
func NewCanonicalizer(extra map[string]string) *Canonicalizer {
	c := &Canonicalizer{synonyms: make(map[string]string, len(DefaultSynonyms)+len(extra))}
	for k, v := range DefaultSynonyms {
		c.synonyms[fold(k)] = fold(v)
	}
	for k, v := range extra {
		if fk := fold(k); fk != "" {
			c.synonyms[fk] = fold(v)
		}
	}
	return c
}

// Canonical returns the node label for raw. The result is empty when raw
// holds only whitespace.
func (c *Canonicalizer) Canonical(raw string) string {
	label := fold(raw)
	if mapped, ok := c.synonyms[label]; ok && mapped != "" {
		return mapped
	}
	return label
}

func fold(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r), r == 0xFFFE, r == 0xFFFF:
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
