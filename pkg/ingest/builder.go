package ingest

import (
	"github.com/dd0wney/trendgraph/pkg/graph"
	"github.com/dd0wney/trendgraph/pkg/logging"
	"github.com/dd0wney/trendgraph/pkg/metrics"
)

// DefaultMaxTrendKeywords bounds the co-trend clique. k keywords produce
// k(k-1)/2 edges.
const DefaultMaxTrendKeywords = 50

// Options configures a Builder for one build run.
type Options struct {
	Logger           logging.Logger
	Metrics          *metrics.Registry
	Canonicalizer    *graph.Canonicalizer
	MaxTrendKeywords int

	// StatusColumns are trend-table columns dropped at read time. Nil means
	// DefaultStatusColumns.
	StatusColumns []string
}

// Builder translates normalised source records into graph mutations. It holds
// no graph state of its own and may be shared by goroutines that each own a
// separate Store.
type Builder struct {
	logger      logging.Logger
	metrics     *metrics.Registry
	canon       *graph.Canonicalizer
	maxKeywords int
	statusCols  []string
}

// Summary describes what one source contributed to a store.
type Summary struct {
	Source     string `json:"source"`
	Records    int    `json:"records"`
	Skipped    int    `json:"skipped"`
	NodesAdded int    `json:"nodes_added"`
	EdgesAdded int    `json:"edges_added"`
}

// NewBuilder creates a builder, filling unset options with defaults.
func NewBuilder(opts Options) *Builder {
	if opts.Canonicalizer == nil {
		opts.Canonicalizer = graph.NewCanonicalizer(nil)
	}
	if opts.MaxTrendKeywords <= 0 {
		opts.MaxTrendKeywords = DefaultMaxTrendKeywords
	}
	return &Builder{
		logger:      logging.OrNop(opts.Logger).With(logging.Component("ingest")),
		metrics:     opts.Metrics,
		canon:       opts.Canonicalizer,
		maxKeywords: opts.MaxTrendKeywords,
		statusCols:  opts.StatusColumns,
	}
}

// ApplyRecords adds every valid record from source to store. Invalid records
// are logged and skipped; they never abort the batch.
func (b *Builder) ApplyRecords(store *graph.Store, source Source, records []Record) Summary {
	timer := logging.StartTimer(b.logger, "source built", logging.Source(source.Name))
	nodesBefore, edgesBefore := store.NodeCount(), store.EdgeCount()

	summary := Summary{Source: source.Name, Records: len(records)}
	for _, rec := range records {
		if err := b.applyRecord(store, source, rec); err != nil {
			summary.Skipped++
			b.logger.Warn("record skipped",
				logging.Source(source.Name),
				logging.Line(rec.Line),
				logging.Error(err),
			)
		}
	}

	summary.NodesAdded = store.NodeCount() - nodesBefore
	summary.EdgesAdded = store.EdgeCount() - edgesBefore
	elapsed := timer.End(
		logging.Int("records", summary.Records),
		logging.Int("skipped", summary.Skipped),
		logging.Int("nodes_added", summary.NodesAdded),
		logging.Int("edges_added", summary.EdgesAdded),
	)
	b.metrics.RecordSourceRecords(source.Name, summary.Records-summary.Skipped, summary.Skipped, elapsed)
	return summary
}

func (b *Builder) applyRecord(store *graph.Store, source Source, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	title := b.canon.Canonical(rec.Title)
	if title == "" {
		return graph.NewError("ApplyRecords").Entity("record").Cause(graph.ErrInvalidLabel).Err()
	}
	if _, err := store.AddNode(title, source.Category()); err != nil {
		return err
	}

	for _, raw := range rec.Keywords {
		if err := b.link(store, title, raw, graph.CategoryKeyword, graph.RelationContains); err != nil {
			return err
		}
	}

	for _, raw := range rec.Entities {
		if err := b.link(store, title, raw, graph.CategoryEntity, graph.RelationMentions); err != nil {
			return err
		}
	}

	if rec.HasGroup() {
		group := b.canon.Canonical(rec.Group)
		if group == title {
			b.logger.Debug("group equals title, edge skipped", logging.Label(title))
			return nil
		}
		if _, err := store.AddNode(group, rec.GroupKind.Category()); err != nil {
			return err
		}
		if err := store.AddEdge(group, title, graph.RelationDiscusses); err != nil {
			return err
		}
	}

	return nil
}

// link connects title to the canonical form of raw. Blank and
// self-referential values are skipped without error.
func (b *Builder) link(store *graph.Store, title, raw string, category graph.Category, relation graph.Relation) error {
	label := b.canon.Canonical(raw)
	if label == "" {
		return nil
	}
	if label == title {
		b.logger.Debug("self reference skipped",
			logging.Label(title),
			logging.Relation(string(relation)),
		)
		return nil
	}
	if _, err := store.AddNode(label, category); err != nil {
		return err
	}
	return store.AddEdge(title, label, relation)
}

// ApplyTrends connects every pair of distinct tracked keywords with a
// co-trend edge. Tables tracking more than the configured maximum are
// rejected before the store is touched.
func (b *Builder) ApplyTrends(store *graph.Store, source Source, table TrendTable) (Summary, error) {
	timer := logging.StartTimer(b.logger, "source built", logging.Source(source.Name))
	nodesBefore, edgesBefore := store.NodeCount(), store.EdgeCount()

	keywords := make([]string, 0, len(table.Keywords))
	seen := make(map[string]struct{}, len(table.Keywords))
	for _, raw := range table.Keywords {
		label := b.canon.Canonical(raw)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		keywords = append(keywords, label)
	}

	if len(keywords) > b.maxKeywords {
		err := graph.NewError("ApplyTrends").Entity("table").
			Context("%d keywords, limit %d", len(keywords), b.maxKeywords).
			Cause(graph.ErrTooManyKeywords).Err()
		timer.EndError(err)
		return Summary{Source: source.Name}, err
	}
	b.metrics.SetTrendKeywords(source.Name, len(keywords))

	if table.SkippedRows > 0 {
		b.logger.Warn("trend rows skipped",
			logging.Source(source.Name),
			logging.Count(table.SkippedRows),
		)
	}

	for _, kw := range keywords {
		if _, err := store.AddNode(kw, graph.CategoryKeyword); err != nil {
			return Summary{Source: source.Name}, err
		}
	}
	for i := 0; i < len(keywords); i++ {
		for j := i + 1; j < len(keywords); j++ {
			if err := store.AddEdge(keywords[i], keywords[j], graph.RelationCoTrend); err != nil {
				return Summary{Source: source.Name}, err
			}
		}
	}

	summary := Summary{
		Source:     source.Name,
		Records:    len(table.Rows),
		Skipped:    table.SkippedRows,
		NodesAdded: store.NodeCount() - nodesBefore,
		EdgesAdded: store.EdgeCount() - edgesBefore,
	}
	elapsed := timer.End(
		logging.Int("keywords", len(keywords)),
		logging.Int("edges_added", summary.EdgesAdded),
	)
	b.metrics.RecordSourceRecords(source.Name, summary.Records, summary.Skipped, elapsed)
	return summary, nil
}
