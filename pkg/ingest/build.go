package ingest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/trendgraph/pkg/graph"
	"github.com/dd0wney/trendgraph/pkg/logging"
)

// BuildSource reads one source file and applies it to a fresh store.
func (b *Builder) BuildSource(src Source) (*graph.Store, Summary, error) {
	store := graph.NewStore()

	switch src.Kind {
	case KindTrends:
		table, err := ReadTrendsFile(src, b.statusCols)
		if err != nil {
			return nil, Summary{Source: src.Name}, err
		}
		summary, err := b.ApplyTrends(store, src, table)
		if err != nil {
			return nil, summary, err
		}
		return store, summary, nil

	case KindRecords, "":
		records, err := ReadRecordsFile(src)
		if err != nil {
			return nil, Summary{Source: src.Name}, err
		}
		return store, b.ApplyRecords(store, src, records), nil

	default:
		return nil, Summary{Source: src.Name}, fmt.Errorf("source %s: unknown kind %q", src.Name, src.Kind)
	}
}

// BuildAll builds every source into its own store in parallel, then merges
// the stores into one in the order sources were given. The first failing
// source cancels the rest and its error is returned.
func BuildAll(ctx context.Context, sources []Source, b *Builder) (*graph.Store, []Summary, error) {
	stores := make([]*graph.Store, len(sources))
	summaries := make([]Summary, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			store, summary, err := b.BuildSource(src)
			if err != nil {
				b.logger.Error("source failed", logging.Source(src.Name), logging.Path(src.Path), logging.Error(err))
				return err
			}
			stores[i], summaries[i] = store, summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	merged := graph.NewStore()
	for i, store := range stores {
		if err := graph.Merge(merged, store); err != nil {
			return nil, nil, fmt.Errorf("merge %s: %w", sources[i].Name, err)
		}
	}

	stats := merged.Stats()
	byRelation := make(map[string]int, len(stats.ByRelation))
	for rel, n := range stats.ByRelation {
		byRelation[string(rel)] = n
	}
	b.metrics.UpdateGraphSize(stats.Nodes, stats.Edges, byRelation)
	b.logger.Info("graph built",
		logging.Int("sources", len(sources)),
		logging.Int("nodes", stats.Nodes),
		logging.Int("edges", stats.Edges),
	)
	return merged, summaries, nil
}
