package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/trendgraph/pkg/gexf"
	"github.com/dd0wney/trendgraph/pkg/graph"
	"github.com/dd0wney/trendgraph/pkg/ingest"
	"github.com/dd0wney/trendgraph/pkg/logging"
)

type buildResult struct {
	RunID     string           `json:"run_id"`
	GraphFile string           `json:"graph_file"`
	Sources   []ingest.Summary `json:"sources"`
	Stats     graph.Stats      `json:"stats"`
}

func newBuildCmd(a *app) *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the graph from the configured sources and save it",
		Long: `Read every configured source, build one graph per source in parallel,
merge them in configuration order and write the result to the graph file.

Malformed records are logged and skipped. A missing or unreadable source
file aborts the build.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd, only)
		},
	}

	cmd.Flags().StringSliceVar(&only, "source", nil, "Build only the named sources (repeatable)")
	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, only []string) error {
	sources, err := selectSources(a.cfg.IngestSources(), only)
	if err != nil {
		return err
	}

	logger := a.logger.With(logging.Operation("build"))
	builder := ingest.NewBuilder(ingest.Options{
		Logger:           logger,
		Metrics:          a.metrics,
		Canonicalizer:    a.canonicalizer(),
		MaxTrendKeywords: a.cfg.MaxTrendKeywords,
	})

	store, summaries, err := ingest.BuildAll(cmd.Context(), sources, builder)
	if err != nil {
		return err
	}

	path := a.graphFile()
	meta := gexf.Meta{Creator: creator, RunID: a.runID, LastModified: time.Now()}
	if err := gexf.Save(store, path, meta); err != nil {
		return err
	}
	logger.Info("graph saved", logging.Path(path))

	result := buildResult{RunID: a.runID, GraphFile: path, Sources: summaries, Stats: store.Stats()}
	if a.jsonOutput {
		return writeJSON(a.out, result)
	}
	fmt.Fprintln(a.out, renderBuild(result))
	return nil
}

// selectSources keeps the sources named in only, in configuration order.
func selectSources(all []ingest.Source, only []string) ([]ingest.Source, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("no sources configured")
	}
	if len(only) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[name] = true
	}
	selected := make([]ingest.Source, 0, len(only))
	for _, s := range all {
		if wanted[s.Name] {
			selected = append(selected, s)
			delete(wanted, s.Name)
		}
	}
	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for _, name := range only {
			if wanted[name] {
				missing = append(missing, name)
			}
		}
		return nil, fmt.Errorf("unknown source(s): %s", strings.Join(missing, ", "))
	}
	return selected, nil
}

func renderBuild(r buildResult) string {
	rows := make([][2]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		rows = append(rows, [2]string{s.Source, fmt.Sprintf("%d records, %d skipped, +%d nodes, +%d edges",
			s.Records, s.Skipped, s.NodesAdded, s.EdgesAdded)})
	}

	var b strings.Builder
	b.WriteString(section("Sources", kv(rows...)))
	b.WriteString("\n")
	b.WriteString(section("Graph", kv(
		[2]string{"file", r.GraphFile},
		[2]string{"nodes", fmt.Sprint(r.Stats.Nodes)},
		[2]string{"edges", fmt.Sprint(r.Stats.Edges)},
	)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("run " + r.RunID))
	return b.String()
}
