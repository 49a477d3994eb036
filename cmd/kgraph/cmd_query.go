package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/trendgraph/pkg/algorithms"
	"github.com/dd0wney/trendgraph/pkg/graph"
)

func newQueryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query a saved graph",
		Long: `Load the graph file and answer traversal and ranking queries.

Node arguments go through the same canonicalisation as ingestion, so
"AI" finds "artificial intelligence".

Examples:
  kgraph query bfs "machine learning"
  kgraph query top --k 5
  kgraph query path ai blockchain
  kgraph query khop rust --hops 2
  kgraph query stats`,
	}

	cmd.AddCommand(newQueryBFSCmd(a))
	cmd.AddCommand(newQueryTopCmd(a))
	cmd.AddCommand(newQueryPathCmd(a))
	cmd.AddCommand(newQueryKHopCmd(a))
	cmd.AddCommand(newQueryStatsCmd(a))
	return cmd
}

// engine loads the graph and wraps it in a query engine.
func (a *app) engine() (*algorithms.Engine, error) {
	store, err := a.loadGraph()
	if err != nil {
		return nil, err
	}
	return algorithms.NewEngine(store, algorithms.Options{Logger: a.logger, Metrics: a.metrics}), nil
}

func newQueryBFSCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bfs NODE",
		Short: "List nodes reachable from NODE in breadth-first order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			start := a.canonicalizer().Canonical(args[0])
			order, err := engine.BreadthFirstReachable(start)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return writeJSON(a.out, map[string]any{"start": start, "order": order})
			}
			fmt.Fprintln(a.out, section(fmt.Sprintf("Reachable from %q (%d)", start, len(order)), numbered(order)))
			return nil
		},
	}
}

func newQueryTopCmd(a *app) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank nodes by degree centrality",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("k") {
				k = a.cfg.TopK
			}
			ranked, err := engine.TopCentralNodes(k)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return writeJSON(a.out, ranked)
			}
			rows := make([][2]string, len(ranked))
			for i, r := range ranked {
				rows[i] = [2]string{r.Label, fmt.Sprintf("%.4f", r.Score)}
			}
			fmt.Fprintln(a.out, section(fmt.Sprintf("Top %d by degree centrality", len(ranked)), kv(rows...)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", algorithms.DefaultTopK, "Number of nodes to return")
	return cmd
}

func newQueryPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path FROM TO",
		Short: "Find a fewest-hops path between two nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			canon := a.canonicalizer()
			from, to := canon.Canonical(args[0]), canon.Canonical(args[1])
			path, err := engine.ShortestPath(from, to)
			if err != nil {
				if graph.IsNoPath(err) {
					return fmt.Errorf("%q and %q are not connected: %w", from, to, err)
				}
				return err
			}
			if a.jsonOutput {
				return writeJSON(a.out, map[string]any{"from": from, "to": to, "hops": len(path) - 1, "path": path})
			}
			fmt.Fprintln(a.out, section(fmt.Sprintf("Path (%d hops)", len(path)-1), strings.Join(path, " → ")))
			return nil
		},
	}
}

func newQueryKHopCmd(a *app) *cobra.Command {
	var hops, limit int
	var relations []string
	cmd := &cobra.Command{
		Use:   "khop NODE",
		Short: "List nodes within a number of hops of NODE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := algorithms.KHopOptions{MaxHops: hops, MaxResults: limit}
			for _, r := range relations {
				rel, err := graph.ParseRelation(r)
				if err != nil {
					return err
				}
				opts.Relations = append(opts.Relations, rel)
			}

			engine, err := a.engine()
			if err != nil {
				return err
			}
			source := a.canonicalizer().Canonical(args[0])
			result, err := engine.KHopNeighbours(source, opts)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return writeJSON(a.out, result)
			}

			distances := make([]int, 0, len(result.ByHop))
			for d := range result.ByHop {
				distances = append(distances, d)
			}
			sort.Ints(distances)
			rows := make([][2]string, 0, len(distances))
			for _, d := range distances {
				rows = append(rows, [2]string{fmt.Sprintf("hop %d", d), strings.Join(result.ByHop[d], ", ")})
			}
			fmt.Fprintln(a.out, section(fmt.Sprintf("Within %d hops of %q (%d)", hops, source, result.TotalReachable), kv(rows...)))
			return nil
		},
	}
	cmd.Flags().IntVar(&hops, "hops", 2, "Maximum hop distance")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum nodes to return (0 = unlimited)")
	cmd.Flags().StringSliceVar(&relations, "relation", nil, "Only follow these relations (repeatable)")
	return cmd
}

type statsResult struct {
	graph.Stats
	Components        int     `json:"components"`
	LargestComponent  int     `json:"largest_component"`
	AverageClustering float64 `json:"average_clustering"`
}

func newQueryStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise the graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			components := engine.ConnectedComponents()
			result := statsResult{
				Stats:             engine.Graph().Stats(),
				Components:        len(components.Components),
				AverageClustering: algorithms.AverageClusteringCoefficient(engine.Graph()),
			}
			if largest := components.Largest(); largest != nil {
				result.LargestComponent = largest.Size
			}
			if a.jsonOutput {
				return writeJSON(a.out, result)
			}
			fmt.Fprintln(a.out, renderStats(result))
			return nil
		},
	}
}

func renderStats(r statsResult) string {
	summary := kv(
		[2]string{"nodes", fmt.Sprint(r.Nodes)},
		[2]string{"edges", fmt.Sprint(r.Edges)},
		[2]string{"components", fmt.Sprint(r.Components)},
		[2]string{"largest component", fmt.Sprint(r.LargestComponent)},
		[2]string{"avg clustering", fmt.Sprintf("%.4f", r.AverageClustering)},
	)

	categories := make([][2]string, 0, len(r.ByCategory))
	for _, c := range sortedKeys(r.ByCategory) {
		categories = append(categories, [2]string{string(c), fmt.Sprint(r.ByCategory[c])})
	}
	relations := make([][2]string, 0, len(r.ByRelation))
	for _, rel := range sortedKeys(r.ByRelation) {
		relations = append(relations, [2]string{string(rel), fmt.Sprint(r.ByRelation[rel])})
	}

	return strings.Join([]string{
		section("Graph", summary),
		section("Nodes by category", kv(categories...)),
		section("Edges by relation", kv(relations...)),
	}, "\n")
}

func sortedKeys[K ~string](m map[K]int) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// numbered renders items as a numbered list.
func numbered(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = mutedStyle.Render(fmt.Sprintf("%3d.", i+1)) + " " + item
	}
	return strings.Join(lines, "\n")
}
