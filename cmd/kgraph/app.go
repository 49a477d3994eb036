package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dd0wney/trendgraph/pkg/config"
	"github.com/dd0wney/trendgraph/pkg/gexf"
	"github.com/dd0wney/trendgraph/pkg/graph"
	"github.com/dd0wney/trendgraph/pkg/logging"
	"github.com/dd0wney/trendgraph/pkg/metrics"
)

const creator = "kgraph"

// app holds global flags and the collaborators of one command run.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath  string
	graphPath   string
	logLevel    string
	logFile     string
	metricsFile string
	jsonOutput  bool

	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	runID   string
	closers []io.Closer
}

// execute runs one kgraph invocation. The metrics file is written and the
// log file closed whether or not the command succeeds.
func execute(args []string, out, errOut io.Writer) error {
	a := &app{out: out, errOut: errOut}
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	if terr := a.teardown(); terr != nil {
		return errors.Join(err, terr)
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kgraph",
		Short: "Build, query and lay out a multi-source trend knowledge graph",
		Long: `kgraph fuses normalised trend tables, forum posts, news items and other
short records into one undirected graph, persisted as GEXF.

Configuration comes from --config (YAML), a .env file and KGRAPH_* variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	flags.StringVarP(&a.graphPath, "graph", "g", "", "Graph file (overrides graph_file); .sz selects snappy compression")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.logFile, "log-file", "", "Write JSON logs to this file instead of stderr")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus text metrics to this file when the command ends")
	flags.BoolVar(&a.jsonOutput, "json", false, "Print machine-readable JSON")

	root.AddCommand(newBuildCmd(a))
	root.AddCommand(newQueryCmd(a))
	root.AddCommand(newVisualizeCmd(a))
	return root
}

// setup loads configuration and creates the run-scoped logger and metrics.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFile != "" {
		cfg.LogFile = a.logFile
	}
	a.cfg = cfg
	a.runID = uuid.NewString()
	a.metrics = metrics.NewRegistry()

	var base logging.Logger
	if cfg.LogFile != "" {
		fileLogger, closer, err := logging.OpenFile(cfg.Resolve(cfg.LogFile), cfg.Level())
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.closers = append(a.closers, closer)
		base = fileLogger
	} else {
		base = logging.NewJSONLogger(a.errOut, cfg.Level())
	}
	a.logger = base.With(logging.RunID(a.runID))
	return nil
}

// teardown exports metrics and closes files opened by setup.
func (a *app) teardown() error {
	var errs []error
	if a.metricsFile != "" && a.metrics != nil {
		if err := a.metrics.WriteTextfile(a.metricsFile); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// graphFile is the graph path from --graph or configuration.
func (a *app) graphFile() string {
	if a.graphPath != "" {
		return a.graphPath
	}
	return a.cfg.GraphPath()
}

// loadGraph reads the graph file and records its size.
func (a *app) loadGraph() (*graph.Store, error) {
	path := a.graphFile()
	timer := logging.StartTimer(a.logger, "graph loaded", logging.Path(path))
	store, meta, err := gexf.Load(path)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	timer.End(
		logging.Int("nodes", store.NodeCount()),
		logging.Int("edges", store.EdgeCount()),
		logging.String("built_by_run", meta.RunID),
	)
	stats := store.Stats()
	a.metrics.UpdateGraphSize(stats.Nodes, stats.Edges, relationCounts(stats))
	return store, nil
}

// canonicalizer applies the configured synonyms to user input.
func (a *app) canonicalizer() *graph.Canonicalizer {
	return graph.NewCanonicalizer(a.cfg.Synonyms)
}

func relationCounts(stats graph.Stats) map[string]int {
	out := make(map[string]int, len(stats.ByRelation))
	for rel, n := range stats.ByRelation {
		out[string(rel)] = n
	}
	return out
}
