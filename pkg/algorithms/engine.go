package algorithms

import (
	"github.com/dd0wney/trendgraph/pkg/graph"
	"github.com/dd0wney/trendgraph/pkg/logging"
	"github.com/dd0wney/trendgraph/pkg/metrics"
)

// Query types reported in logs and metrics.
const (
	QueryBFS        = "bfs"
	QueryTop        = "top"
	QueryPath       = "path"
	QueryKHop       = "khop"
	QueryComponents = "components"
)

// Options configures an Engine.
type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Engine runs queries against one loaded graph, logging and timing each.
type Engine struct {
	graph   *graph.Store
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewEngine creates an engine over g.
func NewEngine(g *graph.Store, opts Options) *Engine {
	return &Engine{
		graph:   g,
		logger:  logging.OrNop(opts.Logger).With(logging.Component("query")),
		metrics: opts.Metrics,
	}
}

// Graph returns the graph the engine queries.
func (e *Engine) Graph() *graph.Store {
	return e.graph
}

func (e *Engine) observe(queryType string, timer *logging.TimedOperation, results int, err error) {
	if err != nil {
		e.metrics.RecordQuery(queryType, metrics.StatusError, timer.EndError(err), 0)
		return
	}
	e.metrics.RecordQuery(queryType, metrics.StatusOK, timer.End(logging.Count(results)), results)
}

// BreadthFirstReachable runs BreadthFirstReachable on the engine's graph.
func (e *Engine) BreadthFirstReachable(start string) ([]string, error) {
	timer := logging.StartTimer(e.logger, "query", logging.Operation(QueryBFS), logging.Label(start))
	order, err := BreadthFirstReachable(e.graph, start)
	e.observe(QueryBFS, timer, len(order), err)
	return order, err
}

// TopCentralNodes runs TopCentralNodes on the engine's graph.
func (e *Engine) TopCentralNodes(k int) ([]RankedNode, error) {
	timer := logging.StartTimer(e.logger, "query", logging.Operation(QueryTop), logging.Int("k", k))
	ranked, err := TopCentralNodes(e.graph, k)
	e.observe(QueryTop, timer, len(ranked), err)
	return ranked, err
}

// ShortestPath runs ShortestPath on the engine's graph.
func (e *Engine) ShortestPath(start, end string) ([]string, error) {
	timer := logging.StartTimer(e.logger, "query",
		logging.Operation(QueryPath),
		logging.String("from", start),
		logging.String("to", end),
	)
	path, err := ShortestPath(e.graph, start, end)
	e.observe(QueryPath, timer, len(path), err)
	return path, err
}

// KHopNeighbours runs KHopNeighbours on the engine's graph.
func (e *Engine) KHopNeighbours(source string, opts KHopOptions) (*KHopResult, error) {
	timer := logging.StartTimer(e.logger, "query",
		logging.Operation(QueryKHop),
		logging.Label(source),
		logging.Int("max_hops", opts.MaxHops),
	)
	result, err := KHopNeighbours(e.graph, source, opts)
	n := 0
	if result != nil {
		n = result.TotalReachable
	}
	e.observe(QueryKHop, timer, n, err)
	return result, err
}

// ConnectedComponents runs ConnectedComponents on the engine's graph.
func (e *Engine) ConnectedComponents() *ComponentResult {
	timer := logging.StartTimer(e.logger, "query", logging.Operation(QueryComponents))
	result := ConnectedComponents(e.graph)
	e.observe(QueryComponents, timer, len(result.Components), nil)
	return result
}
