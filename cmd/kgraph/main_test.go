package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

const testConfig = `data_dir: %s
graph_file: graph.gexf
scene_file: out/scene.json
log_level: debug
sources:
  - name: google_trends
    kind: trends
    path: trends.csv
  - name: reddit
    kind: records
    path: reddit.csv
  - name: news
    kind: records
    path: news.jsonl
layout:
  iterations: 20
  seed: 7
`

// setupWorkspace writes a config and three small sources into a temp dir.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	files := map[string]string{
		"trends.csv": "date,AI,Cloud,Blockchain,isPartial\n2024-01-01,1,2,3,False\n",
		"reddit.csv": "title,keywords,subreddit\nLLM evals,\"benchmarks,evaluation\",MachineLearning\n",
		"news.jsonl": `{"title":"Chip export rules","entities":["Nvidia","TSMC"]}` + "\n",
		"kgraph.yaml": strings.Replace(testConfig, "%s", dir, 1),
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return filepath.Join(dir, "kgraph.yaml")
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := execute(args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestBuildQueryVisualize(t *testing.T) {
	cfgPath := setupWorkspace(t)
	dir := filepath.Dir(cfgPath)

	out, logs, err := run(t, "-c", cfgPath, "--json", "build")
	require.NoError(t, err, logs)

	var built buildResult
	require.NoError(t, json.Unmarshal([]byte(out), &built))
	assert.Equal(t, filepath.Join(dir, "graph.gexf"), built.GraphFile)
	assert.Equal(t, 10, built.Stats.Nodes)
	assert.Equal(t, 8, built.Stats.Edges)
	require.Len(t, built.Sources, 3)
	assert.Equal(t, "google_trends", built.Sources[0].Source)
	assert.NotEmpty(t, built.RunID)
	assert.Contains(t, logs, `"msg":"graph built"`)
	assert.FileExists(t, built.GraphFile)

	t.Run("path uses synonyms", func(t *testing.T) {
		out, _, err := run(t, "-c", cfgPath, "--json", "query", "path", "Cloud", "blockchain")
		require.NoError(t, err)
		var res struct {
			From string   `json:"from"`
			Hops int      `json:"hops"`
			Path []string `json:"path"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, "cloud computing", res.From)
		assert.Equal(t, 1, res.Hops)
		assert.Equal(t, []string{"cloud computing", "blockchain"}, res.Path)
	})

	t.Run("path between components", func(t *testing.T) {
		_, _, err := run(t, "-c", cfgPath, "query", "path", "ai", "nvidia")
		require.Error(t, err)
		assert.True(t, graph.IsNoPath(err))
	})

	t.Run("bfs unknown node", func(t *testing.T) {
		_, _, err := run(t, "-c", cfgPath, "query", "bfs", "quantum")
		require.Error(t, err)
		assert.True(t, graph.IsNotFound(err))
	})

	t.Run("top", func(t *testing.T) {
		out, _, err := run(t, "-c", cfgPath, "--json", "query", "top", "--k", "1")
		require.NoError(t, err)
		var ranked []struct {
			Label string  `json:"label"`
			Score float64 `json:"score"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &ranked))
		require.Len(t, ranked, 1)
		assert.Equal(t, "llm evals", ranked[0].Label)
		assert.InDelta(t, 3.0/9.0, ranked[0].Score, 1e-9)
	})

	t.Run("stats", func(t *testing.T) {
		out, _, err := run(t, "-c", cfgPath, "--json", "query", "stats")
		require.NoError(t, err)
		var res statsResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, 3, res.Components)
		assert.Equal(t, 4, res.LargestComponent)
		assert.Equal(t, 3, res.ByRelation[graph.RelationCoTrend])
	})

	t.Run("text output", func(t *testing.T) {
		out, _, err := run(t, "-c", cfgPath, "query", "khop", "artificial intelligence", "--hops", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "blockchain")
		assert.Contains(t, out, "cloud computing")
	})

	t.Run("visualize", func(t *testing.T) {
		_, _, err := run(t, "-c", cfgPath, "visualize")
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "out", "scene.json"))
		require.NoError(t, err)
		var scene struct {
			Nodes []struct {
				Label string  `json:"label"`
				X     float64 `json:"x"`
				Y     float64 `json:"y"`
			} `json:"nodes"`
			Communities []json.RawMessage `json:"communities"`
		}
		require.NoError(t, json.Unmarshal(data, &scene))
		assert.Len(t, scene.Nodes, 10)
		assert.NotEmpty(t, scene.Communities)

		again, _, err := run(t, "-c", cfgPath, "visualize", "-o", "-")
		require.NoError(t, err)
		assert.JSONEq(t, string(data), again, "same seed must give the same scene")
	})
}

func TestCompressedGraph(t *testing.T) {
	cfgPath := setupWorkspace(t)
	graphPath := filepath.Join(filepath.Dir(cfgPath), "graph.gexf.sz")

	_, _, err := run(t, "-c", cfgPath, "-g", graphPath, "build")
	require.NoError(t, err)

	out, _, err := run(t, "-c", cfgPath, "-g", graphPath, "--json", "query", "bfs", "tsmc")
	require.NoError(t, err)
	assert.Contains(t, out, "chip export rules")
}

func TestBuildSelectedSources(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, _, err := run(t, "-c", cfgPath, "--json", "build", "--source", "news")
	require.NoError(t, err)
	var built buildResult
	require.NoError(t, json.Unmarshal([]byte(out), &built))
	assert.Equal(t, 3, built.Stats.Nodes)

	_, _, err = run(t, "-c", cfgPath, "build", "--source", "nope")
	assert.ErrorContains(t, err, "unknown source(s): nope")
}

func TestMissingGraph(t *testing.T) {
	cfgPath := setupWorkspace(t)
	_, _, err := run(t, "-c", cfgPath, "query", "stats")
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrFileNotFound)
}

func TestMissingSourceFailsBuild(t *testing.T) {
	cfgPath := setupWorkspace(t)
	require.NoError(t, os.Remove(filepath.Join(filepath.Dir(cfgPath), "reddit.csv")))

	_, _, err := run(t, "-c", cfgPath, "build")
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrFileNotFound)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(cfgPath), "graph.gexf"))
}

func TestMetricsFile(t *testing.T) {
	cfgPath := setupWorkspace(t)
	dir := t.TempDir()
	readMetrics := func(name string) string {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(data)
	}

	_, _, err := run(t, "-c", cfgPath, "build", "--metrics-file", filepath.Join(dir, "build.prom"))
	require.NoError(t, err)
	assert.Contains(t, readMetrics("build.prom"), "kgraph_graph_nodes 10")

	_, _, err = run(t, "-c", cfgPath, "query", "top", "--metrics-file", filepath.Join(dir, "query.prom"))
	require.NoError(t, err)
	assert.Contains(t, readMetrics("query.prom"), `kgraph_queries_total{query_type="top",status="ok"} 1`)

	_, _, err = run(t, "-c", cfgPath, "--metrics-file", filepath.Join(dir, "failed.prom"), "query", "path", "ai", "nvidia")
	require.Error(t, err)
	assert.Contains(t, readMetrics("failed.prom"), `kgraph_queries_total{query_type="path",status="error"} 1`)

	_, _, err = run(t, "-c", cfgPath, "visualize", "-o", "-", "--metrics-file", filepath.Join(dir, "layout.prom"))
	require.NoError(t, err)
	assert.Contains(t, readMetrics("layout.prom"), "kgraph_layout_duration_seconds_count 1")
}
