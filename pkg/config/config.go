// Package config loads kgraph run configuration from a YAML file, a .env
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/trendgraph/pkg/ingest"
	"github.com/dd0wney/trendgraph/pkg/logging"
	"github.com/dd0wney/trendgraph/pkg/visualization"
)

// Environment variables that override file settings.
const (
	EnvDataDir    = "KGRAPH_DATA_DIR"
	EnvGraphFile  = "KGRAPH_GRAPH_FILE"
	EnvLogLevel   = "KGRAPH_LOG_LEVEL"
	EnvLayoutSeed = "KGRAPH_LAYOUT_SEED"
)

// Config is one kgraph run's settings.
type Config struct {
	DataDir          string            `yaml:"data_dir" validate:"required"`
	GraphFile        string            `yaml:"graph_file" validate:"required"`
	SceneFile        string            `yaml:"scene_file" validate:"required"`
	LogLevel         string            `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFile          string            `yaml:"log_file"`
	Sources          []SourceConfig    `yaml:"sources" validate:"dive"`
	Synonyms         map[string]string `yaml:"synonyms"`
	MaxTrendKeywords int               `yaml:"max_trend_keywords" validate:"min=1,max=1000"`
	TopK             int               `yaml:"top_k" validate:"min=1"`
	Layout           LayoutConfig      `yaml:"layout"`
}

// SourceConfig names one normalised input file.
type SourceConfig struct {
	Name string `yaml:"name" validate:"required"`
	Kind string `yaml:"kind" validate:"required,oneof=records trends"`
	Path string `yaml:"path" validate:"required"`
}

// LayoutConfig mirrors visualization.LayoutConfig for YAML.
type LayoutConfig struct {
	Algorithm  string  `yaml:"algorithm" validate:"omitempty,oneof=force circular"`
	Iterations int     `yaml:"iterations" validate:"min=1,max=100000"`
	Strength   float64 `yaml:"strength" validate:"gt=0"`
	Seed       int64   `yaml:"seed"`
	Width      float64 `yaml:"width" validate:"gt=0"`
	Height     float64 `yaml:"height" validate:"gt=0"`
	Padding    float64 `yaml:"padding" validate:"min=0"`
}

// Default returns the configuration of the stock pipeline: a trend table and
// a Reddit export under data/processed.
func Default() *Config {
	layout := visualization.DefaultLayoutConfig()
	return &Config{
		DataDir:   "data/processed",
		GraphFile: "knowledge_graph.gexf",
		SceneFile: "scene.json",
		LogLevel:  "info",
		Sources: []SourceConfig{
			{Name: "google_trends", Kind: string(ingest.KindTrends), Path: "processed_google_trends.csv"},
			{Name: "reddit", Kind: string(ingest.KindRecords), Path: "processed_reddit.csv"},
		},
		MaxTrendKeywords: ingest.DefaultMaxTrendKeywords,
		TopK:             10,
		Layout: LayoutConfig{
			Algorithm:  layout.Algorithm,
			Iterations: layout.Iterations,
			Strength:   layout.Strength,
			Seed:       layout.Seed,
			Width:      layout.Width,
			Height:     layout.Height,
			Padding:    layout.Padding,
		},
	}
}

// Load builds a Config from Default, the YAML file at path (skipped when
// path is empty), a .env file in the working directory if one exists, and
// KGRAPH_* environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvGraphFile); v != "" {
		c.GraphFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLayoutSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid seed %q: %w", EnvLayoutSeed, v, err)
		}
		c.Layout.Seed = seed
	}
	return nil
}

// Resolve returns p unchanged if absolute, otherwise joined to DataDir.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// GraphPath is the resolved graph file path.
func (c *Config) GraphPath() string { return c.Resolve(c.GraphFile) }

// ScenePath is the resolved scene file path.
func (c *Config) ScenePath() string { return c.Resolve(c.SceneFile) }

// IngestSources converts the configured sources, resolving their paths.
func (c *Config) IngestSources() []ingest.Source {
	sources := make([]ingest.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		sources = append(sources, ingest.Source{
			Name: s.Name,
			Kind: ingest.SourceKind(s.Kind),
			Path: c.Resolve(s.Path),
		})
	}
	return sources
}

// Level is the parsed log level.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// VisualizationLayout converts the layout section.
func (c *Config) VisualizationLayout() visualization.LayoutConfig {
	return visualization.LayoutConfig{
		Algorithm:  c.Layout.Algorithm,
		Iterations: c.Layout.Iterations,
		Strength:   c.Layout.Strength,
		Seed:       c.Layout.Seed,
		Width:      c.Layout.Width,
		Height:     c.Layout.Height,
		Padding:    c.Layout.Padding,
	}
}
