package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dd0wney/trendgraph/pkg/logging"
	"github.com/dd0wney/trendgraph/pkg/visualization"
)

func newVisualizeCmd(a *app) *cobra.Command {
	var outPath, algorithm string
	var seed int64
	var iterations int

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Lay out the saved graph and write the scene JSON",
		Long: `Compute a force-directed layout and a greedy-modularity community
partition, then write a scene file (positions, communities, colours and sizes)
for an external renderer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadGraph()
			if err != nil {
				return err
			}

			layout := a.cfg.VisualizationLayout()
			if algorithm != "" {
				layout.Algorithm = algorithm
			}
			if cmd.Flags().Changed("seed") {
				layout.Seed = seed
			}
			if iterations > 0 {
				layout.Iterations = iterations
			}

			scene, err := visualization.BuildScene(store, layout, visualization.Options{
				Logger:  a.logger.With(logging.Operation("visualize")),
				Metrics: a.metrics,
			})
			if err != nil {
				return err
			}
			data, err := scene.ExportJSON()
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = a.cfg.ScenePath()
			}
			if outPath == "-" {
				_, err := a.out.Write(append(data, '\n'))
				return err
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
				return fmt.Errorf("failed to create scene directory: %w", err)
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write scene: %w", err)
			}
			a.logger.Info("scene written", logging.Path(outPath))

			if a.jsonOutput {
				return writeJSON(a.out, map[string]any{
					"scene_file":  outPath,
					"nodes":       len(scene.Nodes),
					"communities": len(scene.Communities),
					"modularity":  scene.Modularity,
				})
			}
			fmt.Fprintln(a.out, section("Scene", kv(
				[2]string{"file", outPath},
				[2]string{"nodes", fmt.Sprint(len(scene.Nodes))},
				[2]string{"communities", fmt.Sprint(len(scene.Communities))},
				[2]string{"modularity", fmt.Sprintf("%.4f", scene.Modularity)},
			)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Scene file (default scene_file; - for stdout)")
	cmd.Flags().StringVar(&algorithm, "layout", "", "Layout algorithm: force or circular")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Layout seed")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Layout iterations")
	return cmd
}
