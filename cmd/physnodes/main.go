package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dataDir string
	verbose bool
	logger  = zap.NewNop()

	// scene selection and overrides
	preset   string
	dt       float64
	frames   int
	width    int
	height   int
	gravityX float64
	gravityY float64

	// output
	noSave  bool
	jsonOut bool
	outDir  string
	gifPath string

	// run queries
	sceneFilter string
	shapeIdx    int
	restEps     float64

	// live view
	loop  bool
	theme string

	// sweep
	sweepParams []string
	metricName  string
	maximize    bool
)

// main registers the physnodes commands and executes the root command. It
// exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "physnodes",
		Short: "2d rigid body physics nodes: build scenes, track and render them",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			zcfg.Encoding = "console"
			zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			if verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".physnodes", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scene.yaml ...]",
		Short: "simulate scenes and record tracking points",
		RunE:  runScenes,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save the run")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print tracking points as json")

	renderCmd := &cobra.Command{
		Use:   "render [scene.yaml]",
		Short: "simulate a scene and rasterize every frame",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderScene,
	}
	addSceneFlags(renderCmd)
	renderCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save the run")
	renderCmd.Flags().StringVar(&outDir, "out", "", "also write frame pngs to this directory")
	renderCmd.Flags().StringVar(&gifPath, "gif", "", "also write an animated gif")

	nodesCmd := &cobra.Command{
		Use:   "nodes",
		Short: "describe the available nodes and their slots",
		RunE:  describeNodes,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [scene.yaml]",
		Short: "write a scene file from a preset or the default scene",
		Args:  cobra.ExactArgs(1),
		RunE:  initScene,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "preset to start from")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&sceneFilter, "scene", "", "only runs of this scene")

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot tracked coordinates over frames",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&shapeIdx, "shape", -1, "only this tracked shape")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "path, speed, rest and bounce statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&restEps, "rest-eps", 0, "per-frame displacement below which a shape rests")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write tracking points as csv to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write tracked paths as svg to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	reindexCmd := &cobra.Command{
		Use:   "reindex",
		Short: "rebuild the run catalog from the data directory",
		RunE:  reindexRuns,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scene.yaml]",
		Short: "play a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().BoolVar(&loop, "loop", false, "restart after the last frame")
	liveCmd.Flags().StringVar(&theme, "theme", "mono", "color theme")

	watchCmd := &cobra.Command{
		Use:   "watch [scene.yaml]",
		Short: "re-run a scene file whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE:  watchScene,
	}
	addSceneFlags(watchCmd)
	watchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save runs")
	watchCmd.Flags().StringVar(&gifPath, "gif", "", "render each run to this gif")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene.yaml]",
		Short: "grid search scene parameters against a run metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScene,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "path=v1,v2 or path=start:stop:step (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to optimize")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "maximize the metric instead of minimizing")

	rootCmd.AddCommand(runCmd, renderCmd, nodesCmd, presetsCmd, initCmd, listCmd, showCmd, plotCmd,
		analyzeCmd, exportCSVCmd, exportSVGCmd, deleteCmd, reindexCmd, liveCmd, watchCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in scene")
	cmd.Flags().Float64Var(&dt, "dt", 0.02, "seconds per frame")
	cmd.Flags().IntVar(&frames, "frames", 14, "number of frames")
	cmd.Flags().IntVar(&width, "width", 576, "frame width in pixels")
	cmd.Flags().IntVar(&height, "height", 320, "frame height in pixels")
	cmd.Flags().Float64Var(&gravityX, "gx", 0, "horizontal gravity")
	cmd.Flags().Float64Var(&gravityY, "gy", 9.8, "vertical gravity")
}
