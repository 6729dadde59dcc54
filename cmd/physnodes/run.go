package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/physnodes/internal/config"
	"github.com/san-kum/physnodes/internal/nodes"
	"github.com/san-kum/physnodes/internal/render"
	"github.com/san-kum/physnodes/internal/sim"
	"github.com/spf13/cobra"
)

type runOutcome struct {
	scene   string
	runID   string
	tracked int
	frames  int
	json    string
	metrics map[string]float64
	elapsed time.Duration
}

func runScenes(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{""}
	}

	scenes := make([]*config.Scene, len(paths))
	for i, path := range paths {
		sc, err := loadScene(cmd, path)
		if err != nil {
			return err
		}
		scenes[i] = sc
	}

	ctx := commandContext(cmd)

	outcomes := make([]runOutcome, len(scenes))
	batch := sim.NewBatch()
	for i, sc := range scenes {
		batch.Add(sim.Job{
			Name: sc.Name,
			Run: func(ctx context.Context) error {
				res, err := execute(ctx, newPipeline(), sc, false)
				if err != nil {
					return err
				}
				runID, err := save(ctx, res)
				if err != nil {
					return err
				}
				outcomes[i] = runOutcome{
					scene:   sc.Name,
					runID:   runID,
					tracked: len(res.out.Points),
					frames:  res.out.Points.Frames(),
					json:    res.out.JSON,
					metrics: res.metrics,
					elapsed: res.elapsed,
				}
				return nil
			},
		})
	}

	if batch.Len() > 1 {
		fmt.Fprintf(os.Stderr, "running %d scenes...\n", batch.Len())
	}
	if err := batch.Run(ctx); err != nil {
		return err
	}

	if jsonOut {
		for _, o := range outcomes {
			fmt.Println(o.json)
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tRUN\tTRACKED\tFRAMES\tDRIFT\tIN FRAME\tELAPSED")
	for _, o := range outcomes {
		id := o.runID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4f\t%.3f\t%v\n", o.scene, id, o.tracked, o.frames,
			o.metrics["energy_drift"], o.metrics["in_frame"], o.elapsed.Round(time.Microsecond))
	}
	return w.Flush()
}

func renderScene(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	sc, err := loadScene(cmd, path)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	fmt.Printf("rendering %s (%d frames, %dx%d)...\n", sc.Name, sc.Run.Frames, sc.Run.Width, sc.Run.Height)
	res, err := execute(ctx, newPipeline(), sc, true)
	if err != nil {
		return err
	}
	out := res.out

	if outDir != "" {
		written, err := render.SavePNGs(outDir, out.Frames)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d frames to %s\n", len(written), outDir)
	}
	if gifPath != "" {
		if err := render.SaveGIF(gifPath, out.Frames, render.DelayForDt(sc.Run.Dt)); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", gifPath)
	}

	runID, err := save(ctx, res)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", res.elapsed)
	if runID != "" {
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("frames: %d\n", len(out.Frames))
	fmt.Printf("tracked shapes: %d\n", len(out.Points))
	return nil
}

func describeNodes(cmd *cobra.Command, args []string) error {
	reg := nodes.NewRegistry(logger)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range reg.Names() {
		n, err := reg.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s (%s)\t%s\n", n.Name(), n.Category(), n.Description())
		for _, s := range n.Inputs() {
			fmt.Fprintf(w, "  in\t%s\t%s\t%s\n", s.Name, s.Type, slotNote(s))
		}
		for _, s := range n.Outputs() {
			fmt.Fprintf(w, "  out\t%s\t%s\t\n", s.Name, s.Type)
		}
	}
	return w.Flush()
}

func slotNote(s nodes.Slot) string {
	var parts []string
	if s.Optional {
		parts = append(parts, "optional")
	}
	if s.Default != nil {
		parts = append(parts, fmt.Sprintf("default %v", s.Default))
	}
	if s.HasMin {
		op := ">="
		if s.Exclusive {
			op = ">"
		}
		parts = append(parts, fmt.Sprintf("%s %v", op, s.Min))
	}
	return strings.Join(parts, ", ")
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSHAPES\tFRAMES\tGRAVITY")
	for _, name := range config.ListPresets() {
		sc := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t(%g, %g)\n", name, len(sc.Shapes), sc.Run.Frames, sc.Gravity.X, sc.Gravity.Y)
	}
	return w.Flush()
}

func initScene(cmd *cobra.Command, args []string) error {
	sc := config.DefaultScene()
	if preset != "" {
		sc = config.GetPreset(preset)
		if sc == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(args[0], sc); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
