package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/physnodes/internal/analysis"
	"github.com/san-kum/physnodes/internal/render"
	"github.com/san-kum/physnodes/internal/storage"
	"github.com/san-kum/physnodes/internal/tracking"
	"github.com/spf13/cobra"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadRun opens the store and reads a run's metadata and tracking points.
func loadRun(runID string) (*storage.RunMetadata, tracking.Points, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	points, err := st.LoadPoints(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, points, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	defer st.Close()

	runs, err := st.List(commandContext(cmd), sceneFilter)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tFRAMES\tDT\tSIZE\tTRACKED\tRENDERED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%dx%d\t%d\t%v\n",
			run.ID,
			run.Scene,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dt,
			run.Width, run.Height,
			run.Tracked,
			run.Rendered,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, points, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if len(points) == 0 || points.Frames() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("frames: %d\n\n", points.Frames())

	for i := range points {
		if shapeIdx >= 0 && i != shapeIdx {
			continue
		}
		if len(points[i]) < 2 {
			continue
		}

		// plot height above the frame bottom so falling reads downwards
		ys := points.Axis(i, 1)
		for j := range ys {
			ys[j] = float64(meta.Height) - ys[j]
		}

		for _, series := range []struct {
			data    []float64
			caption string
		}{
			{points.Axis(i, 0), fmt.Sprintf("shape %d x", i)},
			{ys, fmt.Sprintf("shape %d height", i)},
		} {
			graph := asciigraph.Plot(series.data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(series.caption),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, points, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Scene)

	stats := analysis.Summarize(points, meta.Dt, restEps)
	if len(stats) == 0 {
		fmt.Println("no tracked shapes")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHAPE\tPATH\tDISPLACEMENT\tMAX SPEED\tMEAN SPEED\tREST\tBOUNCE")
	for _, s := range stats {
		rest := "moving"
		if s.RestFrame >= 0 {
			rest = fmt.Sprintf("frame %d", s.RestFrame)
		}
		bounce := "-"
		if s.BounceHz > 0 {
			bounce = fmt.Sprintf("%.3f hz", s.BounceHz)
		}
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.2f px/s\t%.2f px/s\t%s\t%s\n",
			s.Shape, s.PathLength, s.Displacement, s.MaxSpeed, s.MeanSpeed, rest, bounce)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, s := range stats {
		if s.Frames < 4 {
			continue
		}
		ps := analysis.PowerSpectrum(points.Axis(s.Shape, 1))
		if len(ps) < 2 {
			continue
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(ps[1:],
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("shape %d vertical spectrum", s.Shape)),
		))
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, points, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return points.WriteCSV(os.Stdout)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, points, err := loadRun(args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(os.Stdout, render.TracksSVG(points, meta.Width, meta.Height))
	return err
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	defer st.Close()
	if err := st.Delete(commandContext(cmd), args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func reindexRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	defer st.Close()
	n, err := st.Reindex(commandContext(cmd))
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d runs\n", n)
	return nil
}
