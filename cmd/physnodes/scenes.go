package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/san-kum/physnodes/internal/config"
	"github.com/san-kum/physnodes/internal/metrics"
	"github.com/san-kum/physnodes/internal/nodes"
	"github.com/san-kum/physnodes/internal/scene"
	"github.com/san-kum/physnodes/internal/sim"
	"github.com/san-kum/physnodes/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadScene resolves the scene for a command: a file when path is set, else
// the preset flag, else the default scene. Flags the user set override the
// loaded values.
func loadScene(cmd *cobra.Command, path string) (*config.Scene, error) {
	var sc *config.Scene
	switch {
	case path != "":
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load scene: %w", err)
		}
		sc = loaded
	case preset != "":
		sc = config.GetPreset(preset)
		if sc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		sc = config.DefaultScene()
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		sc.Run.Dt = dt
	}
	if flags.Changed("frames") {
		sc.Run.Frames = frames
	}
	if flags.Changed("width") {
		sc.Run.Width = width
	}
	if flags.Changed("height") {
		sc.Run.Height = height
	}
	if flags.Changed("gx") {
		sc.Gravity.X = gravityX
	}
	if flags.Changed("gy") {
		sc.Gravity.Y = gravityY
	}

	return sc, sc.Validate()
}

func newPipeline() *scene.Pipeline {
	return scene.New(nodes.NewRegistry(logger), logger)
}

// execute builds sc and tracks it while recording the default metrics, or
// runs it through the Render node when render is set.
func execute(ctx context.Context, p *scene.Pipeline, sc *config.Scene, render bool) (*result, error) {
	start := time.Now()
	b, err := p.Build(ctx, sc)
	if err != nil {
		return nil, err
	}

	res := &result{built: b}
	if render {
		res.out, err = p.Render(ctx, b)
	} else {
		ms := metrics.Defaults(sc.Run.Width, sc.Run.Height)
		obs := make([]sim.Observer, len(ms))
		for i, m := range ms {
			obs[i] = m
		}
		res.out, err = p.Measure(ctx, b, obs...)
		res.metrics = metrics.Collect(ms)
	}
	if err != nil {
		return nil, err
	}
	res.elapsed = time.Since(start)
	return res, nil
}

type result struct {
	built   *scene.Built
	out     *scene.Output
	metrics map[string]float64
	elapsed time.Duration
}

// save stores a finished run unless --no-save was given, returning its id.
func save(ctx context.Context, res *result) (string, error) {
	if noSave {
		return "", nil
	}

	st := storage.New(dataDir)
	defer st.Close()

	sc := res.built.Scene
	meta := storage.RunMetadata{
		Scene:     sc.Name,
		Dt:        sc.Run.Dt,
		Frames:    sc.Run.Frames,
		Width:     sc.Run.Width,
		Height:    sc.Run.Height,
		Gravity:   [2]float64{sc.Gravity.X, sc.Gravity.Y},
		Shapes:    len(res.built.Shapes),
		ElapsedMS: float64(res.elapsed.Microseconds()) / 1000,
		Metrics:   res.metrics,
	}
	runID, err := st.Save(ctx, meta, res.out.Points, res.out.Frames)
	if err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(st.RunDir(runID), "scene.yaml"), sc); err != nil {
		return "", err
	}

	logger.Debug("run saved", zap.String("run", runID), zap.String("scene", sc.Name))
	return runID, nil
}
