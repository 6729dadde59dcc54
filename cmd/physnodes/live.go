package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/san-kum/physnodes/internal/render"
	"github.com/san-kum/physnodes/internal/scene"
	"github.com/san-kum/physnodes/internal/viz"
	"github.com/san-kum/physnodes/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runLive(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	ctx := commandContext(cmd)
	p := newPipeline()
	build := func() (*scene.Built, error) {
		// reload so edits to the file show up on reset
		sc, err := loadScene(cmd, path)
		if err != nil {
			return nil, err
		}
		return p.Build(ctx, sc)
	}

	m, err := viz.NewModel(build, viz.Options{
		Theme: theme,
		Loop:  loop,
		Log:   logger,
	})
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func watchScene(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	p := newPipeline()
	rerun := func(ctx context.Context) error {
		sc, err := loadScene(cmd, path)
		if err != nil {
			return err
		}
		rendering := gifPath != ""
		res, err := execute(ctx, p, sc, rendering)
		if err != nil {
			return err
		}
		if rendering {
			if err := render.SaveGIF(gifPath, res.out.Frames, render.DelayForDt(sc.Run.Dt)); err != nil {
				return err
			}
		}
		runID, err := save(ctx, res)
		if err != nil {
			return err
		}
		logger.Info("scene run",
			zap.String("scene", sc.Name),
			zap.String("run", runID),
			zap.Int("tracked", len(res.out.Points)),
			zap.Duration("elapsed", res.elapsed))
		fmt.Println(res.out.JSON)
		return nil
	}

	err := watch.New(path, rerun, logger).Watch(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

