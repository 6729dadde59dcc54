// Package scene executes a scene file through the node registry: one Space
// node, the declared shape nodes chained in order, then a Run or Render node.
package scene

import (
	"context"
	"fmt"
	"image"

	"github.com/san-kum/physnodes/internal/config"
	"github.com/san-kum/physnodes/internal/nodes"
	"github.com/san-kum/physnodes/internal/sim"
	"github.com/san-kum/physnodes/internal/tracking"
	"github.com/san-kum/physnodes/internal/world"
	"go.uber.org/zap"
)

// Built is a world assembled from a scene, ready to be stepped.
type Built struct {
	Scene  *config.Scene
	World  *world.World
	Shapes nodes.ShapeList
}

// Output is what a Run or Render node produced for a scene.
type Output struct {
	Points tracking.Points
	JSON   string
	Frames []image.Image
}

type Pipeline struct {
	reg *nodes.Registry
	log *zap.Logger
}

func New(reg *nodes.Registry, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = nodes.NewRegistry(log)
	}
	return &Pipeline{reg: reg, log: log}
}

// Build runs the Space node and every shape node of sc.
func (p *Pipeline) Build(ctx context.Context, sc *config.Scene) (*Built, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	out, err := p.run(ctx, "Space", nodes.Values{
		"xgravity": sc.Gravity.X,
		"ygravity": sc.Gravity.Y,
	})
	if err != nil {
		return nil, err
	}
	w, _ := out.World("space")

	shapes := nodes.ShapeList{}
	for i, decl := range sc.Shapes {
		name, _ := config.NodeFor(decl.Type)
		in := make(nodes.Values, len(decl.Params)+2)
		for k, v := range decl.Params {
			in[k] = v
		}
		in["space"] = w
		in["shape"] = shapes

		n, err := p.reg.Get(name)
		if err != nil {
			return nil, err
		}
		out, err := n.Run(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("scene %s: shape %d (%s): %w", sc.Name, i, decl.Type, err)
		}
		shapes, _ = out.Shapes(n.Outputs()[0].Name)
	}

	p.log.Debug("scene built",
		zap.String("scene", sc.Name),
		zap.Int("shapes", len(shapes)))

	return &Built{Scene: sc, World: w, Shapes: shapes}, nil
}

// Track runs the Run node over a built scene.
func (p *Pipeline) Track(ctx context.Context, b *Built) (*Output, error) {
	out, err := p.run(ctx, "Run", p.runInputs(b))
	if err != nil {
		return nil, err
	}
	return decodeOutput(out, nil)
}

// Measure steps a built scene like Track and also feeds every frame to obs.
// The Run node has no observer slot, so Measure drives the same stepping
// loop directly.
func (p *Pipeline) Measure(ctx context.Context, b *Built, obs ...sim.Observer) (*Output, error) {
	run := b.Scene.Run
	params := nodes.RunParams{Dt: run.Dt, Frames: run.Frames, Width: run.Width, Height: run.Height}
	points, _, err := nodes.Track(ctx, p.log.Named("Measure"), "Measure", b.World, b.Shapes, params, obs...)
	if err != nil {
		return nil, err
	}
	text, err := points.JSON()
	if err != nil {
		return nil, err
	}
	return &Output{Points: points, JSON: text}, nil
}

// Render runs the Render node over a built scene.
func (p *Pipeline) Render(ctx context.Context, b *Built) (*Output, error) {
	in := p.runInputs(b)
	in["background"] = b.Scene.Style.Background
	in["foreground"] = b.Scene.Style.Dynamic
	in["static_color"] = b.Scene.Style.Static
	in["outline"] = b.Scene.Style.Outline
	in["line_width"] = b.Scene.Style.LineWidth

	out, err := p.run(ctx, "Render", in)
	if err != nil {
		return nil, err
	}
	frames, _ := out.Images("images")
	return decodeOutput(out, frames)
}

func (p *Pipeline) runInputs(b *Built) nodes.Values {
	return nodes.Values{
		"space":        b.World,
		"shape":        b.Shapes,
		"delta_t":      b.Scene.Run.Dt,
		"frame_length": b.Scene.Run.Frames,
		"width":        b.Scene.Run.Width,
		"height":       b.Scene.Run.Height,
	}
}

func (p *Pipeline) run(ctx context.Context, name string, in nodes.Values) (nodes.Values, error) {
	n, err := p.reg.Get(name)
	if err != nil {
		return nil, err
	}
	return n.Run(ctx, in)
}

func decodeOutput(out nodes.Values, frames []image.Image) (*Output, error) {
	text, _ := out.Text("tracking_points")
	points, err := tracking.Parse(text)
	if err != nil {
		return nil, err
	}
	return &Output{Points: points, JSON: text, Frames: frames}, nil
}
