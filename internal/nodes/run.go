package nodes

import (
	"context"
	"image"

	"github.com/san-kum/physnodes/internal/render"
	"github.com/san-kum/physnodes/internal/sim"
	"github.com/san-kum/physnodes/internal/tracking"
	"github.com/san-kum/physnodes/internal/world"
	"go.uber.org/zap"
)

const (
	DefaultDeltaT      = 0.02
	DefaultFrameLength = 14
	DefaultWidth       = 576
	DefaultHeight      = 320
)

// RunParams controls the frame-stepping loop shared by Run and Render.
type RunParams struct {
	Dt            float64
	Frames        int
	Width, Height int
}

func DefaultRunParams() RunParams {
	return RunParams{
		Dt:     DefaultDeltaT,
		Frames: DefaultFrameLength,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// Track steps w and returns the clamped position of every dynamic shape in
// shapes after each frame. The world is advanced in place. node names the
// caller in input errors.
func Track(ctx context.Context, log *zap.Logger, node string, w *world.World, shapes ShapeList, p RunParams, extra ...sim.Observer) (tracking.Points, *sim.Result, error) {
	if err := checkOwned(node, w, shapes); err != nil {
		return nil, nil, err
	}
	rec := tracking.NewRecorder(shapes, p.Width, p.Height)
	stepper := sim.New(log)
	stepper.AddObserver(rec)
	for _, o := range extra {
		stepper.AddObserver(o)
	}
	result, err := stepper.Run(ctx, w, sim.Config{Dt: p.Dt, Frames: p.Frames})
	if err != nil {
		return rec.Points(), result, err
	}
	return rec.Points(), result, nil
}

// Frames steps w and rasterizes the whole world after each frame. It also
// returns the tracking points for shapes.
func Frames(ctx context.Context, log *zap.Logger, node string, w *world.World, shapes ShapeList, p RunParams, style render.Style) ([]image.Image, tracking.Points, *sim.Result, error) {
	raster, err := render.NewRasterizer(p.Width, p.Height, style)
	if err != nil {
		return nil, nil, nil, err
	}
	rec := render.NewRecorder(raster)
	points, result, err := Track(ctx, log, node, w, shapes, p, rec)
	return rec.Frames(), points, result, err
}

func runSlots() []Slot {
	return []Slot{
		spaceSlot(),
		floatSlot("delta_t", DefaultDeltaT).above(0),
		intSlot("frame_length", DefaultFrameLength).atLeast(0),
		intSlot("width", DefaultWidth).atLeast(1),
		intSlot("height", DefaultHeight).atLeast(1),
	}
}

func runParams(in Values) RunParams {
	return RunParams{
		Dt:     in.getFloat("delta_t"),
		Frames: in.getInt("frame_length"),
		Width:  in.getInt("width"),
		Height: in.getInt("height"),
	}
}

func NewRun(log *zap.Logger) Node {
	log = nopIfNil(log)
	return &node{
		name:        "Run",
		description: "step the world and emit clamped tracking points as JSON",
		inputs:      append(runSlots(), shapeSlot("shape", false)),
		outputs:     []Slot{{Name: "tracking_points", Type: TypeString}},
		log:         log,
		run: func(ctx context.Context, in Values) (Values, error) {
			points, _, err := Track(ctx, log, "Run", in.space(), in.shapes("shape"), runParams(in))
			if err != nil {
				return nil, err
			}
			text, err := points.JSON()
			if err != nil {
				return nil, err
			}
			return Values{"tracking_points": text}, nil
		},
	}
}

func NewRender(log *zap.Logger) Node {
	log = nopIfNil(log)
	def := render.DefaultStyle()
	inputs := append(runSlots(),
		colorSlot("background", def.Background),
		colorSlot("foreground", def.Dynamic),
		colorSlot("static_color", def.Static),
		colorSlot("outline", def.Outline),
		floatSlot("line_width", def.LineWidth).atLeast(0),
		shapeSlot("shape", false),
	)
	return &node{
		name:        "Render",
		description: "step the world and rasterize one frame per step",
		inputs:      inputs,
		outputs: []Slot{
			{Name: "images", Type: TypeImage},
			{Name: "tracking_points", Type: TypeString},
		},
		log: log,
		run: func(ctx context.Context, in Values) (Values, error) {
			style := render.Style{
				Background: in.getString("background"),
				Dynamic:    in.getString("foreground"),
				Static:     in.getString("static_color"),
				Outline:    in.getString("outline"),
				LineWidth:  in.getFloat("line_width"),
			}
			frames, points, _, err := Frames(ctx, log, "Render", in.space(), in.shapes("shape"), runParams(in), style)
			if err != nil {
				return nil, err
			}
			text, err := points.JSON()
			if err != nil {
				return nil, err
			}
			return Values{"images": frames, "tracking_points": text}, nil
		},
	}
}
