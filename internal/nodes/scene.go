package nodes

import (
	"context"
	"fmt"

	"github.com/san-kum/physnodes/internal/world"
	"go.uber.org/zap"
)

// Default gravity of the Space node, in pixels per second squared.
const (
	DefaultXGravity = 0.0
	DefaultYGravity = 9.8
)

func NewSpace(log *zap.Logger) Node {
	return &node{
		name:        "Space",
		description: "create a simulation world with a gravity vector",
		inputs: []Slot{
			floatSlot("xgravity", DefaultXGravity),
			floatSlot("ygravity", DefaultYGravity),
		},
		outputs: []Slot{{Name: "space", Type: TypeSpace}},
		log:     nopIfNil(log),
		run: func(_ context.Context, in Values) (Values, error) {
			w := world.New(world.Vec{X: in.getFloat("xgravity"), Y: in.getFloat("ygravity")})
			return Values{"space": w}, nil
		},
	}
}

func NewStaticLine(log *zap.Logger) Node {
	return &node{
		name:        "StaticLine",
		description: "attach a static line segment to the world",
		inputs: []Slot{
			spaceSlot(),
			floatSlot("x1", 0),
			floatSlot("y1", 400),
			floatSlot("x2", 0),
			floatSlot("y2", 500),
			floatSlot("radius", 5).atLeast(0),
			floatSlot("elasticity", 0.7).atLeast(0),
			floatSlot("friction", 0.5).atLeast(0),
			shapeSlot("shape", true),
		},
		outputs: []Slot{{Name: "line", Type: TypeShape}},
		log:     nopIfNil(log),
		run: func(_ context.Context, in Values) (Values, error) {
			w := in.space()
			if err := checkOwned("StaticLine", w, in.shapes("shape")); err != nil {
				return nil, err
			}
			line, err := w.AddSegment(world.SegmentParams{
				A:      world.Vec{X: in.getFloat("x1"), Y: in.getFloat("y1")},
				B:      world.Vec{X: in.getFloat("x2"), Y: in.getFloat("y2")},
				Radius: in.getFloat("radius"),
				Material: world.Material{
					Elasticity: in.getFloat("elasticity"),
					Friction:   in.getFloat("friction"),
				},
			})
			if err != nil {
				return nil, err
			}
			return Values{"line": appendShape(in.shapes("shape"), line)}, nil
		},
	}
}

func NewDynamicBox(log *zap.Logger) Node {
	return &node{
		name:        "DynamicBox",
		description: "add a dynamic box body to the world",
		inputs: []Slot{
			spaceSlot(),
			floatSlot("x", 0),
			floatSlot("y", 0),
			floatSlot("width", 10).above(0),
			floatSlot("height", 10).above(0),
			floatSlot("radius", 1).atLeast(0),
			floatSlot("mass", 1).above(0),
			floatSlot("elasticity", 0).atLeast(0),
			floatSlot("friction", 0.7).atLeast(0),
			shapeSlot("shape", true),
		},
		outputs: []Slot{{Name: "box", Type: TypeShape}},
		log:     nopIfNil(log),
		run: func(_ context.Context, in Values) (Values, error) {
			w := in.space()
			if err := checkOwned("DynamicBox", w, in.shapes("shape")); err != nil {
				return nil, err
			}
			box, err := w.AddBox(world.BoxParams{
				Position: world.Vec{X: in.getFloat("x"), Y: in.getFloat("y")},
				Width:    in.getFloat("width"),
				Height:   in.getFloat("height"),
				Radius:   in.getFloat("radius"),
				Mass:     in.getFloat("mass"),
				Material: world.Material{
					Elasticity: in.getFloat("elasticity"),
					Friction:   in.getFloat("friction"),
				},
			})
			if err != nil {
				return nil, err
			}
			return Values{"box": appendShape(in.shapes("shape"), box)}, nil
		},
	}
}

func NewDynamicCircle(log *zap.Logger) Node {
	return &node{
		name:        "DynamicCircle",
		description: "add a dynamic circle body to the world",
		inputs: []Slot{
			spaceSlot(),
			floatSlot("x", 0),
			floatSlot("y", 0),
			floatSlot("radius", 10).above(0),
			floatSlot("mass", 1).above(0),
			floatSlot("elasticity", 0.5).atLeast(0),
			floatSlot("friction", 0.7).atLeast(0),
			shapeSlot("shape", true),
		},
		outputs: []Slot{{Name: "circle", Type: TypeShape}},
		log:     nopIfNil(log),
		run: func(_ context.Context, in Values) (Values, error) {
			w := in.space()
			if err := checkOwned("DynamicCircle", w, in.shapes("shape")); err != nil {
				return nil, err
			}
			circle, err := w.AddCircle(world.CircleParams{
				Position: world.Vec{X: in.getFloat("x"), Y: in.getFloat("y")},
				Radius:   in.getFloat("radius"),
				Mass:     in.getFloat("mass"),
				Material: world.Material{
					Elasticity: in.getFloat("elasticity"),
					Friction:   in.getFloat("friction"),
				},
			})
			if err != nil {
				return nil, err
			}
			return Values{"circle": appendShape(in.shapes("shape"), circle)}, nil
		},
	}
}

func appendShape(list ShapeList, s *world.Shape) ShapeList {
	out := make(ShapeList, 0, len(list)+1)
	out = append(out, list...)
	return append(out, s)
}

func checkOwned(node string, w *world.World, shapes ShapeList) error {
	for _, s := range shapes {
		if !w.Owns(s) {
			return &InputError{Node: node, Slot: "shape", Wrapped: fmt.Errorf("%w: %v", ErrForeignShape, s)}
		}
	}
	return nil
}
