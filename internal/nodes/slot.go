package nodes

import (
	"fmt"
	"image"
	"math"

	"github.com/san-kum/physnodes/internal/world"
)

type SlotType string

const (
	TypeFloat  SlotType = "FLOAT"
	TypeInt    SlotType = "INT"
	TypeString SlotType = "STRING"
	TypeColor  SlotType = "COLOR"
	TypeSpace  SlotType = "SPACE"
	TypeShape  SlotType = "SHAPE"
	TypeImage  SlotType = "IMAGE"
)

// ShapeList is the value carried by SHAPE slots. Shape nodes append to the
// list they receive, so chaining them builds up the set of shapes a Run or
// Render node should track.
type ShapeList []*world.Shape

// Slot describes one typed input or output of a node.
type Slot struct {
	Name     string
	Type     SlotType
	Default  any
	Optional bool

	// Min bounds numeric slots from below; Exclusive makes the bound strict.
	Min       float64
	HasMin    bool
	Exclusive bool
}

func floatSlot(name string, def float64) Slot {
	return Slot{Name: name, Type: TypeFloat, Default: def}
}

func intSlot(name string, def int) Slot {
	return Slot{Name: name, Type: TypeInt, Default: def}
}

func colorSlot(name, def string) Slot {
	return Slot{Name: name, Type: TypeColor, Default: def}
}

func spaceSlot() Slot {
	return Slot{Name: "space", Type: TypeSpace}
}

func shapeSlot(name string, optional bool) Slot {
	return Slot{Name: name, Type: TypeShape, Optional: optional}
}

func (s Slot) atLeast(min float64) Slot {
	s.Min, s.HasMin, s.Exclusive = min, true, false
	return s
}

func (s Slot) above(min float64) Slot {
	s.Min, s.HasMin, s.Exclusive = min, true, true
	return s
}

// Values maps slot names to values.
type Values map[string]any

// Resolve fills defaults for missing inputs and checks every value against
// its slot. Unknown keys are ignored.
func Resolve(node string, slots []Slot, in Values) (Values, error) {
	out := make(Values, len(slots))
	for _, slot := range slots {
		v, ok := in[slot.Name]
		if !ok || v == nil {
			switch {
			case slot.Default != nil:
				v = slot.Default
			case slot.Optional:
				continue
			default:
				return nil, &InputError{Node: node, Slot: slot.Name, Wrapped: ErrMissingInput}
			}
		}
		conv, err := convert(slot, v)
		if err != nil {
			return nil, &InputError{Node: node, Slot: slot.Name, Wrapped: err}
		}
		out[slot.Name] = conv
	}
	return out, nil
}

func convert(slot Slot, v any) (any, error) {
	switch slot.Type {
	case TypeFloat:
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: want FLOAT, got %T", ErrInputType, v)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %v is not finite", ErrParameterBounds, f)
		}
		return f, slot.checkMin(f)
	case TypeInt:
		n, err := toInt(v)
		if err != nil {
			return nil, err
		}
		return n, slot.checkMin(float64(n))
	case TypeString, TypeColor:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: want %s, got %T", ErrInputType, slot.Type, v)
		}
		return s, nil
	case TypeSpace:
		w, ok := v.(*world.World)
		if !ok || w == nil {
			return nil, fmt.Errorf("%w: want SPACE, got %T", ErrInputType, v)
		}
		return w, nil
	case TypeShape:
		switch s := v.(type) {
		case ShapeList:
			return s, nil
		case []*world.Shape:
			return ShapeList(s), nil
		case *world.Shape:
			return ShapeList{s}, nil
		}
		return nil, fmt.Errorf("%w: want SHAPE, got %T", ErrInputType, v)
	case TypeImage:
		imgs, ok := v.([]image.Image)
		if !ok {
			return nil, fmt.Errorf("%w: want IMAGE, got %T", ErrInputType, v)
		}
		return imgs, nil
	}
	return nil, fmt.Errorf("%w: unknown slot type %s", ErrInputType, slot.Type)
}

func (s Slot) checkMin(f float64) error {
	if !s.HasMin {
		return nil
	}
	if f < s.Min || (s.Exclusive && f == s.Min) {
		op := ">="
		if s.Exclusive {
			op = ">"
		}
		return fmt.Errorf("%w: %v must be %s %v", ErrParameterBounds, f, op, s.Min)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// toInt accepts whole floats as produced by yaml and JSON decoding.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, fmt.Errorf("%w: %d does not fit in an int", ErrParameterBounds, n)
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			break
		}
		// float64(math.MaxInt) rounds up to 2^63, so the upper bound is exclusive.
		if n < math.MinInt || n >= -float64(math.MinInt) {
			return 0, fmt.Errorf("%w: %v does not fit in an int", ErrParameterBounds, n)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("%w: want INT, got %v (%T)", ErrInputType, v, v)
}

// typed accessors for resolved values

func (v Values) getFloat(name string) float64 { f, _ := v[name].(float64); return f }
func (v Values) getInt(name string) int       { n, _ := v[name].(int); return n }
func (v Values) getString(name string) string { s, _ := v[name].(string); return s }

func (v Values) space() *world.World { w, _ := v["space"].(*world.World); return w }

func (v Values) shapes(name string) ShapeList { s, _ := v[name].(ShapeList); return s }

// World returns the SPACE output of a node run.
func (v Values) World(name string) (*world.World, bool) {
	w, ok := v[name].(*world.World)
	return w, ok
}

// Shapes returns a SHAPE output of a node run.
func (v Values) Shapes(name string) (ShapeList, bool) {
	s, ok := v[name].(ShapeList)
	return s, ok
}

// Text returns a STRING output of a node run.
func (v Values) Text(name string) (string, bool) {
	s, ok := v[name].(string)
	return s, ok
}

// Images returns an IMAGE output of a node run.
func (v Values) Images(name string) ([]image.Image, bool) {
	imgs, ok := v[name].([]image.Image)
	return imgs, ok
}
