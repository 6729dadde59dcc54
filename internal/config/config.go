package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/physnodes/internal/render"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.02
	DefaultFrames   = 14
	DefaultWidth    = 576
	DefaultHeight   = 320
	DefaultXGravity = 0.0
	DefaultYGravity = 9.8
)

// Shape types a scene may declare, mapped to the node that builds them.
var shapeNodes = map[string]string{
	"line":   "StaticLine",
	"box":    "DynamicBox",
	"circle": "DynamicCircle",
}

// ErrInvalidScene indicates a scene file that cannot be executed.
var ErrInvalidScene = errors.New("config: invalid scene")

type Scene struct {
	Name    string        `yaml:"name"`
	Gravity GravityConfig `yaml:"gravity"`
	Shapes  []ShapeConfig `yaml:"shapes"`
	Run     RunConfig     `yaml:"run"`
	Style   render.Style  `yaml:"style"`
}

type GravityConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ShapeConfig declares one shape node. Params are passed to the node as
// inputs; anything left out takes the node's default.
type ShapeConfig struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:",inline"`
}

type RunConfig struct {
	Dt     float64 `yaml:"delta_t"`
	Frames int     `yaml:"frame_length"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
}

func DefaultRun() RunConfig {
	return RunConfig{
		Dt:     DefaultDt,
		Frames: DefaultFrames,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// DefaultScene wires one default static line and one default box, exactly
// what an unconfigured node graph would build.
func DefaultScene() *Scene {
	return &Scene{
		Name:    "default",
		Gravity: GravityConfig{X: DefaultXGravity, Y: DefaultYGravity},
		Shapes: []ShapeConfig{
			{Type: "line", Params: map[string]any{}},
			{Type: "box", Params: map[string]any{}},
		},
		Run:   DefaultRun(),
		Style: render.DefaultStyle(),
	}
}

// Load reads a scene file. Sections missing from the file keep their
// defaults; a file that declares shapes replaces the default shapes.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scene, error) {
	sc := DefaultScene()
	sc.Shapes = nil
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, err
	}
	if sc.Shapes == nil {
		sc.Shapes = DefaultScene().Shapes
	}
	for i := range sc.Shapes {
		if sc.Shapes[i].Params == nil {
			sc.Shapes[i].Params = map[string]any{}
		}
	}
	return sc, nil
}

func Save(path string, sc *Scene) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// NodeFor returns the node name that builds a shape type.
func NodeFor(shapeType string) (string, bool) {
	name, ok := shapeNodes[shapeType]
	return name, ok
}

// Validate checks the parts of a scene that can be checked without building
// it. Per-shape parameters are validated by the nodes themselves.
func (s *Scene) Validate() error {
	if s.Run.Dt <= 0 {
		return fmt.Errorf("%w: delta_t must be positive, got %v", ErrInvalidScene, s.Run.Dt)
	}
	if s.Run.Frames < 0 {
		return fmt.Errorf("%w: frame_length must be non-negative, got %d", ErrInvalidScene, s.Run.Frames)
	}
	if s.Run.Width < 1 || s.Run.Height < 1 {
		return fmt.Errorf("%w: frame size must be at least 1x1, got %dx%d", ErrInvalidScene, s.Run.Width, s.Run.Height)
	}
	for i, shape := range s.Shapes {
		if _, ok := shapeNodes[shape.Type]; !ok {
			return fmt.Errorf("%w: shape %d has unknown type %q", ErrInvalidScene, i, shape.Type)
		}
		if _, ok := shape.Params["space"]; ok {
			return fmt.Errorf("%w: shape %d may not set space", ErrInvalidScene, i)
		}
		if _, ok := shape.Params["shape"]; ok {
			return fmt.Errorf("%w: shape %d may not set shape", ErrInvalidScene, i)
		}
	}
	if err := s.Style.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return nil
}

// Clone returns a deep copy so presets can be modified safely.
func (s *Scene) Clone() *Scene {
	c := *s
	c.Shapes = make([]ShapeConfig, len(s.Shapes))
	for i, shape := range s.Shapes {
		params := make(map[string]any, len(shape.Params))
		for k, v := range shape.Params {
			params[k] = v
		}
		c.Shapes[i] = ShapeConfig{Type: shape.Type, Params: params}
	}
	return &c
}

// Set assigns a numeric value by dotted path: gravity.x, gravity.y,
// run.delta_t, run.frame_length, run.width, run.height, style.line_width or
// shapes.<index>.<param>. Integer fields truncate v.
func (s *Scene) Set(path string, v float64) error {
	parts := strings.Split(path, ".")
	switch {
	case len(parts) == 2 && parts[0] == "gravity" && parts[1] == "x":
		s.Gravity.X = v
	case len(parts) == 2 && parts[0] == "gravity" && parts[1] == "y":
		s.Gravity.Y = v
	case len(parts) == 2 && parts[0] == "run":
		switch parts[1] {
		case "delta_t":
			s.Run.Dt = v
		case "frame_length":
			s.Run.Frames = int(v)
		case "width":
			s.Run.Width = int(v)
		case "height":
			s.Run.Height = int(v)
		default:
			return fmt.Errorf("%w: unknown run field %q", ErrInvalidScene, parts[1])
		}
	case len(parts) == 2 && parts[0] == "style" && parts[1] == "line_width":
		s.Style.LineWidth = v
	case len(parts) == 3 && parts[0] == "shapes":
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 0 || idx >= len(s.Shapes) {
			return fmt.Errorf("%w: no shape %q", ErrInvalidScene, parts[1])
		}
		if parts[2] == "space" || parts[2] == "shape" {
			return fmt.Errorf("%w: shape %d may not set %s", ErrInvalidScene, idx, parts[2])
		}
		if s.Shapes[idx].Params == nil {
			s.Shapes[idx].Params = map[string]any{}
		}
		s.Shapes[idx].Params[parts[2]] = v
	default:
		return fmt.Errorf("%w: unknown path %q", ErrInvalidScene, path)
	}
	return nil
}
