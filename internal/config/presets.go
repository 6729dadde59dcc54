package config

import (
	"sort"

	"github.com/san-kum/physnodes/internal/render"
)

func floor(y float64) ShapeConfig {
	return ShapeConfig{Type: "line", Params: map[string]any{
		"x1": 0.0, "y1": y, "x2": 575.0, "y2": y, "radius": 4.0, "elasticity": 0.4,
	}}
}

var Presets = map[string]*Scene{
	"drop": {
		Name:    "drop",
		Gravity: GravityConfig{Y: 300},
		Shapes: []ShapeConfig{
			floor(300),
			{Type: "box", Params: map[string]any{"x": 288.0, "y": 40.0, "width": 40.0, "height": 40.0, "radius": 1.0}},
		},
		Run:   RunConfig{Dt: 0.02, Frames: 48, Width: 576, Height: 320},
		Style: render.DefaultStyle(),
	},
	"ramp": {
		Name:    "ramp",
		Gravity: GravityConfig{Y: 400},
		Shapes: []ShapeConfig{
			{Type: "line", Params: map[string]any{"x1": 20.0, "y1": 80.0, "x2": 400.0, "y2": 260.0, "radius": 3.0, "elasticity": 0.2, "friction": 0.9}},
			floor(300),
			{Type: "circle", Params: map[string]any{"x": 60.0, "y": 40.0, "radius": 18.0, "friction": 0.9}},
		},
		Run:   RunConfig{Dt: 0.02, Frames: 72, Width: 576, Height: 320},
		Style: render.DefaultStyle(),
	},
	"pile": {
		Name:    "pile",
		Gravity: GravityConfig{Y: 500},
		Shapes: []ShapeConfig{
			floor(310),
			{Type: "box", Params: map[string]any{"x": 280.0, "y": 60.0, "width": 60.0, "height": 30.0}},
			{Type: "box", Params: map[string]any{"x": 295.0, "y": 10.0, "width": 40.0, "height": 40.0}},
			{Type: "box", Params: map[string]any{"x": 270.0, "y": -40.0, "width": 30.0, "height": 30.0}},
		},
		Run:   RunConfig{Dt: 0.02, Frames: 60, Width: 576, Height: 320},
		Style: render.DefaultStyle(),
	},
	"pinball": {
		Name:    "pinball",
		Gravity: GravityConfig{X: 0, Y: 250},
		Shapes: []ShapeConfig{
			{Type: "line", Params: map[string]any{"x1": 40.0, "y1": 120.0, "x2": 260.0, "y2": 180.0, "radius": 3.0, "elasticity": 0.9}},
			{Type: "line", Params: map[string]any{"x1": 540.0, "y1": 160.0, "x2": 320.0, "y2": 240.0, "radius": 3.0, "elasticity": 0.9}},
			floor(310),
			{Type: "circle", Params: map[string]any{"x": 120.0, "y": 20.0, "radius": 10.0, "elasticity": 0.9}},
			{Type: "circle", Params: map[string]any{"x": 460.0, "y": 30.0, "radius": 14.0, "elasticity": 0.9}},
		},
		Run: RunConfig{Dt: 0.02, Frames: 90, Width: 576, Height: 320},
		Style: render.Style{
			Background: "#0a0a0a", Dynamic: "#00ff88", Static: "#444466", Outline: "#ffffff", LineWidth: 2,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Scene {
	sc, ok := Presets[name]
	if !ok {
		return nil
	}
	return sc.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
