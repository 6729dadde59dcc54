package world

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// Vec is a point or direction in world (pixel) space. The y axis points down,
// so a positive y gravity pulls bodies toward the bottom of a frame.
type Vec struct {
	X, Y float64
}

func (v Vec) cp() cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

func fromCP(v cp.Vector) Vec { return Vec{X: v.X, Y: v.Y} }

// IsValid reports whether both components are finite.
func (v Vec) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// World owns a Chipmunk space and every shape added to it.
type World struct {
	space   *cp.Space
	gravity Vec
	shapes  []*Shape
	time    float64
	steps   int
}

func New(gravity Vec) *World {
	space := cp.NewSpace()
	space.SetGravity(gravity.cp())
	return &World{
		space:   space,
		gravity: gravity,
		shapes:  make([]*Shape, 0),
	}
}

func (w *World) Gravity() Vec { return w.gravity }

// Time is the simulated time accumulated by Step.
func (w *World) Time() float64 { return w.time }

// Steps is the number of Step calls so far.
func (w *World) Steps() int { return w.steps }

// Shapes returns every shape in insertion order.
func (w *World) Shapes() []*Shape {
	out := make([]*Shape, len(w.shapes))
	copy(out, w.shapes)
	return out
}

// Dynamic returns the dynamic shapes in insertion order.
func (w *World) Dynamic() []*Shape {
	out := make([]*Shape, 0, len(w.shapes))
	for _, s := range w.shapes {
		if !s.Static() {
			out = append(out, s)
		}
	}
	return out
}

// Step advances the space by dt seconds.
func (w *World) Step(dt float64) error {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("world: dt must be positive and finite, got %v", dt)
	}
	w.space.Step(dt)
	w.time += dt
	w.steps++
	return nil
}

func (w *World) owns(s *Shape) bool {
	return s != nil && s.world == w
}

// Owns reports whether the shape was added to this world.
func (w *World) Owns(s *Shape) bool { return w.owns(s) }
