// Package metrics observes a stepping world and reduces each run to a few
// scalar values.
package metrics

import (
	"sort"

	"github.com/san-kum/physnodes/internal/world"
)

// Metric is a sim.Observer that reduces the frames it sees to one value.
type Metric interface {
	Name() string
	OnFrame(frame int, t float64, w *world.World)
	Value() float64
	Reset()
}

// Defaults returns the metrics recorded for every saved run.
func Defaults(width, height int) []Metric {
	return []Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewInFrame(width, height),
	}
}

// Collect reads every metric into a map keyed by name.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns the metric names in ms, sorted.
func Names(ms []Metric) []string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name()
	}
	sort.Strings(names)
	return names
}

// mechanical returns the kinetic and potential energy of the dynamic shapes
// in w. Potential is measured against the gravity vector, so it falls as
// shapes move along it.
func mechanical(w *world.World) (ke, pe float64) {
	g := w.Gravity()
	for _, s := range w.Dynamic() {
		m := s.Mass()
		v := s.Velocity()
		p := s.Position()
		ke += 0.5 * m * (v.X*v.X + v.Y*v.Y)
		pe -= m * (g.X*p.X + g.Y*p.Y)
	}
	return ke, pe
}
