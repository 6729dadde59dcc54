package metrics

import (
	"math"

	"github.com/san-kum/physnodes/internal/world"
)

// Energy is the mean kinetic energy of the dynamic shapes over all frames.
type Energy struct {
	name    string
	total   float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "kinetic_energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnFrame(frame int, t float64, w *world.World) {
	ke, _ := mechanical(w)
	e.total += ke
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift is the largest change of total mechanical energy relative to
// the first observed frame. Collisions with elasticity below one make it
// grow; a free fall keeps it near zero.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnFrame(frame int, t float64, w *world.World) {
	ke, pe := mechanical(w)
	energy := ke + pe

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	scale := math.Abs(e.initial)
	if scale < 1e-9 {
		scale = 1
	}
	e.maxDrift = math.Max(e.maxDrift, math.Abs(energy-e.initial)/scale)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
