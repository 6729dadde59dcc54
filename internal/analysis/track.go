package analysis

import (
	"math"

	"github.com/san-kum/physnodes/internal/tracking"
)

// DefaultRestEpsilon is the per-frame displacement in pixels below which a
// shape counts as resting.
const DefaultRestEpsilon = 0.05

type Stats struct {
	Shape        int
	Frames       int
	PathLength   float64
	Displacement float64
	MaxSpeed     float64
	MeanSpeed    float64
	// RestFrame is the first frame after which the shape never moves more
	// than the rest epsilon per frame, or -1 if it is still moving at the end.
	RestFrame int
	MinX      float64
	MaxX      float64
	MinY      float64
	MaxY      float64
	// BounceHz is the dominant frequency of the vertical coordinate.
	BounceHz float64
}

// Summarize computes Stats for every track. dt is the frame interval the
// points were recorded with.
func Summarize(points tracking.Points, dt, eps float64) []Stats {
	if eps <= 0 {
		eps = DefaultRestEpsilon
	}

	out := make([]Stats, len(points))
	for i, track := range points {
		out[i] = summarizeTrack(i, track, dt, eps)
	}
	return out
}

func summarizeTrack(idx int, track []tracking.Point, dt, eps float64) Stats {
	s := Stats{Shape: idx, Frames: len(track), RestFrame: -1}
	if len(track) == 0 {
		return s
	}

	s.MinX, s.MaxX = track[0].X(), track[0].X()
	s.MinY, s.MaxY = track[0].Y(), track[0].Y()
	s.RestFrame = 0

	for j := 1; j < len(track); j++ {
		p, prev := track[j], track[j-1]
		step := math.Hypot(p.X()-prev.X(), p.Y()-prev.Y())
		s.PathLength += step

		if dt > 0 {
			s.MaxSpeed = math.Max(s.MaxSpeed, step/dt)
		}
		if step >= eps {
			s.RestFrame = j
		}

		s.MinX = math.Min(s.MinX, p.X())
		s.MaxX = math.Max(s.MaxX, p.X())
		s.MinY = math.Min(s.MinY, p.Y())
		s.MaxY = math.Max(s.MaxY, p.Y())
	}

	last := track[len(track)-1]
	s.Displacement = math.Hypot(last.X()-track[0].X(), last.Y()-track[0].Y())

	if len(track) > 1 && dt > 0 {
		s.MeanSpeed = s.PathLength / (float64(len(track)-1) * dt)
	}
	if s.RestFrame == len(track)-1 && len(track) > 1 {
		s.RestFrame = -1
	}

	ys := make([]float64, len(track))
	for j, p := range track {
		ys[j] = p.Y()
	}
	s.BounceHz, _ = DominantFrequency(ys, dt)

	return s
}
