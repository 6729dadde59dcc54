package tracking

import "github.com/san-kum/physnodes/internal/world"

// Recorder samples the position of each tracked shape after every frame.
type Recorder struct {
	shapes        []*world.Shape
	width, height int
	points        Points
}

// NewRecorder tracks the dynamic shapes among shapes, in order. Static
// shapes never move and are skipped.
func NewRecorder(shapes []*world.Shape, width, height int) *Recorder {
	tracked := make([]*world.Shape, 0, len(shapes))
	for _, s := range shapes {
		if s != nil && !s.Static() {
			tracked = append(tracked, s)
		}
	}
	points := make(Points, len(tracked))
	for i := range points {
		points[i] = []Point{}
	}
	return &Recorder{
		shapes: tracked,
		width:  width,
		height: height,
		points: points,
	}
}

func (r *Recorder) OnFrame(frame int, t float64, w *world.World) {
	for i, s := range r.shapes {
		r.points[i] = append(r.points[i], Clamp(s.Position(), r.width, r.height))
	}
}

// Tracked returns the shapes being sampled.
func (r *Recorder) Tracked() []*world.Shape { return r.shapes }

func (r *Recorder) Points() Points { return r.points }
