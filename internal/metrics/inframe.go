package metrics

import "github.com/san-kum/physnodes/internal/world"

// InFrame is the fraction of frames in which every dynamic shape's position
// lies inside the output frame, before clamping.
type InFrame struct {
	name          string
	width, height float64
	violations    int
	samples       int
}

func NewInFrame(width, height int) *InFrame {
	return &InFrame{
		name:   "in_frame",
		width:  float64(width),
		height: float64(height),
	}
}

func (f *InFrame) Name() string { return f.name }

func (f *InFrame) OnFrame(frame int, t float64, w *world.World) {
	f.samples++
	for _, s := range w.Dynamic() {
		p := s.Position()
		if p.X < 0 || p.Y < 0 || p.X > f.width-1 || p.Y > f.height-1 {
			f.violations++
			return
		}
	}
}

func (f *InFrame) Value() float64 {
	if f.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(f.violations)/float64(f.samples)
}

func (f *InFrame) Reset() {
	f.violations = 0
	f.samples = 0
}
