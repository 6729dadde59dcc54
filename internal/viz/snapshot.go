package viz

import (
	"math"

	"github.com/san-kum/physnodes/internal/world"
)

// outline is the drawable geometry of one shape at one frame.
type outline struct {
	kind   world.Kind
	points []world.Vec
	center world.Vec
	radius float64
	angle  float64
}

type snapshot struct {
	frame  int
	time   float64
	shapes []outline
}

func takeSnapshot(frame int, w *world.World) snapshot {
	shapes := w.Shapes()
	snap := snapshot{frame: frame, time: w.Time(), shapes: make([]outline, 0, len(shapes))}
	for _, s := range shapes {
		o := outline{kind: s.Kind, center: s.Position(), radius: s.Radius(), angle: s.Angle()}
		switch s.Kind {
		case world.KindSegment:
			a, b := s.Endpoints()
			o.points = []world.Vec{a, b}
		case world.KindBox:
			o.points = s.Vertices()
		}
		snap.shapes = append(snap.shapes, o)
	}
	return snap
}

// projection maps scene pixels onto canvas dots with a uniform scale.
type projection struct {
	scale float64
}

func newProjection(c *Canvas, width, height int) projection {
	cw, ch := c.Dots()
	s := math.Min(float64(cw)/float64(width), float64(ch)/float64(height))
	if s <= 0 || math.IsInf(s, 0) || math.IsNaN(s) {
		s = 1
	}
	return projection{scale: s}
}

func (p projection) point(v world.Vec) (int, int) {
	return int(math.Round(v.X * p.scale)), int(math.Round(v.Y * p.scale))
}

// drawSnapshot draws static shapes on bg and dynamic ones on fg.
func drawSnapshot(bg, fg *Canvas, p projection, snap snapshot) {
	bg.Clear()
	fg.Clear()
	for _, o := range snap.shapes {
		switch o.kind {
		case world.KindSegment:
			x0, y0 := p.point(o.points[0])
			x1, y1 := p.point(o.points[1])
			bg.DrawLine(x0, y0, x1, y1)
		case world.KindBox:
			xs := make([]int, len(o.points))
			ys := make([]int, len(o.points))
			for i, v := range o.points {
				xs[i], ys[i] = p.point(v)
			}
			fg.DrawPolygon(xs, ys)
		case world.KindCircle:
			cx, cy := p.point(o.center)
			r := o.radius * p.scale
			fg.DrawCircle(cx, cy, r)
			fg.DrawLine(cx, cy, cx+int(math.Round(r*math.Cos(o.angle))), cy+int(math.Round(r*math.Sin(o.angle))))
		}
	}
}
