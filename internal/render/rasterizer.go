package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/san-kum/physnodes/internal/world"
)

// Rasterizer paints a world into fixed-size frames. World coordinates map
// one-to-one onto pixels with the origin at the top-left corner.
type Rasterizer struct {
	width, height int
	style         Style
	pal           colors
}

func NewRasterizer(width, height int, style Style) (*Rasterizer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("render: frame size must be at least 1x1, got %dx%d", width, height)
	}
	pal, err := style.colors()
	if err != nil {
		return nil, err
	}
	return &Rasterizer{width: width, height: height, style: style, pal: pal}, nil
}

func (r *Rasterizer) Size() (int, int) { return r.width, r.height }

// Draw paints every shape of w onto a fresh frame.
func (r *Rasterizer) Draw(w *world.World) image.Image {
	dc := gg.NewContext(r.width, r.height)
	dc.SetColor(r.pal.background)
	dc.Clear()
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	for _, s := range w.Shapes() {
		switch s.Kind {
		case world.KindSegment:
			r.drawSegment(dc, s)
		case world.KindBox:
			r.drawBox(dc, s)
		case world.KindCircle:
			r.drawCircle(dc, s)
		}
	}
	return dc.Image()
}

func (r *Rasterizer) drawSegment(dc *gg.Context, s *world.Shape) {
	a, b := s.Endpoints()
	dc.SetColor(r.pal.static)
	dc.SetLineWidth(math.Max(2*s.Radius(), r.style.LineWidth))
	dc.DrawLine(a.X, a.Y, b.X, b.Y)
	dc.Stroke()
}

func (r *Rasterizer) drawBox(dc *gg.Context, s *world.Shape) {
	verts := s.Vertices()
	dc.NewSubPath()
	dc.MoveTo(verts[0].X, verts[0].Y)
	for _, v := range verts[1:] {
		dc.LineTo(v.X, v.Y)
	}
	dc.ClosePath()
	dc.SetColor(r.pal.dynamic)
	if s.Radius() > 0 {
		// rounded corners: stroke the core polygon at twice the radius
		dc.FillPreserve()
		dc.SetLineWidth(2 * s.Radius())
		dc.Stroke()
	} else {
		dc.Fill()
	}
	if r.pal.outline != nil && r.style.LineWidth > 0 {
		dc.MoveTo(verts[0].X, verts[0].Y)
		for _, v := range verts[1:] {
			dc.LineTo(v.X, v.Y)
		}
		dc.ClosePath()
		dc.SetColor(r.pal.outline)
		dc.SetLineWidth(r.style.LineWidth)
		dc.Stroke()
	}
}

func (r *Rasterizer) drawCircle(dc *gg.Context, s *world.Shape) {
	c := s.Position()
	rad := s.Radius()
	dc.DrawCircle(c.X, c.Y, rad)
	dc.SetColor(r.pal.dynamic)
	dc.Fill()

	// spoke showing rotation
	if r.style.LineWidth > 0 {
		angle := s.Angle()
		dc.SetColor(r.spokeColor())
		dc.SetLineWidth(r.style.LineWidth)
		dc.DrawLine(c.X, c.Y, c.X+rad*math.Cos(angle), c.Y+rad*math.Sin(angle))
		dc.Stroke()
	}
}

func (r *Rasterizer) spokeColor() color.Color {
	if r.pal.outline != nil {
		return r.pal.outline
	}
	return r.pal.background
}

// Recorder rasterizes the world after every frame.
type Recorder struct {
	raster *Rasterizer
	frames []image.Image
}

func NewRecorder(raster *Rasterizer) *Recorder {
	return &Recorder{raster: raster, frames: make([]image.Image, 0)}
}

func (r *Recorder) OnFrame(frame int, t float64, w *world.World) {
	r.frames = append(r.frames, r.raster.Draw(w))
}

func (r *Recorder) Frames() []image.Image { return r.frames }
