package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// ErrInvalidShape is returned when shape parameters cannot describe a body
// the engine accepts.
var ErrInvalidShape = errors.New("world: invalid shape parameters")

type Kind int

const (
	KindSegment Kind = iota
	KindBox
	KindCircle
)

func (k Kind) String() string {
	switch k {
	case KindSegment:
		return "segment"
	case KindBox:
		return "box"
	case KindCircle:
		return "circle"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Material holds the contact properties shared by every shape kind.
type Material struct {
	Elasticity float64
	Friction   float64
}

type SegmentParams struct {
	A, B   Vec
	Radius float64
	Material
}

type BoxParams struct {
	Position      Vec
	Width, Height float64
	Radius        float64
	Mass          float64
	Material
}

type CircleParams struct {
	Position Vec
	Radius   float64
	Mass     float64
	Material
}

// Shape is a handle to a shape owned by a World.
type Shape struct {
	ID    int
	Kind  Kind
	world *World
	body  *cp.Body
	shape *cp.Shape

	// geometry in body-local coordinates
	a, b          Vec
	width, height float64
	radius        float64
}

func (s *Shape) Static() bool { return s.Kind == KindSegment }

// Position is the body position. Static segments report the static body
// origin.
func (s *Shape) Position() Vec { return fromCP(s.body.Position()) }

func (s *Shape) Velocity() Vec { return fromCP(s.body.Velocity()) }

func (s *Shape) Angle() float64 { return s.body.Angle() }

func (s *Shape) Radius() float64 { return s.radius }

func (s *Shape) Size() (width, height float64) { return s.width, s.height }

func (s *Shape) Mass() float64 {
	if s.Static() {
		return math.Inf(1)
	}
	return s.body.Mass()
}

// Endpoints returns the world-space endpoints of a segment.
func (s *Shape) Endpoints() (Vec, Vec) {
	return s.toWorld(s.a), s.toWorld(s.b)
}

// Vertices returns the world-space outline of the shape: the two endpoints
// of a segment, the four corners of a box, or the centre of a circle.
func (s *Shape) Vertices() []Vec {
	switch s.Kind {
	case KindSegment:
		a, b := s.Endpoints()
		return []Vec{a, b}
	case KindBox:
		hw, hh := s.width/2, s.height/2
		return []Vec{
			s.toWorld(Vec{-hw, -hh}),
			s.toWorld(Vec{hw, -hh}),
			s.toWorld(Vec{hw, hh}),
			s.toWorld(Vec{-hw, hh}),
		}
	default:
		return []Vec{s.Position()}
	}
}

func (s *Shape) toWorld(local Vec) Vec {
	return fromCP(s.body.LocalToWorld(local.cp()))
}

func (s *Shape) String() string {
	if s == nil {
		return "<nil shape>"
	}
	p := s.Position()
	return fmt.Sprintf("%s#%d(%.2f, %.2f)", s.Kind, s.ID, p.X, p.Y)
}

func (m Material) apply(shape *cp.Shape) {
	shape.SetElasticity(m.Elasticity)
	shape.SetFriction(m.Friction)
}

func (m Material) validate() error {
	if m.Elasticity < 0 || m.Friction < 0 {
		return fmt.Errorf("%w: elasticity and friction must be non-negative", ErrInvalidShape)
	}
	return nil
}

// AddSegment attaches a static segment to the space's static body.
func (w *World) AddSegment(p SegmentParams) (*Shape, error) {
	if p.Radius < 0 {
		return nil, fmt.Errorf("%w: segment radius %v", ErrInvalidShape, p.Radius)
	}
	if err := p.Material.validate(); err != nil {
		return nil, err
	}
	body := w.space.StaticBody
	shape := cp.NewSegment(body, p.A.cp(), p.B.cp(), p.Radius)
	p.Material.apply(shape)
	w.space.AddShape(shape)

	return w.register(&Shape{
		Kind:   KindSegment,
		body:   body,
		shape:  shape,
		a:      p.A,
		b:      p.B,
		radius: p.Radius,
	}), nil
}

// AddBox creates a dynamic body carrying a box with rounded corners.
func (w *World) AddBox(p BoxParams) (*Shape, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("%w: box size %vx%v", ErrInvalidShape, p.Width, p.Height)
	}
	if p.Radius < 0 {
		return nil, fmt.Errorf("%w: box radius %v", ErrInvalidShape, p.Radius)
	}
	if p.Mass <= 0 {
		return nil, fmt.Errorf("%w: box mass %v", ErrInvalidShape, p.Mass)
	}
	if err := p.Material.validate(); err != nil {
		return nil, err
	}

	body := w.space.AddBody(cp.NewBody(p.Mass, cp.MomentForBox(p.Mass, p.Width, p.Height)))
	body.SetPosition(p.Position.cp())
	shape := cp.NewBox(body, p.Width, p.Height, p.Radius)
	p.Material.apply(shape)
	w.space.AddShape(shape)

	return w.register(&Shape{
		Kind:   KindBox,
		body:   body,
		shape:  shape,
		width:  p.Width,
		height: p.Height,
		radius: p.Radius,
	}), nil
}

// AddCircle creates a dynamic body carrying a solid circle.
func (w *World) AddCircle(p CircleParams) (*Shape, error) {
	if p.Radius <= 0 {
		return nil, fmt.Errorf("%w: circle radius %v", ErrInvalidShape, p.Radius)
	}
	if p.Mass <= 0 {
		return nil, fmt.Errorf("%w: circle mass %v", ErrInvalidShape, p.Mass)
	}
	if err := p.Material.validate(); err != nil {
		return nil, err
	}

	body := w.space.AddBody(cp.NewBody(p.Mass, cp.MomentForCircle(p.Mass, 0, p.Radius, cp.Vector{})))
	body.SetPosition(p.Position.cp())
	shape := cp.NewCircle(body, p.Radius, cp.Vector{})
	p.Material.apply(shape)
	w.space.AddShape(shape)

	return w.register(&Shape{
		Kind:   KindCircle,
		body:   body,
		shape:  shape,
		radius: p.Radius,
	}), nil
}

func (w *World) register(s *Shape) *Shape {
	s.ID = len(w.shapes)
	s.world = w
	w.shapes = append(w.shapes, s)
	return s
}

// Bounds is the axis-aligned bounding box the engine last computed for the
// shape, including its radius.
func (s *Shape) Bounds() (min, max Vec) {
	bb := s.shape.BB()
	return Vec{bb.L, bb.B}, Vec{bb.R, bb.T}
}
