package nodes_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physnodes/internal/nodes"
	"github.com/san-kum/physnodes/internal/tracking"
	"github.com/san-kum/physnodes/internal/world"
)

func mustRun(n nodes.Node, in nodes.Values) nodes.Values {
	GinkgoHelper()
	out, err := n.Run(context.Background(), in)
	Expect(err).NotTo(HaveOccurred())
	return out
}

var _ = Describe("Registry", func() {
	It("lists every node alphabetically", func() {
		reg := nodes.NewRegistry(nil)
		Expect(reg.Names()).To(Equal([]string{
			"DynamicBox", "DynamicCircle", "Render", "Run", "Space", "StaticLine",
		}))
	})

	It("rejects unknown names", func() {
		_, err := nodes.NewRegistry(nil).Get("Teapot")
		Expect(errors.Is(err, nodes.ErrUnknownNode)).To(BeTrue())
	})

	It("puts every node in the physics category", func() {
		reg := nodes.NewRegistry(nil)
		for _, name := range reg.Names() {
			n, err := reg.Get(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(n.Name()).To(Equal(name))
			Expect(n.Category()).To(Equal(nodes.Category))
			Expect(n.Outputs()).NotTo(BeEmpty())
		}
	})
})

var _ = Describe("Space", func() {
	It("uses the default gravity when inputs are not wired", func() {
		out := mustRun(nodes.NewSpace(nil), nodes.Values{})
		w, ok := out.World("space")
		Expect(ok).To(BeTrue())
		Expect(w.Gravity()).To(Equal(world.Vec{X: 0, Y: 9.8}))
	})

	It("accepts integer gravity values", func() {
		out := mustRun(nodes.NewSpace(nil), nodes.Values{"xgravity": 1, "ygravity": -3})
		w, _ := out.World("space")
		Expect(w.Gravity()).To(Equal(world.Vec{X: 1, Y: -3}))
	})

	It("rejects non-numeric gravity", func() {
		_, err := nodes.NewSpace(nil).Run(context.Background(), nodes.Values{"ygravity": "down"})
		Expect(errors.Is(err, nodes.ErrInputType)).To(BeTrue())

		var ie *nodes.InputError
		Expect(errors.As(err, &ie)).To(BeTrue())
		Expect(ie.Node).To(Equal("Space"))
		Expect(ie.Slot).To(Equal("ygravity"))
	})
})

var _ = Describe("shape nodes", func() {
	var w *world.World

	BeforeEach(func() {
		out := mustRun(nodes.NewSpace(nil), nodes.Values{})
		w, _ = out.World("space")
	})

	It("requires a space", func() {
		_, err := nodes.NewDynamicBox(nil).Run(context.Background(), nodes.Values{})
		Expect(errors.Is(err, nodes.ErrMissingInput)).To(BeTrue())
	})

	It("creates a static line with default geometry", func() {
		out := mustRun(nodes.NewStaticLine(nil), nodes.Values{"space": w})
		line, ok := out.Shapes("line")
		Expect(ok).To(BeTrue())
		Expect(line).To(HaveLen(1))
		Expect(line[0].Static()).To(BeTrue())
		a, b := line[0].Endpoints()
		Expect(a).To(Equal(world.Vec{X: 0, Y: 400}))
		Expect(b).To(Equal(world.Vec{X: 0, Y: 500}))
		Expect(line[0].Radius()).To(Equal(5.0))
	})

	It("chains shapes through the optional input", func() {
		boxOut := mustRun(nodes.NewDynamicBox(nil), nodes.Values{"space": w, "x": 20.0, "y": 10.0})
		boxes, _ := boxOut.Shapes("box")

		circleOut := mustRun(nodes.NewDynamicCircle(nil), nodes.Values{"space": w, "shape": boxes, "x": 40.0})
		chain, _ := circleOut.Shapes("circle")

		Expect(chain).To(HaveLen(2))
		Expect(chain[0].Kind).To(Equal(world.KindBox))
		Expect(chain[1].Kind).To(Equal(world.KindCircle))
		Expect(boxes).To(HaveLen(1), "upstream list must not be mutated")
	})

	It("rejects shapes from another space", func() {
		other := world.New(world.Vec{})
		foreign, err := other.AddCircle(world.CircleParams{Radius: 1, Mass: 1})
		Expect(err).NotTo(HaveOccurred())

		_, err = nodes.NewDynamicBox(nil).Run(context.Background(), nodes.Values{
			"space": w,
			"shape": nodes.ShapeList{foreign},
		})
		Expect(errors.Is(err, nodes.ErrForeignShape)).To(BeTrue())
	})

	DescribeTable("rejects out-of-range parameters",
		func(node func() nodes.Node, in nodes.Values) {
			in["space"] = w
			_, err := node().Run(context.Background(), in)
			Expect(errors.Is(err, nodes.ErrParameterBounds)).To(BeTrue())
		},
		Entry("zero box width", func() nodes.Node { return nodes.NewDynamicBox(nil) }, nodes.Values{"width": 0.0}),
		Entry("zero box mass", func() nodes.Node { return nodes.NewDynamicBox(nil) }, nodes.Values{"mass": 0.0}),
		Entry("negative line radius", func() nodes.Node { return nodes.NewStaticLine(nil) }, nodes.Values{"radius": -1.0}),
		Entry("negative elasticity", func() nodes.Node { return nodes.NewStaticLine(nil) }, nodes.Values{"elasticity": -0.5}),
		Entry("zero circle radius", func() nodes.Node { return nodes.NewDynamicCircle(nil) }, nodes.Values{"radius": 0.0}),
	)
})

var _ = Describe("Run", func() {
	var (
		w      *world.World
		shapes nodes.ShapeList
	)

	BeforeEach(func() {
		out := mustRun(nodes.NewSpace(nil), nodes.Values{})
		w, _ = out.World("space")

		lineOut := mustRun(nodes.NewStaticLine(nil), nodes.Values{"space": w})
		lines, _ := lineOut.Shapes("line")

		boxOut := mustRun(nodes.NewDynamicBox(nil), nodes.Values{"space": w, "shape": lines, "x": 100.0, "y": 50.0})
		shapes, _ = boxOut.Shapes("box")
	})

	It("emits one clamped point per frame for every dynamic shape", func() {
		out := mustRun(nodes.NewRun(nil), nodes.Values{"space": w, "shape": shapes})
		text, ok := out.Text("tracking_points")
		Expect(ok).To(BeTrue())

		points, err := tracking.Parse(text)
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(1), "the static line is not tracked")
		Expect(points[0]).To(HaveLen(nodes.DefaultFrameLength))

		first, last := points[0][0], points[0][len(points[0])-1]
		Expect(first.X()).To(BeNumerically("~", 100, 1e-6))
		Expect(last.Y()).To(BeNumerically(">", first.Y()))
		Expect(w.Steps()).To(Equal(nodes.DefaultFrameLength))
	})

	It("clamps positions to the frame", func() {
		out := mustRun(nodes.NewRun(nil), nodes.Values{
			"space": w, "shape": shapes, "width": 50, "height": 20, "frame_length": 3,
		})
		text, _ := out.Text("tracking_points")
		points, err := tracking.Parse(text)
		Expect(err).NotTo(HaveOccurred())
		for _, p := range points[0] {
			Expect(p.X()).To(Equal(49.0))
			Expect(p.Y()).To(Equal(19.0))
		}
	})

	It("returns empty tracks when no frames are requested", func() {
		out := mustRun(nodes.NewRun(nil), nodes.Values{"space": w, "shape": shapes, "frame_length": 0})
		text, _ := out.Text("tracking_points")
		Expect(text).To(Equal("[[]]"))
		Expect(w.Steps()).To(BeZero())
	})

	It("requires the shape input", func() {
		_, err := nodes.NewRun(nil).Run(context.Background(), nodes.Values{"space": w})
		Expect(errors.Is(err, nodes.ErrMissingInput)).To(BeTrue())
	})

	It("rejects a non-positive timestep", func() {
		_, err := nodes.NewRun(nil).Run(context.Background(), nodes.Values{"space": w, "shape": shapes, "delta_t": 0.0})
		Expect(errors.Is(err, nodes.ErrParameterBounds)).To(BeTrue())
	})

	It("rejects frame counts that do not fit in an int", func() {
		_, err := nodes.NewRun(nil).Run(context.Background(), nodes.Values{"space": w, "shape": shapes, "frame_length": 1e19})
		Expect(errors.Is(err, nodes.ErrParameterBounds)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("1e+19"))
	})

	It("rejects fractional frame counts", func() {
		_, err := nodes.NewRun(nil).Run(context.Background(), nodes.Values{"space": w, "shape": shapes, "frame_length": 2.5})
		Expect(errors.Is(err, nodes.ErrInputType)).To(BeTrue())
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := nodes.NewRun(nil).Run(ctx, nodes.Values{"space": w, "shape": shapes})
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})
})

var _ = Describe("Render", func() {
	It("produces one frame per step and the matching tracking points", func() {
		out := mustRun(nodes.NewSpace(nil), nodes.Values{})
		w, _ := out.World("space")
		circleOut := mustRun(nodes.NewDynamicCircle(nil), nodes.Values{"space": w, "x": 30.0, "y": 30.0})
		shapes, _ := circleOut.Shapes("circle")

		rendered := mustRun(nodes.NewRender(nil), nodes.Values{
			"space": w, "shape": shapes, "width": 64, "height": 48, "frame_length": 5,
		})
		frames, ok := rendered.Images("images")
		Expect(ok).To(BeTrue())
		Expect(frames).To(HaveLen(5))
		Expect(frames[0].Bounds().Dx()).To(Equal(64))
		Expect(frames[0].Bounds().Dy()).To(Equal(48))

		text, _ := rendered.Text("tracking_points")
		points, err := tracking.Parse(text)
		Expect(err).NotTo(HaveOccurred())
		Expect(points[0]).To(HaveLen(5))
	})

	It("names itself when given shapes from another space", func() {
		out := mustRun(nodes.NewSpace(nil), nodes.Values{})
		w, _ := out.World("space")
		foreign, err := world.New(world.Vec{}).AddCircle(world.CircleParams{Radius: 1, Mass: 1})
		Expect(err).NotTo(HaveOccurred())

		_, err = nodes.NewRender(nil).Run(context.Background(), nodes.Values{
			"space": w, "shape": nodes.ShapeList{foreign},
		})
		Expect(errors.Is(err, nodes.ErrForeignShape)).To(BeTrue())
		var ie *nodes.InputError
		Expect(errors.As(err, &ie)).To(BeTrue())
		Expect(ie.Node).To(Equal("Render"))
	})

	It("rejects colors that do not parse", func() {
		out := mustRun(nodes.NewSpace(nil), nodes.Values{})
		w, _ := out.World("space")
		_, err := nodes.NewRender(nil).Run(context.Background(), nodes.Values{
			"space": w, "shape": nodes.ShapeList{}, "background": "plaid",
		})
		Expect(err).To(HaveOccurred())
	})
})
