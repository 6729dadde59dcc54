// Package nodes exposes the 2D rigid-body physics scene as graph nodes.
//
// Each node is a thin adapter over the Chipmunk engine: it resolves its typed
// input slots (applying defaults), makes one or two engine calls and returns
// a handle or derived data:
//
//   - [NewSpace]: simulation world with a gravity vector
//   - [NewStaticLine]: static segment attached to the world
//   - [NewDynamicBox], [NewDynamicCircle]: dynamic bodies
//   - [NewRun]: steps the world, returns clamped tracking points as JSON
//   - [NewRender]: steps the world, returns one rasterized frame per step
//
// # Wiring
//
// Shape nodes accept an optional "shape" input and return that list with
// their own shape appended, so a chain of shape nodes ends in the list a Run
// or Render node tracks:
//
//	reg := nodes.NewRegistry(logger)
//	space, _ := reg.Get("Space")
//	out, _ := space.Run(ctx, nodes.Values{"ygravity": 9.8})
//	w, _ := out.World("space")
//
// Run and Render advance the world in place; running them twice continues the
// same simulation.
package nodes
