package nodes

import (
	"context"

	"go.uber.org/zap"
)

// Category groups every node of this package in a host's node menu.
const Category = "Physics"

// Node is the contract a node-graph host drives: typed input and output
// slots plus a Run function over resolved values.
type Node interface {
	Name() string
	Category() string
	Description() string
	Inputs() []Slot
	Outputs() []Slot
	Run(ctx context.Context, in Values) (Values, error)
}

type node struct {
	name        string
	description string
	inputs      []Slot
	outputs     []Slot
	run         func(ctx context.Context, in Values) (Values, error)
	log         *zap.Logger
}

func (n *node) Name() string        { return n.name }
func (n *node) Category() string    { return Category }
func (n *node) Description() string { return n.description }

func (n *node) Inputs() []Slot {
	out := make([]Slot, len(n.inputs))
	copy(out, n.inputs)
	return out
}

func (n *node) Outputs() []Slot {
	out := make([]Slot, len(n.outputs))
	copy(out, n.outputs)
	return out
}

// Run resolves defaults, validates inputs and invokes the node body.
func (n *node) Run(ctx context.Context, in Values) (Values, error) {
	resolved, err := Resolve(n.name, n.inputs, in)
	if err != nil {
		n.log.Debug("node input rejected", zap.String("node", n.name), zap.Error(err))
		return nil, err
	}
	out, err := n.run(ctx, resolved)
	if err != nil {
		n.log.Debug("node failed", zap.String("node", n.name), zap.Error(err))
		return nil, err
	}
	n.log.Debug("node ran", zap.String("node", n.name))
	return out, nil
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
