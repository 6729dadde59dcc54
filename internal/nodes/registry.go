package nodes

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Registry maps node names to constructors, the way a host discovers the
// nodes a plugin exports.
type Registry struct {
	nodes map[string]func(*zap.Logger) Node
	log   *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	r := &Registry{
		nodes: make(map[string]func(*zap.Logger) Node),
		log:   nopIfNil(log),
	}

	r.nodes["Space"] = NewSpace
	r.nodes["StaticLine"] = NewStaticLine
	r.nodes["DynamicBox"] = NewDynamicBox
	r.nodes["DynamicCircle"] = NewDynamicCircle
	r.nodes["Run"] = NewRun
	r.nodes["Render"] = NewRender

	return r
}

func (r *Registry) Get(name string) (Node, error) {
	fn, ok := r.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	return fn(r.log.Named(name)), nil
}

// Names lists registered nodes alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
