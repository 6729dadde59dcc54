package optim

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Param is one swept dimension: a dotted scene path and the values it takes.
type Param struct {
	Path   string
	Values []float64
}

// ParseParam reads "path=v1,v2,..." or "path=start:stop:step".
func ParseParam(s string) (Param, error) {
	path, list, ok := strings.Cut(s, "=")
	if !ok || path == "" || list == "" {
		return Param{}, fmt.Errorf("invalid sweep %q, want path=v1,v2 or path=start:stop:step", s)
	}

	if parts := strings.Split(list, ":"); len(parts) == 3 {
		var bounds [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return Param{}, fmt.Errorf("invalid sweep %q: %w", s, err)
			}
			bounds[i] = v
		}
		start, stop, step := bounds[0], bounds[1], bounds[2]
		if step <= 0 || stop < start {
			return Param{}, fmt.Errorf("invalid sweep range %q", list)
		}
		var values []float64
		n := int(math.Floor((stop-start)/step + 1e-9))
		for i := 0; i <= n; i++ {
			values = append(values, start+float64(i)*step)
		}
		return Param{Path: path, Values: values}, nil
	}

	var values []float64
	for _, p := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Param{}, fmt.Errorf("invalid sweep %q: %w", s, err)
		}
		values = append(values, v)
	}
	return Param{Path: path, Values: values}, nil
}

// Evaluation is one point of the grid and the objective it produced.
type Evaluation struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	params   []Param
	maximize bool
}

func NewGridSearch(params ...Param) *GridSearch {
	return &GridSearch{params: params}
}

// Maximize makes Search prefer the largest objective instead of the smallest.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, p := range g.params {
		n *= len(p.Values)
	}
	return n
}

// Search evaluates every grid point in order and returns them all together
// with the best one. Failed evaluations are kept with their error and never
// win. The returned best is nil when every point failed.
func (g *GridSearch) Search(
	ctx context.Context,
	evaluate func(ctx context.Context, params map[string]float64) (float64, error),
) (*Evaluation, []Evaluation, error) {
	all := make([]Evaluation, 0, g.Size())
	if err := g.searchRecursive(ctx, 0, map[string]float64{}, evaluate, &all); err != nil {
		return nil, all, err
	}

	var best *Evaluation
	for i := range all {
		e := &all[i]
		if e.Err != nil || math.IsNaN(e.Value) {
			continue
		}
		if best == nil || g.better(e.Value, best.Value) {
			best = e
		}
	}
	return best, all, nil
}

func (g *GridSearch) better(v, than float64) bool {
	if g.maximize {
		return v > than
	}
	return v < than
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	evaluate func(context.Context, map[string]float64) (float64, error),
	all *[]Evaluation,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.params) {
		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		val, err := evaluate(ctx, params)
		*all = append(*all, Evaluation{Params: params, Value: val, Err: err})
		return nil
	}

	p := g.params[depth]
	for _, val := range p.Values {
		current[p.Path] = val
		if err := g.searchRecursive(ctx, depth+1, current, evaluate, all); err != nil {
			return err
		}
	}
	delete(current, p.Path)
	return nil
}
