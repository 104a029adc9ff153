// Package optim searches scene parameters for the run that minimises a
// metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/experiment"
)

var ErrUnknownParam = errors.New("optim: unknown parameter")

// setters are the scene parameters a search may vary.
var setters = map[string]func(*config.Config, float64){
	"diffusion": func(c *config.Config, v float64) { c.Diffusion = v },
	"dt":        func(c *config.Config, v float64) { c.Dt = v },
	"n":         func(c *config.Config, v float64) { c.N = int(v) },
	"frames":    func(c *config.Config, v float64) { c.Frames = int(v) },
}

func Params() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply returns a copy of base with params set.
func Apply(base *config.Config, params map[string]float64) (*config.Config, error) {
	cfg := base.Clone()
	for name, v := range params {
		set, ok := setters[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
		set(cfg, v)
	}
	return cfg, nil
}

// Outcome is one evaluated point of the grid.
type Outcome struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of runs a search performs.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs base once per grid point and returns the point with the
// smallest metricName, plus every outcome in grid order. A point whose
// scene is invalid or whose run fails aborts the search.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (Outcome, []Outcome, error) {
	best := Outcome{Value: math.Inf(1)}
	all := make([]Outcome, 0, g.Size())

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, metricName, &best, &all)
	if err != nil {
		return Outcome{}, all, err
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	metricName string,
	best *Outcome,
	all *[]Outcome,
) error {
	if depth == len(g.paramNames) {
		if err := ctx.Err(); err != nil {
			return err
		}
		val, err := evaluate(ctx, base, current, metricName)
		if err != nil {
			return fmt.Errorf("%v: %w", current, err)
		}

		out := Outcome{Params: copyParams(current), Value: val}
		*all = append(*all, out)
		if val < best.Value {
			*best = out
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := copyParams(current)
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, metricName, best, all); err != nil {
			return err
		}
	}
	return nil
}

func evaluate(ctx context.Context, base *config.Config, params map[string]float64, metricName string) (float64, error) {
	cfg, err := Apply(base, params)
	if err != nil {
		return 0, err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return 0, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("unknown metric: %s", metricName)
	}
	return val, nil
}

func copyParams(p map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
