package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/dotevo/internal/evo"
	"github.com/san-kum/dotevo/internal/sim"
)

// Parameter names accepted by ApplyParams.
const (
	ParamMutationRate = "mutation_rate"
	ParamPopulation   = "population"
	ParamGenomeLength = "genome_length"
	ParamGoalReward   = "goal_reward"
)

// ApplyParams returns base with the named fields overridden.
func ApplyParams(base evo.Params, values map[string]float64) (evo.Params, error) {
	p := base
	for name, v := range values {
		switch name {
		case ParamMutationRate:
			p.MutationRate = v
		case ParamPopulation:
			p.PopulationSize = int(v)
		case ParamGenomeLength:
			p.GenomeLength = int(v)
		case ParamGoalReward:
			p.GoalReward = v
		default:
			return p, fmt.Errorf("unknown parameter: %s", name)
		}
	}
	return p, p.Validate()
}

// GridSearch evaluates every combination of parameter values and keeps the
// one minimising a metric. A metric value of 0 means the run never achieved
// what the metric measures (no solve, no record) and ranks below any
// positive value.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Point is one evaluated grid combination.
type Point struct {
	Params map[string]float64
	Value  float64
}

type search struct {
	ctx        context.Context
	build      func(params map[string]float64) (*sim.Simulator, error)
	cfg        sim.Config
	metricName string
	best       float64
	bestParams map[string]float64
	points     []Point
}

func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*sim.Simulator, error),
	cfg sim.Config,
	metricName string,
) (map[string]float64, float64, error) {
	s, err := g.run(ctx, build, cfg, metricName)
	if err != nil {
		return nil, 0, err
	}
	if math.IsInf(s.best, 1) {
		return s.bestParams, 0, nil
	}
	return s.bestParams, s.best, nil
}

// SearchAll evaluates the grid like Search and returns every combination in
// grid order.
func (g *GridSearch) SearchAll(
	ctx context.Context,
	build func(params map[string]float64) (*sim.Simulator, error),
	cfg sim.Config,
	metricName string,
) ([]Point, error) {
	s, err := g.run(ctx, build, cfg, metricName)
	if err != nil {
		return nil, err
	}
	return s.points, nil
}

func (g *GridSearch) run(
	ctx context.Context,
	build func(params map[string]float64) (*sim.Simulator, error),
	cfg sim.Config,
	metricName string,
) (*search, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("got %d parameter names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	s := &search{
		ctx:        ctx,
		build:      build,
		cfg:        cfg,
		metricName: metricName,
		best:       math.Inf(1),
	}
	if err := g.searchRecursive(s, 0, make(map[string]float64)); err != nil {
		return nil, err
	}
	if s.bestParams == nil {
		return nil, fmt.Errorf("empty grid")
	}
	return s, nil
}

func (g *GridSearch) searchRecursive(s *search, depth int, current map[string]float64) error {
	if depth == len(g.paramNames) {
		sm, err := s.build(current)
		if err != nil {
			return err
		}

		result, err := sm.Run(s.ctx, s.cfg)
		if err != nil {
			return err
		}

		val, ok := result.Metrics[s.metricName]
		if !ok {
			return fmt.Errorf("metric %q not collected", s.metricName)
		}
		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		s.points = append(s.points, Point{Params: params, Value: val})

		if r := rank(val); s.bestParams == nil || r < s.best {
			s.best = r
			s.bestParams = params
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(s, depth+1, newParams); err != nil {
			return err
		}
	}
	return nil
}

func rank(v float64) float64 {
	if v == 0 {
		return math.Inf(1)
	}
	return v
}

// Best picks from points the way Search does: the lowest non-zero value,
// earliest first, or the first point if every value is zero.
func Best(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	best := points[0]
	for _, pt := range points[1:] {
		if rank(pt.Value) < rank(best.Value) {
			best = pt
		}
	}
	return best, true
}
