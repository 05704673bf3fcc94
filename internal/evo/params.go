package evo

import "math"

const (
	DefaultPopulation   = 1000
	DefaultGenomeLength = 1000
	DefaultMutationRate = 0.1
	DefaultGoalReward   = 10000.0
	DefaultGoalRadius   = 5.0
)

// Point is a position on the integer arena grid.
type Point struct {
	X, Y int
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// DistSq returns the squared Euclidean distance between p and q.
func (p Point) DistSq(q Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return dx*dx + dy*dy
}

func (p Point) Dist(q Point) float64 { return math.Sqrt(p.DistSq(q)) }

// Rect is an inclusive live region: points on its edge are still inside.
type Rect struct {
	Min, Max Point
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.Y >= r.Min.Y && p.X <= r.Max.X && p.Y <= r.Max.Y
}

func (r Rect) Empty() bool { return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y }

// World is the fixed geometry every agent of a population moves in.
type World struct {
	Bounds     Rect
	Start      Point
	Goal       Point
	GoalRadius float64
}

// DefaultWorld is the 600x600 arena with the goal near the top edge and the
// start near the bottom.
func DefaultWorld() World {
	return World{
		Bounds:     Rect{Min: Point{2, 2}, Max: Point{598, 558}},
		Start:      Point{300, 490},
		Goal:       Point{300, 10},
		GoalRadius: DefaultGoalRadius,
	}
}

// Params configures a population. It replaces what would otherwise be
// package-level state so that runs are reproducible from a seed.
type Params struct {
	World          World
	PopulationSize int
	GenomeLength   int
	MutationRate   float64
	GoalReward     float64
	Seed           int64
}

func DefaultParams() Params {
	return Params{
		World:          DefaultWorld(),
		PopulationSize: DefaultPopulation,
		GenomeLength:   DefaultGenomeLength,
		MutationRate:   DefaultMutationRate,
		GoalReward:     DefaultGoalReward,
	}
}

// Validate reports the first field that cannot drive a population. The
// returned error wraps ErrInvalidParams.
func (p Params) Validate() error {
	switch {
	case p.PopulationSize < 1:
		return &ParamError{Field: "population size", Reason: "must be at least 1"}
	case p.GenomeLength < 1:
		return &ParamError{Field: "genome length", Reason: "must be at least 1"}
	case math.IsNaN(p.MutationRate) || p.MutationRate < 0 || p.MutationRate > 1:
		return &ParamError{Field: "mutation rate", Reason: "must be within [0, 1]"}
	case !(p.GoalReward > 0):
		return &ParamError{Field: "goal reward", Reason: "must be positive"}
	case !(p.World.GoalRadius > 0):
		return &ParamError{Field: "goal radius", Reason: "must be positive"}
	case p.World.Bounds.Empty():
		return &ParamError{Field: "bounds", Reason: "min corner exceeds max corner"}
	case !p.World.Bounds.Contains(p.World.Start):
		return &ParamError{Field: "start", Reason: "outside the arena bounds"}
	}
	return nil
}
