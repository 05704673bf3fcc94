package metrics

import "github.com/san-kum/dotevo/internal/evo"

// FirstSolve reports the first generation in which any agent reached the
// goal, or 0 if none has.
type FirstSolve struct {
	name       string
	generation int
}

func NewFirstSolve() *FirstSolve {
	return &FirstSolve{name: "first_solve"}
}

func (f *FirstSolve) Name() string { return f.name }

func (f *FirstSolve) Observe(s evo.GenerationStats) {
	if f.generation == 0 && s.Reached > 0 {
		f.generation = s.Generation
	}
}

func (f *FirstSolve) Value() float64 { return float64(f.generation) }
func (f *FirstSolve) Reset()         { f.generation = 0 }

// FewestSteps tracks the step record, 0 until the goal is reached.
type FewestSteps struct {
	name  string
	steps int
}

func NewFewestSteps() *FewestSteps {
	return &FewestSteps{name: "fewest_steps"}
}

func (f *FewestSteps) Name() string { return f.name }

func (f *FewestSteps) Observe(s evo.GenerationStats) {
	if s.MinStep != 0 && (f.steps == 0 || s.MinStep < f.steps) {
		f.steps = s.MinStep
	}
}

func (f *FewestSteps) Value() float64 { return float64(f.steps) }
func (f *FewestSteps) Reset()         { f.steps = 0 }
