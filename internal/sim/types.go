package sim

import (
	"errors"

	"github.com/san-kum/dotevo/internal/evo"
)

// ErrRunawayGeneration is returned when a generation outlives its genomes.
// Every agent stops after at most GenomeLength+1 ticks, so seeing it means
// the population was modified behind the driver's back.
var ErrRunawayGeneration = errors.New("sim: generation did not finish within genome length")

type Metric interface {
	Name() string
	Observe(s evo.GenerationStats)
	Value() float64
	Reset()
}

// Observer is notified after each generation is replaced.
type Observer interface {
	OnGeneration(s evo.GenerationStats)
}

// FrameObserver sees the final positions of a generation before it is
// replaced. views is reused between calls.
type FrameObserver interface {
	OnFrame(generation int, views []evo.AgentView)
}

type Config struct {
	Generations int
}

// Result collects a run. Final is the last generation as it stood when all
// of its agents had stopped.
type Result struct {
	History []evo.GenerationStats
	Metrics map[string]float64
	Final   []evo.AgentView
	Ticks   int
}

// Last returns the stats of the final generation.
func (r *Result) Last() (evo.GenerationStats, bool) {
	if len(r.History) == 0 {
		return evo.GenerationStats{}, false
	}
	return r.History[len(r.History)-1], true
}
