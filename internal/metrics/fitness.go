package metrics

import (
	"math"

	"github.com/san-kum/dotevo/internal/evo"
)

// ReachRate is the mean fraction of each generation that reached the goal.
type ReachRate struct {
	name    string
	sum     float64
	samples int
}

func NewReachRate() *ReachRate {
	return &ReachRate{name: "reach_rate"}
}

func (r *ReachRate) Name() string {
	return r.name
}

func (r *ReachRate) Observe(s evo.GenerationStats) {
	size := s.Reached + s.Dead
	if size == 0 {
		return
	}
	r.sum += float64(s.Reached) / float64(size)
	r.samples++
}

func (r *ReachRate) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.sum / float64(r.samples)
}

func (r *ReachRate) Reset() {
	r.sum = 0
	r.samples = 0
}

// BestFitness is the highest single-agent fitness seen in any generation.
type BestFitness struct {
	name string
	best float64
}

func NewBestFitness() *BestFitness {
	return &BestFitness{name: "best_fitness"}
}

func (b *BestFitness) Name() string {
	return b.name
}

func (b *BestFitness) Observe(s evo.GenerationStats) {
	b.best = math.Max(b.best, s.BestFitness)
}

func (b *BestFitness) Value() float64 {
	return b.best
}

func (b *BestFitness) Reset() {
	b.best = 0
}
