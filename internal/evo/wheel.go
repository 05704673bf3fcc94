package evo

import (
	"math/rand/v2"
	"sort"
)

// Wheel is a roulette-wheel snapshot of a generation's fitness. Build it once
// per generation and spin it once per offspring.
type Wheel struct {
	cumulative []float64
}

// NewWheel builds the prefix sums of fitness. Negative entries count as zero.
func NewWheel(fitness []float64) *Wheel {
	cum := make([]float64, len(fitness))
	sum := 0.0
	for i, f := range fitness {
		if f > 0 {
			sum += f
		}
		cum[i] = sum
	}
	return &Wheel{cumulative: cum}
}

func (w *Wheel) Len() int { return len(w.cumulative) }

// Total is the fitness sum the wheel was built from.
func (w *Wheel) Total() float64 {
	if len(w.cumulative) == 0 {
		return 0
	}
	return w.cumulative[len(w.cumulative)-1]
}

// Pick returns the first index whose running fitness sum exceeds draw. When
// no index does (a zero total, or a draw at or past the total) it returns
// the last index. It returns -1 only for an empty wheel.
func (w *Wheel) Pick(draw float64) int {
	n := len(w.cumulative)
	if n == 0 {
		return -1
	}
	i := sort.Search(n, func(i int) bool { return w.cumulative[i] > draw })
	if i == n {
		return n - 1
	}
	return i
}

// Spin draws uniformly in [0, Total) and picks the matching index.
func (w *Wheel) Spin(rng *rand.Rand) int {
	return w.Pick(rng.Float64() * w.Total())
}
