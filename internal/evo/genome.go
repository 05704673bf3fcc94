package evo

import "math/rand/v2"

// Genome is an agent's complete plan: one move per step.
type Genome []Direction

// NewGenome draws length independent, uniformly random moves.
func NewGenome(length int, rng *rand.Rand) Genome {
	g := make(Genome, length)
	for i := range g {
		g[i] = randomDirection(rng)
	}
	return g
}

func (g Genome) Clone() Genome {
	c := make(Genome, len(g))
	copy(c, g)
	return c
}

// Mutate redraws each move with probability rate and reports how many moves
// were redrawn. A redrawn move may land on its old value.
func (g Genome) Mutate(rate float64, rng *rand.Rand) int {
	n := 0
	for i := range g {
		if rng.Float64() < rate {
			g[i] = randomDirection(rng)
			n++
		}
	}
	return n
}

func (g Genome) Equal(other Genome) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if g[i] != other[i] {
			return false
		}
	}
	return true
}
