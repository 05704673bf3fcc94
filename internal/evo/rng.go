package evo

import "math/rand/v2"

// NewRNG returns the deterministic source a population draws from.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}
