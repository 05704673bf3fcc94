// Package metrics summarises a run from its per-generation statistics.
package metrics

import "github.com/san-kum/dotevo/internal/sim"

// Defaults returns a fresh instance of every metric. Instances keep state,
// so each simulator needs its own set.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewFirstSolve(),
		NewFewestSteps(),
		NewReachRate(),
		NewBestFitness(),
	}
}

// Names lists the metric names Defaults produces.
func Names() []string {
	ms := Defaults()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name()
	}
	return names
}
