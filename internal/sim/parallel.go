package sim

import (
	"context"
	"sync"

	"github.com/san-kum/dotevo/internal/evo"
)

// Ensemble runs independent populations that differ only in their seed.
// Runs share nothing, so each gets its own goroutine.
type Ensemble struct {
	params  evo.Params
	numRuns int
	build   func(pop *evo.Population) *Simulator
}

// NewEnsemble prepares numRuns runs seeded params.Seed, params.Seed+1, ...
// build wraps each population in a simulator and must not share metrics or
// observers between calls.
func NewEnsemble(params evo.Params, numRuns int, build func(pop *evo.Population) *Simulator) *Ensemble {
	if build == nil {
		build = func(pop *evo.Population) *Simulator { return New(pop) }
	}
	return &Ensemble{params: params, numRuns: numRuns, build: build}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			p := e.params
			p.Seed = e.params.Seed + int64(idx)

			pop, err := evo.NewPopulation(p)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = e.build(pop).Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
