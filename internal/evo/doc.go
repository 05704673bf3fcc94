// Package evo implements the evolutionary core of the dot lab.
//
// A [Population] of [Agent] values walks a fixed [World]. Each agent follows
// its [Genome], a fixed-length plan of compass [Direction] moves, until it
// leaves the arena, runs out of moves or reaches the goal. After every agent
// has stopped, [Population.Advance] scores the generation, keeps the fittest
// agent as an unmutated elite and refills the rest by roulette selection
// ([Wheel]) followed by point mutation.
//
// # Driving a population
//
//	pop, err := evo.NewPopulation(evo.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	for {
//	    for !pop.AllInactive() {
//	        pop.Tick()
//	    }
//	    stats := pop.Advance()
//	    fmt.Println(stats.Generation, stats.MinStep)
//	}
//
// All randomness comes from one seeded source per population, so two
// populations built from the same [Params] evolve identically.
package evo
