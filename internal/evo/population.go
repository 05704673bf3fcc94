package evo

import (
	"math"
	"math/rand/v2"
)

const unbounded = math.MaxInt

// GenerationStats summarises a generation at the moment it is replaced.
// MinStep is the step record after that generation, 0 while no agent has
// reached the goal.
type GenerationStats struct {
	Generation  int
	BestIndex   int
	BestFitness float64
	MeanFitness float64
	FitnessSum  float64
	BestSteps   int
	BestReached bool
	Reached     int
	Dead        int
	Ticks       int
	MinStep     int
}

// Population is one generation of agents plus the run-wide step record.
type Population struct {
	params     Params
	rng        *rand.Rand
	agents     []*Agent
	fitnessSum float64
	generation int
	best       int
	minStep    int
	ticks      int
}

// NewPopulation seeds a random first generation from p.
func NewPopulation(p Params) (*Population, error) {
	return NewPopulationWithRand(p, NewRNG(p.Seed))
}

// NewPopulationWithRand is NewPopulation drawing from an existing source
// instead of one seeded from p.Seed.
func NewPopulationWithRand(p Params, rng *rand.Rand) (*Population, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	pop := newPopulation(p, rng)
	for i := range pop.agents {
		pop.agents[i] = NewAgent(NewGenome(p.GenomeLength, rng), p.World)
	}
	return pop, nil
}

func newPopulation(p Params, rng *rand.Rand) *Population {
	return &Population{
		params:     p,
		rng:        rng,
		agents:     make([]*Agent, p.PopulationSize),
		generation: 1,
		minStep:    unbounded,
	}
}

func (p *Population) Params() Params { return p.params }
func (p *Population) Size() int      { return len(p.agents) }

// Generation is the 1-based index of the current generation.
func (p *Population) Generation() int { return p.generation }

// Ticks counts the ticks taken by the current generation so far.
func (p *Population) Ticks() int { return p.ticks }

// MinStep returns the fewest steps any agent has needed to reach the goal,
// and false while no agent has.
func (p *Population) MinStep() (int, bool) {
	if p.minStep == unbounded {
		return 0, false
	}
	return p.minStep, true
}

// BestIndex is the index chosen by the latest SelectElite.
func (p *Population) BestIndex() int { return p.best }

// FitnessSum is the total from the latest ComputeFitness.
func (p *Population) FitnessSum() float64 { return p.fitnessSum }

// Tick advances every active agent by one move. Agents that have already
// used more steps than the record are killed instead.
func (p *Population) Tick() {
	w := p.params.World
	for _, a := range p.agents {
		if a.Status != Active {
			continue
		}
		if a.Step > p.minStep {
			a.Status = Dead
			continue
		}
		a.Update(w)
	}
	p.ticks++
}

func (p *Population) AllInactive() bool {
	for _, a := range p.agents {
		if a.Status == Active {
			return false
		}
	}
	return true
}

// Active counts agents still moving.
func (p *Population) Active() int {
	n := 0
	for _, a := range p.agents {
		if a.Status == Active {
			n++
		}
	}
	return n
}

// ComputeFitness scores every agent and caches the sum.
func (p *Population) ComputeFitness() float64 {
	sum := 0.0
	for _, a := range p.agents {
		sum += a.ComputeFitness(p.params.World, p.params.GoalReward)
	}
	p.fitnessSum = sum
	return sum
}

// SelectElite records the fittest agent, earliest index on ties, and lowers
// the step record if that agent reached the goal faster than any before it.
func (p *Population) SelectElite() int {
	best := 0
	for i, a := range p.agents {
		if a.Fitness > p.agents[best].Fitness {
			best = i
		}
	}
	p.best = best
	if a := p.agents[best]; a.Status == ReachedGoal && a.Step < p.minStep {
		p.minStep = a.Step
	}
	return best
}

// Wheel snapshots the current fitness values for parent selection.
func (p *Population) Wheel() *Wheel {
	fitness := make([]float64, len(p.agents))
	for i, a := range p.agents {
		fitness[i] = a.Fitness
	}
	return NewWheel(fitness)
}

// Advance ends the generation: it scores all agents, keeps the fittest as an
// unmutated elite in slot 0, fills the other slots with mutated clones of
// roulette-selected parents and returns the finished generation's stats.
func (p *Population) Advance() GenerationStats {
	p.ComputeFitness()
	best := p.SelectElite()
	stats := p.stats()

	w := p.params.World
	wheel := p.Wheel()
	next := make([]*Agent, len(p.agents))
	next[0] = p.agents[best].CloneAsOffspring(w)
	next[0].Elite = true
	for i := 1; i < len(next); i++ {
		next[i] = p.agents[wheel.Spin(p.rng)].CloneAsOffspring(w)
	}
	for _, a := range next[1:] {
		a.Genome.Mutate(p.params.MutationRate, p.rng)
	}

	p.agents = next
	p.generation++
	p.ticks = 0
	return stats
}

func (p *Population) stats() GenerationStats {
	b := p.agents[p.best]
	s := GenerationStats{
		Generation:  p.generation,
		BestIndex:   p.best,
		BestFitness: b.Fitness,
		FitnessSum:  p.fitnessSum,
		MeanFitness: p.fitnessSum / float64(len(p.agents)),
		BestSteps:   b.Step,
		BestReached: b.Status == ReachedGoal,
		Ticks:       p.ticks,
	}
	for _, a := range p.agents {
		switch a.Status {
		case ReachedGoal:
			s.Reached++
		case Dead:
			s.Dead++
		}
	}
	if m, ok := p.MinStep(); ok {
		s.MinStep = m
	}
	return s
}

// Views fills dst with a read-only view of every agent, reusing its storage.
func (p *Population) Views(dst []AgentView) []AgentView {
	dst = dst[:0]
	for _, a := range p.agents {
		dst = append(dst, a.View())
	}
	return dst
}

// Elite returns the view of the elite slot and false before the first
// replacement.
func (p *Population) Elite() (AgentView, bool) {
	for _, a := range p.agents {
		if a.Elite {
			return a.View(), true
		}
	}
	return AgentView{}, false
}
