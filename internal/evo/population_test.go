package evo

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Params", func() {
	It("accepts the defaults", func() {
		Expect(DefaultParams().Validate()).To(Succeed())
	})

	DescribeTable("rejects invalid fields",
		func(mutate func(*Params), field string) {
			p := DefaultParams()
			mutate(&p)
			err := p.Validate()
			Expect(errors.Is(err, ErrInvalidParams)).To(BeTrue())
			var pe *ParamError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Field).To(Equal(field))
		},
		Entry("empty population", func(p *Params) { p.PopulationSize = 0 }, "population size"),
		Entry("empty genome", func(p *Params) { p.GenomeLength = 0 }, "genome length"),
		Entry("rate above one", func(p *Params) { p.MutationRate = 1.5 }, "mutation rate"),
		Entry("negative rate", func(p *Params) { p.MutationRate = -0.1 }, "mutation rate"),
		Entry("zero reward", func(p *Params) { p.GoalReward = 0 }, "goal reward"),
		Entry("zero radius", func(p *Params) { p.World.GoalRadius = 0 }, "goal radius"),
		Entry("inverted bounds", func(p *Params) { p.World.Bounds.Min.X = 700 }, "bounds"),
		Entry("start outside", func(p *Params) { p.World.Start = Point{1, 1} }, "start"),
	)

	It("refuses to build a population from invalid params", func() {
		p := DefaultParams()
		p.PopulationSize = -3
		_, err := NewPopulation(p)
		Expect(err).To(MatchError(ErrInvalidParams))
	})
})

var _ = Describe("Population", func() {
	var pop *Population

	BeforeEach(func() {
		var err error
		pop, err = NewPopulation(smallParams(42))
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts at generation one with no record and no elite", func() {
		Expect(pop.Generation()).To(Equal(1))
		Expect(pop.Size()).To(Equal(40))
		_, ok := pop.MinStep()
		Expect(ok).To(BeFalse())
		_, ok = pop.Elite()
		Expect(ok).To(BeFalse())
	})

	It("finishes every generation within genome length + 1 ticks", func() {
		for i := 0; i <= pop.Params().GenomeLength; i++ {
			pop.Tick()
		}
		Expect(pop.AllInactive()).To(BeTrue())
		Expect(pop.Active()).To(BeZero())
	})

	It("evolves identically from the same seed", func() {
		other, err := NewPopulation(smallParams(42))
		Expect(err).NotTo(HaveOccurred())
		for g := 0; g < 3; g++ {
			runToEnd(pop)
			runToEnd(other)
			Expect(pop.Advance()).To(Equal(other.Advance()))
		}
		Expect(pop.Views(nil)).To(Equal(other.Views(nil)))
	})

	It("computes strictly positive fitness for every agent", func() {
		runToEnd(pop)
		sum := pop.ComputeFitness()
		total := 0.0
		for _, a := range pop.agents {
			Expect(a.Fitness).To(BeNumerically(">", 0))
			total += a.Fitness
		}
		Expect(sum).To(BeNumerically("~", total, 1e-9))
		Expect(pop.FitnessSum()).To(Equal(sum))
	})

	Describe("SelectElite", func() {
		It("keeps the earliest index on ties", func() {
			for _, a := range pop.agents {
				a.Fitness = 1
			}
			pop.agents[7].Fitness = 2
			pop.agents[9].Fitness = 2
			Expect(pop.SelectElite()).To(Equal(7))
			Expect(pop.BestIndex()).To(Equal(7))
		})

		It("only lowers the step record", func() {
			for _, a := range pop.agents {
				a.Fitness = 0.001
			}
			best := pop.agents[3]
			best.Status, best.Step, best.Fitness = ReachedGoal, 30, 5
			record := func() int {
				m, ok := pop.MinStep()
				Expect(ok).To(BeTrue())
				return m
			}
			pop.SelectElite()
			Expect(record()).To(Equal(30))

			best.Step = 45
			pop.SelectElite()
			Expect(record()).To(Equal(30))

			best.Step = 25
			pop.SelectElite()
			Expect(record()).To(Equal(25))
		})

		It("ignores an elite that did not reach the goal", func() {
			pop.agents[0].Fitness = 9
			pop.agents[0].Status = Dead
			pop.agents[0].Step = 2
			pop.SelectElite()
			_, ok := pop.MinStep()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Tick", func() {
		It("kills agents that exceed the step record", func() {
			p := smallParams(1)
			p.PopulationSize = 1
			p.GenomeLength = 10
			var err error
			pop, err = NewPopulation(p)
			Expect(err).NotTo(HaveOccurred())
			a := pop.agents[0]
			a.Genome = Genome{East, West, East, West, East, West, East, West, East, West}
			pop.minStep = 2

			pop.Tick()
			pop.Tick()
			pop.Tick()
			Expect(a.Status).To(Equal(Active))
			Expect(a.Step).To(Equal(3))

			pop.Tick()
			Expect(a.Status).To(Equal(Dead))
			Expect(a.Step).To(Equal(3))
			Expect(pop.Ticks()).To(Equal(4))
		})
	})

	Describe("Advance", func() {
		It("keeps the population size", func() {
			for g := 0; g < 4; g++ {
				runToEnd(pop)
				pop.Advance()
				Expect(pop.Size()).To(Equal(40))
			}
			Expect(pop.Generation()).To(Equal(5))
		})

		It("resets every offspring to the start", func() {
			runToEnd(pop)
			pop.Advance()
			Expect(pop.Ticks()).To(BeZero())
			for _, v := range pop.Views(nil) {
				Expect(v.Pos).To(Equal(pop.Params().World.Start))
				Expect(v.Status).To(Equal(Active))
				Expect(v.Step).To(BeZero())
			}
		})

		It("carries exactly one unmutated elite in slot 0", func() {
			p := smallParams(9)
			p.MutationRate = 1
			var err error
			pop, err = NewPopulation(p)
			Expect(err).NotTo(HaveOccurred())
			runToEnd(pop)

			prev := make([]Genome, pop.Size())
			for i, a := range pop.agents {
				prev[i] = a.Genome.Clone()
			}

			stats := pop.Advance()

			elites := 0
			for _, a := range pop.agents {
				if a.Elite {
					elites++
				}
			}
			Expect(elites).To(Equal(1))
			Expect(pop.agents[0].Elite).To(BeTrue())
			Expect(pop.agents[0].Genome.Equal(prev[stats.BestIndex])).To(BeTrue())

			elite, ok := pop.Elite()
			Expect(ok).To(BeTrue())
			Expect(elite.Pos).To(Equal(p.World.Start))

			for _, a := range pop.agents[1:] {
				for _, g := range prev {
					Expect(a.Genome.Equal(g)).To(BeFalse())
				}
			}
		})

		It("never mutates the parents' genomes", func() {
			runToEnd(pop)
			old := pop.agents
			before := make([]Genome, len(old))
			for i, a := range old {
				before[i] = a.Genome.Clone()
			}
			pop.Advance()
			for i, a := range old {
				Expect(a.Genome.Equal(before[i])).To(BeTrue())
			}
		})

		It("reports the finished generation", func() {
			runToEnd(pop)
			ticks := pop.Ticks()
			stats := pop.Advance()
			Expect(stats.Generation).To(Equal(1))
			Expect(stats.Ticks).To(Equal(ticks))
			Expect(stats.Reached + stats.Dead).To(Equal(40))
			Expect(stats.BestFitness).To(BeNumerically(">=", stats.MeanFitness))
			Expect(stats.MeanFitness).To(BeNumerically("~", stats.FitnessSum/40, 1e-12))
		})

		It("keeps the step record non-increasing", func() {
			last := 0
			for g := 0; g < 30; g++ {
				runToEnd(pop)
				stats := pop.Advance()
				if last != 0 {
					Expect(stats.MinStep).NotTo(BeZero())
					Expect(stats.MinStep).To(BeNumerically("<=", last))
				}
				last = stats.MinStep
			}
		})
	})

	It("solves the one-agent, one-move world", func() {
		p := Params{
			World: World{
				Bounds:     Rect{Min: Point{0, 0}, Max: Point{20, 20}},
				Start:      Point{10, 10},
				Goal:       Point{10, 9},
				GoalRadius: 5,
			},
			PopulationSize: 1,
			GenomeLength:   1,
			MutationRate:   DefaultMutationRate,
			GoalReward:     DefaultGoalReward,
		}
		var err error
		pop, err = NewPopulation(p)
		Expect(err).NotTo(HaveOccurred())
		pop.agents[0].Genome = Genome{North}

		pop.Tick()
		Expect(pop.agents[0].Status).To(Equal(ReachedGoal))
		Expect(pop.AllInactive()).To(BeTrue())

		Expect(pop.ComputeFitness()).To(BeNumerically("==", DefaultGoalReward))

		stats := pop.Advance()
		Expect(stats.MinStep).To(Equal(1))
		Expect(stats.BestReached).To(BeTrue())
		Expect(pop.Size()).To(Equal(1))

		a := pop.agents[0]
		Expect(a.Elite).To(BeTrue())
		Expect(a.Genome).To(Equal(Genome{North}))
		Expect(a.Pos).To(Equal(Point{10, 10}))
		Expect(a.Status).To(Equal(Active))
	})
})
