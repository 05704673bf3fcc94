package evo

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Agent", func() {
	var w World

	BeforeEach(func() {
		w = smallWorld()
	})

	It("starts active at the world's start", func() {
		a := NewAgent(Genome{North}, w)
		Expect(a.Pos).To(Equal(w.Start))
		Expect(a.Status).To(Equal(Active))
		Expect(a.Step).To(BeZero())
		Expect(a.Elite).To(BeFalse())
	})

	It("moves one cell per update and advances the cursor", func() {
		a := NewAgent(Genome{East, East, SouthWest}, w)
		a.Update(w)
		a.Update(w)
		a.Update(w)
		Expect(a.Pos).To(Equal(Point{51, 51}))
		Expect(a.Step).To(Equal(3))
		Expect(a.Status).To(Equal(Active))
	})

	It("dies once the genome is exhausted without moving", func() {
		a := NewAgent(Genome{South}, w)
		a.Update(w)
		Expect(a.Status).To(Equal(Active))
		a.Update(w)
		Expect(a.Status).To(Equal(Dead))
		Expect(a.Pos).To(Equal(Point{50, 51}))
		Expect(a.Step).To(Equal(1))
	})

	It("dies on the same tick it leaves the bounds", func() {
		w.Start = Point{0, 50}
		a := NewAgent(Genome{West, East}, w)
		a.Update(w)
		Expect(a.Status).To(Equal(Dead))
		Expect(a.Pos).To(Equal(Point{-1, 50}))
	})

	It("prefers death over the goal when a move does both", func() {
		w.Start = Point{0, 50}
		w.Goal = Point{-1, 50}
		a := NewAgent(Genome{West}, w)
		a.Update(w)
		Expect(a.Status).To(Equal(Dead))
		Expect(a.ComputeFitness(w, DefaultGoalReward)).To(BeNumerically(">", 0))
	})

	It("reaches the goal strictly inside the radius", func() {
		w.Goal = Point{50, 44}
		a := NewAgent(Genome{North, North}, w)
		a.Update(w)
		Expect(a.Status).To(Equal(Active), "distance 5 is not inside a radius of 5")
		a.Update(w)
		Expect(a.Status).To(Equal(ReachedGoal))
	})

	It("ignores updates after a terminal state", func() {
		w.Goal = Point{50, 49}
		a := NewAgent(Genome{North, North, North}, w)
		a.Update(w)
		Expect(a.Status).To(Equal(ReachedGoal))
		a.Update(w)
		a.Update(w)
		Expect(a.Status).To(Equal(ReachedGoal))
		Expect(a.Step).To(Equal(1))
		Expect(a.Pos).To(Equal(Point{50, 49}))
	})

	Describe("ComputeFitness", func() {
		It("rewards reaching the goal by K over steps squared", func() {
			a := &Agent{Status: ReachedGoal, Step: 4}
			Expect(a.ComputeFitness(w, 10000)).To(BeNumerically("==", 625))
		})

		It("scores unfinished runs by inverse squared distance", func() {
			a := &Agent{Status: Dead, Pos: Point{50, 40}}
			Expect(a.ComputeFitness(w, 10000)).To(BeNumerically("~", 0.01, 1e-12))
		})

		It("is always strictly positive", func() {
			for _, pos := range []Point{{50, 30}, {50, 31}, {0, 0}, {-1000, 5000}} {
				a := &Agent{Status: Dead, Pos: pos}
				Expect(a.ComputeFitness(w, DefaultGoalReward)).To(BeNumerically(">", 0))
			}
		})
	})

	It("clones offspring with a private genome and a reset run", func() {
		a := NewAgent(Genome{North, North, East}, w)
		a.Update(w)
		a.Fitness = 3
		a.Elite = true

		c := a.CloneAsOffspring(w)
		Expect(c.Genome.Equal(a.Genome)).To(BeTrue())
		Expect(c.Pos).To(Equal(w.Start))
		Expect(c.Step).To(BeZero())
		Expect(c.Status).To(Equal(Active))
		Expect(c.Fitness).To(BeZero())
		Expect(c.Elite).To(BeFalse())

		c.Genome[0] = South
		Expect(a.Genome[0]).To(Equal(North))
	})
})
