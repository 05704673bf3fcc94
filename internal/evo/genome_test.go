package evo

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Genome", func() {
	It("draws only valid codes and keeps the requested length", func() {
		g := NewGenome(500, NewRNG(1))
		Expect(g).To(HaveLen(500))
		for _, d := range g {
			Expect(d.Valid()).To(BeTrue())
		}
	})

	It("uses all eight directions", func() {
		g := NewGenome(2000, NewRNG(2))
		seen := make(map[Direction]bool)
		for _, d := range g {
			seen[d] = true
		}
		Expect(seen).To(HaveLen(int(NumDirections)))
	})

	It("is reproducible from a seed", func() {
		Expect(NewGenome(100, NewRNG(7)).Equal(NewGenome(100, NewRNG(7)))).To(BeTrue())
	})

	Describe("Clone", func() {
		It("copies the moves without aliasing", func() {
			rng := NewRNG(3)
			src := NewGenome(300, rng)
			before := append(Genome(nil), src...)

			c := src.Clone()
			Expect(c).To(HaveLen(len(src)))
			Expect(c.Equal(src)).To(BeTrue())

			c.Mutate(1, rng)
			Expect(src.Equal(before)).To(BeTrue())
			Expect(c.Equal(src)).To(BeFalse())
		})
	})

	Describe("Mutate", func() {
		It("leaves the genome identical at rate 0", func() {
			rng := NewRNG(4)
			g := NewGenome(1000, rng)
			orig := g.Clone()
			Expect(g.Mutate(0, rng)).To(Equal(0))
			Expect(g.Equal(orig)).To(BeTrue())
		})

		It("redraws every position at rate 1", func() {
			rng := NewRNG(5)
			g := NewGenome(1000, rng)
			orig := g.Clone()
			Expect(g.Mutate(1, rng)).To(Equal(1000))

			changed := 0
			for i := range g {
				if g[i] != orig[i] {
					changed++
				}
			}
			// Each redraw keeps its old code with probability 1/8.
			Expect(changed).To(BeNumerically(">", 750))
			Expect(changed).To(BeNumerically("<", 1000))
		})

		It("redraws roughly rate*length positions", func() {
			rng := NewRNG(6)
			g := NewGenome(10000, rng)
			n := g.Mutate(0.1, rng)
			Expect(n).To(BeNumerically("~", 1000, 150))
		})
	})
})
