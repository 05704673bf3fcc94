package evo

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Wheel", func() {
	It("picks the only fit agent at a draw of zero", func() {
		w := NewWheel([]float64{1, 0, 0})
		Expect(w.Pick(0)).To(Equal(0))
	})

	It("skips leading zero-fitness agents", func() {
		w := NewWheel([]float64{0, 0, 1})
		for _, draw := range []float64{0, 0.5, 0.999} {
			Expect(w.Pick(draw)).To(Equal(2))
		}
	})

	It("falls back to the last agent when the scan is exhausted", func() {
		w := NewWheel([]float64{0, 0, 1})
		Expect(w.Pick(1)).To(Equal(2))
		Expect(w.Pick(5)).To(Equal(2))
	})

	It("falls back to the last agent for a zero total", func() {
		w := NewWheel([]float64{0, 0, 0, 0})
		Expect(w.Total()).To(BeZero())
		Expect(w.Pick(0)).To(Equal(3))
	})

	It("returns -1 when empty", func() {
		Expect(NewWheel(nil).Pick(0)).To(Equal(-1))
	})

	It("maps draws to the interval they fall in", func() {
		w := NewWheel([]float64{1, 2, 3})
		Expect(w.Total()).To(BeNumerically("==", 6))
		Expect(w.Pick(0.99)).To(Equal(0))
		Expect(w.Pick(1)).To(Equal(1))
		Expect(w.Pick(2.5)).To(Equal(1))
		Expect(w.Pick(3)).To(Equal(2))
		Expect(w.Pick(5.99)).To(Equal(2))
	})

	It("selects in proportion to fitness", func() {
		w := NewWheel([]float64{1, 3})
		rng := NewRNG(11)
		counts := [2]int{}
		for i := 0; i < 20000; i++ {
			counts[w.Spin(rng)]++
		}
		Expect(float64(counts[1]) / 20000).To(BeNumerically("~", 0.75, 0.02))
	})
})
