package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/dotevo/internal/evo"
)

func gen(n, reached, dead, minStep int, best float64) evo.GenerationStats {
	return evo.GenerationStats{Generation: n, Reached: reached, Dead: dead, MinStep: minStep, BestFitness: best}
}

func TestFirstSolve(t *testing.T) {
	m := NewFirstSolve()
	m.Observe(gen(1, 0, 10, 0, 0.1))
	if m.Value() != 0 {
		t.Errorf("expected 0 before any solve, got %v", m.Value())
	}
	m.Observe(gen(2, 1, 9, 400, 0.06))
	m.Observe(gen(3, 4, 6, 380, 0.07))
	if m.Value() != 2 {
		t.Errorf("expected first solve at 2, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected 0 after reset")
	}
}

func TestFewestSteps(t *testing.T) {
	m := NewFewestSteps()
	for _, s := range []evo.GenerationStats{
		gen(1, 0, 10, 0, 0),
		gen(2, 1, 9, 420, 0),
		gen(3, 2, 8, 410, 0),
		gen(4, 2, 8, 410, 0),
	} {
		m.Observe(s)
	}
	if m.Value() != 410 {
		t.Errorf("expected 410, got %v", m.Value())
	}
}

func TestReachRate(t *testing.T) {
	m := NewReachRate()
	if m.Value() != 0 {
		t.Error("expected 0 with no samples")
	}
	m.Observe(gen(1, 0, 10, 0, 0))
	m.Observe(gen(2, 5, 5, 0, 0))
	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("expected 0.25, got %v", m.Value())
	}
}

func TestBestFitness(t *testing.T) {
	m := NewBestFitness()
	m.Observe(gen(1, 0, 1, 0, 0.5))
	m.Observe(gen(2, 0, 1, 0, 0.2))
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %v", m.Value())
	}
}

func TestDefaultsAreFresh(t *testing.T) {
	a, b := Defaults(), Defaults()
	if len(a) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(a))
	}
	a[0].Observe(gen(1, 1, 0, 1, 1))
	if b[0].Value() != 0 {
		t.Error("Defaults returned shared metric state")
	}
	want := []string{"first_solve", "fewest_steps", "reach_rate", "best_fitness"}
	for i, name := range Names() {
		if name != want[i] {
			t.Errorf("metric %d: expected %s, got %s", i, want[i], name)
		}
	}
}
