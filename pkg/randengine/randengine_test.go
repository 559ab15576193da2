package randengine

import (
	"testing"
)

func TestSequenceReproducible(t *testing.T) {
	a := New(1377331)
	b := New(1377331)
	for i := 0; i < 1000; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("sequences diverge at draw %d", i)
		}
	}
}

func TestDiscreteDistribution(t *testing.T) {
	e := New(42)

	// a dominant weight must win nearly always.
	weights := []float64{0.001, 100, 0.001}
	wins := 0
	for i := 0; i < 1000; i++ {
		if e.DiscreteDistribution(weights) == 1 {
			wins++
		}
	}
	if wins < 990 {
		t.Errorf("dominant weight won only %d/1000 draws", wins)
	}

	// all-zero weights degrade to the last index instead of panicking.
	if got := e.DiscreteDistribution([]float64{0, 0, 0}); got != 2 {
		t.Errorf("all-zero weights returned %d, expected last index", got)
	}
}

func TestPTrue(t *testing.T) {
	e := New(7)
	hits := 0
	const draws = 10000
	for i := 0; i < draws; i++ {
		if e.PTrue(0.6) {
			hits++
		}
	}
	ratio := float64(hits) / draws
	if ratio < 0.55 || ratio > 0.65 {
		t.Errorf("PTrue(0.6) hit ratio %f, expected ~0.6", ratio)
	}

	if e.PTrue(0) {
		t.Error("PTrue(0) must never hit")
	}
}
