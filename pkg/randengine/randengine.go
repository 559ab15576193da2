// Package randengine wraps golang.org/x/exp/rand behind a strictly
// sequential, request-scoped engine. For a fixed seed the sequence of
// draws is bit-for-bit reproducible, which the whole simulation relies on.
package randengine

import (
	"golang.org/x/exp/rand"
)

type Engine struct {
	*rand.Rand
}

func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed))}
}

// DiscreteDistribution draws an index with probability proportional to
// its weight. All-zero weights degrade to the last index.
func (e *Engine) DiscreteDistribution(weight []float64) int {
	total := 0.0
	for _, w := range weight {
		total += w
	}
	random := total * e.Float64()
	sum := 0.0
	for i, w := range weight {
		sum += w
		if sum > random {
			return i
		}
	}
	return len(weight) - 1
}

// PTrue returns true with probability p.
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}
