// Package insights produces content strategy recommendations and the mock
// performance data shown on the dashboard. Randomness and time come from an
// injected Source and clock so results are reproducible.
package insights

import (
	"math/rand"
	"strings"
	"time"
)

// Source supplies pseudo-random integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Generator builds strategy recommendations
type Generator struct {
	source Source
	now    func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithSource replaces the random source
func WithSource(src Source) Option {
	return func(g *Generator) {
		g.source = src
	}
}

// WithClock replaces the clock
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator seeded from the current time
func New(opts ...Option) *Generator {
	g := &Generator{
		source: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// between returns a value in [lo, hi]
func (g *Generator) between(lo, hi int) int {
	return g.source.Intn(hi-lo+1) + lo
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
