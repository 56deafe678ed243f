// Package random provides the simulator's pseudo-random generators.
//
// Generators are not safe for concurrent use. A Pool owns one generator per
// worker and each parallel task draws only from its own slot.
package random

import (
	"math"
	"math/rand/v2"
)

// maxUint64 as a float, the divisor that maps a raw draw into [0, 1].
const maxUint64 = float64(math.MaxUint64)

// Xorshift is a 64-bit xorshift generator (shift triple 21, 35, 4).
type Xorshift struct {
	state uint64
}

var _ rand.Source = (*Xorshift)(nil)

// NewXorshift creates a generator. A zero seed would lock the generator at
// zero, so it is replaced by a fixed non-zero constant.
func NewXorshift(seed uint64) *Xorshift {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &Xorshift{state: seed}
}

// Uint64 advances the state and returns it.
func (x *Xorshift) Uint64() uint64 {
	x.state ^= x.state << 21
	x.state ^= x.state >> 35
	x.state ^= x.state << 4
	return x.state
}

// Generator draws uniform and Gaussian values from a Source.
type Generator struct {
	src rand.Source
}

// NewGenerator wraps src.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{src: src}
}

// Uint64 returns a raw 64-bit draw.
func (g *Generator) Uint64() uint64 {
	return g.src.Uint64()
}

// Uniform returns a value in [0, 1].
func (g *Generator) Uniform() float64 {
	return float64(g.src.Uint64()) / maxUint64
}

// Gauss returns a standard normal value using the polar (Marsaglia) method.
func (g *Generator) Gauss() float64 {
	for {
		x := 2*g.Uniform() - 1
		y := 2*g.Uniform() - 1
		r := x*x + y*y
		if r > 1 || r == 0 {
			continue
		}
		return x * math.Sqrt(-2*math.Log(r)/r)
	}
}
