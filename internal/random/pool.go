package random

import "fmt"

// Pool holds one generator per worker. The orchestrator creates it once and
// hands worker i exclusive use of slot i.
type Pool struct {
	seed uint64
	gens []*Generator
}

// NewPool creates workers generators derived from seed. Equal seeds and
// worker counts give identical streams.
func NewPool(workers int, seed uint64) *Pool {
	if workers < 1 {
		panic(fmt.Sprintf("random: invalid worker count %d", workers))
	}
	p := &Pool{seed: seed, gens: make([]*Generator, workers)}
	sm := seed
	for i := range p.gens {
		p.gens[i] = NewGenerator(NewXorshift(splitmix64(&sm)))
	}
	return p
}

// Workers returns the number of slots.
func (p *Pool) Workers() int {
	return len(p.gens)
}

// Seed returns the base seed the pool was built from.
func (p *Pool) Seed() uint64 {
	return p.seed
}

// Worker returns the generator owned by worker i.
func (p *Pool) Worker(i int) *Generator {
	if i < 0 || i >= len(p.gens) {
		panic(fmt.Sprintf("random: worker %d out of range [0, %d)", i, len(p.gens)))
	}
	return p.gens[i]
}

// splitmix64 expands one seed into well-separated per-worker seeds.
func splitmix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
