// Package modem maps bit blocks to constellation points and back.
package modem

import (
	"context"
	"fmt"

	"github.com/jeongseonghan/bersim/internal/block"
	"github.com/jeongseonghan/bersim/internal/parallel"
)

// Tables holds one Constellation per modulation. It is read-only after
// NewTables and safe for concurrent use.
type Tables struct {
	workers int
	tables  map[Modulation]*Constellation
}

// NewTables builds every constellation, one goroutine per modulation.
func NewTables(ctx context.Context, workers int) (*Tables, error) {
	if workers < 1 {
		workers = 1
	}
	mods := Modulations()
	built := make([]*Constellation, len(mods))
	sections := make([]func(context.Context) error, len(mods))
	for i, m := range mods {
		sections[i] = func(context.Context) error {
			built[i] = NewConstellation(m)
			return nil
		}
	}
	if err := parallel.Sections(ctx, sections...); err != nil {
		return nil, fmt.Errorf("build constellations: %w", err)
	}

	t := &Tables{workers: workers, tables: make(map[Modulation]*Constellation, len(mods))}
	for i, m := range mods {
		t.tables[m] = built[i]
	}
	return t, nil
}

// Constellation returns the table for mod.
func (t *Tables) Constellation(mod Modulation) *Constellation {
	c, ok := t.tables[mod]
	if !ok {
		panic(fmt.Sprintf("modem: unknown modulation %d", int(mod)))
	}
	return c
}

// Modulate maps each block, read as a big-endian codeword, to its point.
func (t *Tables) Modulate(ctx context.Context, blocks []*block.Block, mod Modulation) ([]complex128, error) {
	c := t.Constellation(mod)
	if len(blocks) == 0 {
		return nil, nil
	}
	out := make([]complex128, len(blocks))
	err := parallel.For(ctx, t.workers, len(blocks), func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = c.Point(blocks[i].Uint64())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("modulate %s: %w", mod.Name(), err)
	}
	return out, nil
}

// Demodulate maps each received point to a block of BitsPerSymbol bits.
func (t *Tables) Demodulate(ctx context.Context, points []complex128, mod Modulation) ([]*block.Block, error) {
	c := t.Constellation(mod)
	if len(points) == 0 {
		return nil, nil
	}
	out := block.NewBlocks(len(points), mod.BitsPerSymbol())
	err := parallel.For(ctx, t.workers, len(points), func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i].SetUint64(c.Demap(points[i]))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("demodulate %s: %w", mod.Name(), err)
	}
	return out, nil
}
