// Package fec implements the block codes used by the simulator: Hamming
// (7, 4), a cyclic (8, 5) code and two (15, k) BCH codes decoded by
// syndrome table lookup.
package fec

import (
	"context"
	"fmt"

	"github.com/jeongseonghan/bersim/internal/block"
	"github.com/jeongseonghan/bersim/internal/parallel"
)

type blockCodec interface {
	encode(dst, src *block.Block)
	decode(dst, src *block.Block)
}

type passthrough struct{}

func (passthrough) encode(dst, src *block.Block) { block.Copy(dst, 0, src, 0, src.Len()) }
func (passthrough) decode(dst, src *block.Block) { block.Copy(dst, 0, src, 0, src.Len()) }

// Codec holds the per-scheme encoders and the precomputed syndrome tables.
// It is immutable after NewCodec and safe for concurrent use.
type Codec struct {
	workers int
	codecs  map[Scheme]blockCodec
}

// NewCodec builds the generator polynomials and syndrome tables for all
// schemes. Tables are built concurrently, one goroutine per code.
func NewCodec(ctx context.Context, workers int) (*Codec, error) {
	if workers < 1 {
		workers = 1
	}
	var c85, b1557, b1575 *cyclic
	err := parallel.Sections(ctx,
		func(context.Context) error { c85 = newCyclic(Cyclic85.info()); return nil },
		func(context.Context) error { b1557 = newCyclic(BCH1557.info()); return nil },
		func(context.Context) error { b1575 = newCyclic(BCH1575.info()); return nil },
	)
	if err != nil {
		return nil, fmt.Errorf("build syndrome tables: %w", err)
	}
	return &Codec{
		workers: workers,
		codecs: map[Scheme]blockCodec{
			None:      passthrough{},
			Hamming74: hamming74{},
			Cyclic85:  c85,
			BCH1557:   b1557,
			BCH1575:   b1575,
		},
	}, nil
}

func (c *Codec) lookup(s Scheme) blockCodec {
	impl, ok := c.codecs[s]
	if !ok {
		panic(fmt.Sprintf("fec: unknown scheme %d", int(s)))
	}
	return impl
}

// Encode maps each input block to one coded block. Input blocks must hold
// at least InputSize bits; None copies blocks unchanged.
func (c *Codec) Encode(ctx context.Context, blocks []*block.Block, s Scheme) ([]*block.Block, error) {
	impl := c.lookup(s)
	if len(blocks) == 0 {
		return nil, nil
	}
	size := s.OutputSize()
	if s == None {
		size = blocks[0].Len()
	}
	out := block.NewBlocks(len(blocks), size)
	err := parallel.For(ctx, c.workers, len(blocks), func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			impl.encode(out[i], blocks[i])
		}
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", s.Name(), err)
	}
	return out, nil
}

// Decode maps each received block back to InputSize data bits, correcting
// errors where the syndrome table has an entry.
func (c *Codec) Decode(ctx context.Context, blocks []*block.Block, s Scheme) ([]*block.Block, error) {
	impl := c.lookup(s)
	if len(blocks) == 0 {
		return nil, nil
	}
	size := s.InputSize()
	if s == None {
		size = blocks[0].Len()
	}
	out := block.NewBlocks(len(blocks), size)
	err := parallel.For(ctx, c.workers, len(blocks), func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			impl.decode(out[i], blocks[i])
		}
	})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Name(), err)
	}
	return out, nil
}

// Generator returns a copy of the generator polynomial of a cyclic or BCH
// scheme, or nil for the others.
func (c *Codec) Generator(s Scheme) *block.Block {
	if cy, ok := c.lookup(s).(*cyclic); ok {
		return cy.generator.Clone()
	}
	return nil
}

// Correction returns a copy of the error pattern stored for a syndrome and
// whether the slot is populated. Only cyclic and BCH schemes have tables.
func (c *Codec) Correction(s Scheme, syndrome uint64) (*block.Block, bool) {
	cy, ok := c.lookup(s).(*cyclic)
	if !ok || syndrome >= uint64(len(cy.syndromes)) {
		return nil, false
	}
	entry := cy.syndromes[syndrome]
	if !entry.Marked() {
		return nil, false
	}
	return entry.Clone(), true
}

// TableSize returns the number of populated syndrome slots for a scheme.
func (c *Codec) TableSize(s Scheme) int {
	cy, ok := c.lookup(s).(*cyclic)
	if !ok {
		return 0
	}
	n := 0
	for _, e := range cy.syndromes {
		if e.Marked() {
			n++
		}
	}
	return n
}
