package sim

import (
	"context"
	"sync/atomic"

	"github.com/jeongseonghan/bersim/internal/block"
	"github.com/jeongseonghan/bersim/internal/parallel"
)

// WrongBits counts the positions below n where a and b differ. Nil
// blocks count as no errors.
func WrongBits(ctx context.Context, workers int, a, b *block.Block, n int) (int64, error) {
	if a == nil || b == nil {
		return 0, nil
	}
	var wrong atomic.Int64
	err := parallel.For(ctx, workers, n, func(_, lo, hi int) {
		var local int64
		for i := lo; i < hi; i++ {
			if !block.EqualBit(a, i, b, i) {
				local++
			}
		}
		wrong.Add(local)
	})
	return wrong.Load(), err
}

// WrongBlocks counts the first count block pairs that differ in at least
// one bit of the original block.
func WrongBlocks(ctx context.Context, workers int, a, b []*block.Block, count int) (int64, error) {
	if a == nil || b == nil {
		return 0, nil
	}
	var wrong atomic.Int64
	err := parallel.For(ctx, workers, count, func(_, lo, hi int) {
		var local int64
		for i := lo; i < hi; i++ {
			for j := 0; j < a[i].Len(); j++ {
				if !block.EqualBit(a[i], j, b[i], j) {
					local++
					break
				}
			}
		}
		wrong.Add(local)
	})
	return wrong.Load(), err
}

// BitErrorRate returns the fraction of the first n bits that differ.
func BitErrorRate(ctx context.Context, workers int, original, recovered *block.Block, n int) (float64, error) {
	if n <= 0 {
		return 0, nil
	}
	wrong, err := WrongBits(ctx, workers, original, recovered, n)
	if err != nil {
		return 0, err
	}
	return float64(wrong) / float64(n), nil
}

// SymbolErrorRate returns the fraction of the first count blocks that differ.
func SymbolErrorRate(ctx context.Context, workers int, original, recovered []*block.Block, count int) (float64, error) {
	if count <= 0 {
		return 0, nil
	}
	wrong, err := WrongBlocks(ctx, workers, original, recovered, count)
	if err != nil {
		return 0, err
	}
	return float64(wrong) / float64(count), nil
}
