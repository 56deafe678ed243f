package block

import (
	"context"
	"fmt"
	"sort"

	"github.com/jeongseonghan/bersim/internal/parallel"
)

// Rechunk re-segments the concatenated bits of blocks into blocks of size
// bits. The result has ceil(total/size) blocks; bits of the last block not
// covered by the source stay zero. A size of 0 keeps the size of the first
// source block. Empty input yields nil.
func Rechunk(blocks []*Block, size int) []*Block {
	out, err := ParallelRechunk(context.Background(), 1, blocks, size)
	if err != nil {
		panic(fmt.Sprintf("block: rechunk: %v", err))
	}
	return out
}

// ParallelRechunk is Rechunk with the output blocks filled by up to
// workers goroutines. Each output block is written by exactly one worker.
func ParallelRechunk(ctx context.Context, workers int, blocks []*Block, size int) ([]*Block, error) {
	if len(blocks) == 0 {
		return nil, nil
	}
	if size == 0 {
		size = blocks[0].Len()
	}
	if size < 0 {
		panic(&RangeError{Op: "rechunk", Index: size, Len: 0})
	}

	// starts[i] is the global bit offset of blocks[i].
	starts := make([]int, len(blocks))
	total := 0
	for i, b := range blocks {
		starts[i] = total
		total += b.Len()
	}
	if total == 0 || size == 0 {
		return nil, nil
	}

	count := total / size
	if total%size != 0 {
		count++
	}
	out := NewBlocks(count, size)

	err := parallel.For(ctx, workers, count, func(_, lo, hi int) {
		for d := lo; d < hi; d++ {
			pos := d * size
			end := min(pos+size, total)
			src := sort.Search(len(starts), func(i int) bool { return starts[i] > pos }) - 1
			for pos < end {
				b := blocks[src]
				srcOff := pos - starts[src]
				n := min(end-pos, len(b.bits)-srcOff)
				Copy(out[d], pos-d*size, b, srcOff, n)
				pos += n
				src++
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Concat returns a single block holding the bits of all blocks in order.
func Concat(blocks []*Block) *Block {
	total := 0
	for _, b := range blocks {
		total += b.Len()
	}
	out := New(total)
	pos := 0
	for _, b := range blocks {
		Copy(out, pos, b, 0, len(b.bits))
		pos += len(b.bits)
	}
	return out
}
