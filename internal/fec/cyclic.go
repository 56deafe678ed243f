package fec

import (
	"math/bits"

	"github.com/jeongseonghan/bersim/internal/block"
)

// cyclic is a systematic CRC-style code: data bits followed by the GF(2)
// remainder of the shifted data divided by the generator.
type cyclic struct {
	input     int
	output    int
	generator *block.Block
	syndromes []*block.Block // indexed by syndrome value; Marked when present
}

func newCyclic(info schemeInfo) *cyclic {
	c := &cyclic{
		input:     info.input,
		output:    info.output,
		generator: block.Parse(info.generator),
	}
	c.syndromes = buildSyndromes(info, c.generator)
	return c
}

// buildSyndromes records, for every syndrome, the error pattern that
// produces it. Patterns are visited from 2^n-1 down to 1 and later writes
// win, so each slot ends up with the numerically smallest pattern of
// weight <= radius, which is not necessarily the lightest one.
func buildSyndromes(info schemeInfo, generator *block.Block) []*block.Block {
	n := info.output
	table := block.NewBlocks(1<<(n-info.input), n)

	message := block.Parse(info.testMessage)
	pattern := block.New(n)
	for e := uint64(1)<<n - 1; e > 0; e-- {
		if bits.OnesCount64(e) > info.radius {
			continue
		}
		pattern.SetUint64(e)
		message.Xor(pattern)

		slot := table[block.Syndrome(message, generator)]
		slot.Mark()
		block.Copy(slot, 0, pattern, 0, n)

		message.Xor(pattern)
	}
	return table
}

func (c *cyclic) encode(dst, src *block.Block) {
	block.Copy(dst, 0, src, 0, c.input)
	rem := block.Remainder(dst, c.generator)
	block.Copy(dst, c.input, rem, 0, c.output-c.input)
}

func (c *cyclic) decode(dst, src *block.Block) {
	block.Copy(dst, 0, src, 0, c.input)
	s := block.Syndrome(src, c.generator)
	if s == 0 {
		return
	}
	correction := c.syndromes[s]
	if !correction.Marked() {
		// More errors than the code can locate; keep the received data.
		return
	}
	for i := 0; i < c.input; i++ {
		dst.XorBit(i, correction.Bit(i))
	}
}
