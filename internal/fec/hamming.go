package fec

import "github.com/jeongseonghan/bersim/internal/block"

// Parity equations over the data bits d0..d3.
var hammingParity = [3][]int{
	{1, 2, 3},
	{0, 2, 3},
	{0, 1, 3},
}

// Syndrome equations over the received bits r0..r6, most significant
// first. A single error at data bit i yields syndrome i+1; errors in the
// parity bits r4, r5, r6 yield 5, 6 and 7.
var hammingSyndrome = [3][]int{
	{3, 4, 5, 6},
	{1, 2, 5, 6},
	{0, 2, 4, 6},
}

type hamming74 struct{}

func (hamming74) encode(dst, src *block.Block) {
	block.Copy(dst, 0, src, 0, 4)
	for i, eq := range hammingParity {
		dst.SetBit(4+i, src.MultiXor(eq))
	}
}

func (hamming74) decode(dst, src *block.Block) {
	syndrome := block.New(len(hammingSyndrome))
	for i, eq := range hammingSyndrome {
		syndrome.SetBit(i, src.MultiXor(eq))
	}
	wrong := syndrome.Uint64()

	block.Copy(dst, 0, src, 0, 4)
	// Syndromes above the data width point at parity bits, which are
	// dropped anyway.
	if wrong > 0 && wrong <= 4 {
		dst.FlipBit(int(wrong) - 1)
	}
}
