package fec

import (
	"hash/crc32"

	"github.com/jeongseonghan/bersim/internal/block"
)

// Checksum returns the CRC-32 (IEEE) of a bit sequence packed MSB-first
// into bytes, with a zero-padded final byte. It fingerprints a source
// sequence so runs can be compared without storing every bit.
func Checksum(blocks []*block.Block) uint32 {
	h := crc32.NewIEEE()
	var cur byte
	n := 0
	buf := make([]byte, 0, 64)
	for _, b := range blocks {
		for i := 0; i < b.Len(); i++ {
			cur = cur<<1 | b.Bit(i)
			n++
			if n == 8 {
				buf = append(buf, cur)
				cur, n = 0, 0
				if len(buf) == cap(buf) {
					h.Write(buf)
					buf = buf[:0]
				}
			}
		}
	}
	if n > 0 {
		buf = append(buf, cur<<(8-n))
	}
	h.Write(buf)
	return h.Sum32()
}
