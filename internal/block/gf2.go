package block

// Remainder divides dividend by divisor as GF(2) polynomials (bit 0 is the
// highest power) and returns the remainder, len(divisor)-1 bits long. The
// quotient is discarded. This is the plain CRC remainder: no reflection,
// no initial value, no final xor.
func Remainder(dividend, divisor *Block) *Block {
	n, m := dividend.Len(), divisor.Len()
	if m == 0 || n < m-1 {
		panic(&RangeError{Op: "divmod", Index: 0, Count: m, Len: n})
	}

	tmp := dividend.Clone()
	for i := 0; i+m <= n; i++ {
		if tmp.bits[i] == 0 {
			continue
		}
		for j, v := range divisor.bits {
			tmp.bits[i+j] ^= v
		}
	}

	rem := New(m - 1)
	Copy(rem, 0, tmp, n-m+1, m-1)
	return rem
}

// Syndrome returns Remainder(dividend, divisor) read as an integer.
func Syndrome(dividend, divisor *Block) uint64 {
	return Remainder(dividend, divisor).Uint64()
}
