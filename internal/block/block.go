package block

import (
	"fmt"
	"strings"
)

// RangeError reports an index or range outside a block's bit count.
type RangeError struct {
	Op    string
	Index int
	Count int
	Len   int
}

func (e *RangeError) Error() string {
	if e.Count > 0 {
		return fmt.Sprintf("block: %s range [%d, %d) out of bounds for %d bits", e.Op, e.Index, e.Index+e.Count, e.Len)
	}
	return fmt.Sprintf("block: %s index %d out of bounds for %d bits", e.Op, e.Index, e.Len)
}

// Block is a fixed-length bit vector. Bit 0 is the most significant bit
// when the block is read as an integer.
//
// Blocks never grow: reshaping produces new blocks (see Rechunk).
type Block struct {
	bits     []byte // one 0/1 value per bit
	marked   bool
	released bool
}

// New creates a block of n zero bits.
func New(n int) *Block {
	if n < 0 {
		panic(fmt.Sprintf("block: negative bit count %d", n))
	}
	return &Block{bits: make([]byte, n)}
}

// NewBlocks creates count blocks of n zero bits each.
func NewBlocks(count, n int) []*Block {
	blocks := make([]*Block, count)
	for i := range blocks {
		blocks[i] = New(n)
	}
	return blocks
}

// Parse creates a block from a string of '0' and '1' characters.
func Parse(s string) *Block {
	b := New(len(s))
	b.SetBinaryString(s)
	return b
}

// FromUint64 creates an n-bit block holding v.
func FromUint64(n int, v uint64) *Block {
	b := New(n)
	b.SetUint64(v)
	return b
}

// Release marks the block as destroyed. Any later use, including a second
// Release, panics.
func (b *Block) Release() {
	b.live()
	b.bits = nil
	b.released = true
}

// ReleaseAll releases every block in the slice.
func ReleaseAll(blocks []*Block) {
	for _, b := range blocks {
		b.Release()
	}
}

func (b *Block) live() {
	if b == nil {
		panic("block: nil block")
	}
	if b.released {
		panic("block: use after release")
	}
}

func (b *Block) check(op string, i int) {
	b.live()
	if i < 0 || i >= len(b.bits) {
		panic(&RangeError{Op: op, Index: i, Len: len(b.bits)})
	}
}

// Len returns the number of bits.
func (b *Block) Len() int {
	b.live()
	return len(b.bits)
}

// Marked reports whether the block carries the syndrome-table presence flag.
func (b *Block) Marked() bool {
	b.live()
	return b.marked
}

// Mark sets the presence flag.
func (b *Block) Mark() {
	b.live()
	b.marked = true
}

// Bit returns bit i as 0 or 1.
func (b *Block) Bit(i int) byte {
	b.check("get", i)
	return b.bits[i]
}

// SetBit sets bit i to the low bit of v.
func (b *Block) SetBit(i int, v byte) {
	b.check("set", i)
	b.bits[i] = v & 1
}

// XorBit xors the low bit of v into bit i.
func (b *Block) XorBit(i int, v byte) {
	b.check("xor", i)
	b.bits[i] ^= v & 1
}

// FlipBit inverts bit i.
func (b *Block) FlipBit(i int) {
	b.check("flip", i)
	b.bits[i] ^= 1
}

// CopyBit copies bit j of src into bit i of dst.
func CopyBit(dst *Block, i int, src *Block, j int) {
	src.check("copy", j)
	dst.check("copy", i)
	dst.bits[i] = src.bits[j]
}

// EqualBit reports whether bit i of b1 equals bit j of b2.
func EqualBit(b1 *Block, i int, b2 *Block, j int) bool {
	b1.check("compare", i)
	b2.check("compare", j)
	return b1.bits[i] == b2.bits[j]
}

// Uint64 interprets the block as a big-endian unsigned integer.
func (b *Block) Uint64() uint64 {
	b.live()
	var v uint64
	for _, bit := range b.bits {
		v = v<<1 | uint64(bit)
	}
	return v
}

// SetUint64 stores v big-endian, truncated or zero-extended to the block length.
func (b *Block) SetUint64(v uint64) {
	b.live()
	n := len(b.bits)
	for i := 0; i < n; i++ {
		shift := n - i - 1
		if shift >= 64 {
			b.bits[i] = 0
			continue
		}
		b.bits[i] = byte(v>>uint(shift)) & 1
	}
}

// SetBinaryString sets bit i to 1 iff s[i] is '1'. s must not be longer
// than the block.
func (b *Block) SetBinaryString(s string) {
	for i := 0; i < len(s); i++ {
		var v byte
		if s[i] == '1' {
			v = 1
		}
		b.SetBit(i, v)
	}
}

// Xor xors pattern into b element-wise. Both blocks must have the same length.
func (b *Block) Xor(pattern *Block) {
	b.live()
	pattern.live()
	if len(b.bits) != len(pattern.bits) {
		panic(&RangeError{Op: "xor", Index: 0, Count: len(pattern.bits), Len: len(b.bits)})
	}
	for i, v := range pattern.bits {
		b.bits[i] ^= v
	}
}

// MultiXor returns the xor of the bits at the given positions.
func (b *Block) MultiXor(positions []int) byte {
	var v byte
	for _, p := range positions {
		v ^= b.Bit(p)
	}
	return v
}

// Copy copies n bits from src starting at srcOff into dst starting at dstOff.
func Copy(dst *Block, dstOff int, src *Block, srcOff int, n int) {
	dst.live()
	src.live()
	if n < 0 || dstOff < 0 || dstOff+n > len(dst.bits) {
		panic(&RangeError{Op: "copy", Index: dstOff, Count: n, Len: len(dst.bits)})
	}
	if srcOff < 0 || srcOff+n > len(src.bits) {
		panic(&RangeError{Op: "copy", Index: srcOff, Count: n, Len: len(src.bits)})
	}
	copy(dst.bits[dstOff:dstOff+n], src.bits[srcOff:srcOff+n])
}

// Clone returns an independent copy of b. The mark is not copied.
func (b *Block) Clone() *Block {
	c := New(b.Len())
	copy(c.bits, b.bits)
	return c
}

// Equal reports whether both blocks hold the same bits.
func (b *Block) Equal(other *Block) bool {
	if b.Len() != other.Len() {
		return false
	}
	for i, v := range b.bits {
		if other.bits[i] != v {
			return false
		}
	}
	return true
}

// Weight returns the number of set bits.
func (b *Block) Weight() int {
	b.live()
	w := 0
	for _, v := range b.bits {
		w += int(v)
	}
	return w
}

// String renders the bits as '0' and '1' characters.
func (b *Block) String() string {
	if b == nil {
		return "<nil>"
	}
	if b.released {
		return "<released>"
	}
	var sb strings.Builder
	sb.Grow(len(b.bits))
	for _, v := range b.bits {
		sb.WriteByte('0' + v)
	}
	return sb.String()
}

// Join renders blocks separated by spaces.
func Join(blocks []*Block) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.String()
	}
	return strings.Join(parts, " ")
}
