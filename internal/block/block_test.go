package block

import (
	"errors"
	"testing"
)

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestBlock_NewIsZero(t *testing.T) {
	b := New(12)
	if b.Len() != 12 {
		t.Fatalf("Len: %d, expected 12", b.Len())
	}
	for i := 0; i < b.Len(); i++ {
		if b.Bit(i) != 0 {
			t.Errorf("bit %d: %d != 0", i, b.Bit(i))
		}
	}
	if b.Marked() {
		t.Error("new block should not be marked")
	}
}

func TestBlock_BitOps(t *testing.T) {
	b := New(4)
	b.SetBit(0, 1)
	b.XorBit(1, 1)
	b.XorBit(0, 1)
	b.FlipBit(3)

	if got := b.String(); got != "0101" {
		t.Errorf("bits: %s, expected 0101", got)
	}

	other := Parse("1100")
	CopyBit(b, 2, other, 0)
	if b.Bit(2) != 1 {
		t.Errorf("CopyBit: bit 2 = %d, expected 1", b.Bit(2))
	}
	if !EqualBit(b, 1, other, 1) {
		t.Error("EqualBit: bit 1 should match")
	}
	if EqualBit(b, 0, other, 0) {
		t.Error("EqualBit: bit 0 should differ")
	}
}

func TestBlock_Uint64RoundTrip(t *testing.T) {
	tests := []struct {
		n    int
		v    uint64
		want string
		back uint64
	}{
		{4, 5, "0101", 5},
		{4, 15, "1111", 15},
		{3, 13, "101", 5}, // truncated to the low bits
		{8, 1, "00000001", 1},
		{1, 0, "0", 0},
	}

	for _, tt := range tests {
		b := FromUint64(tt.n, tt.v)
		if b.String() != tt.want {
			t.Errorf("FromUint64(%d, %d) = %s, expected %s", tt.n, tt.v, b, tt.want)
		}
		if got := b.Uint64(); got != tt.back {
			t.Errorf("Uint64(%s) = %d, expected %d", b, got, tt.back)
		}
	}

	wide := FromUint64(70, 3)
	if wide.Uint64() != 3 {
		t.Errorf("70-bit block: Uint64 = %d, expected 3", wide.Uint64())
	}
}

func TestBlock_SetBinaryString(t *testing.T) {
	b := New(6)
	b.SetBinaryString("1x01")
	if b.String() != "100100" {
		t.Errorf("got %s, expected 100100", b)
	}
}

func TestBlock_XorAndMultiXor(t *testing.T) {
	b := Parse("1010")
	b.Xor(Parse("0110"))
	if b.String() != "1100" {
		t.Errorf("Xor: %s, expected 1100", b)
	}
	if v := b.MultiXor([]int{0, 1}); v != 0 {
		t.Errorf("MultiXor(0,1) = %d, expected 0", v)
	}
	if v := b.MultiXor([]int{0, 2, 3}); v != 1 {
		t.Errorf("MultiXor(0,2,3) = %d, expected 1", v)
	}

	expectPanic(t, "xor length mismatch", func() { b.Xor(New(3)) })
}

func TestBlock_Copy(t *testing.T) {
	dst := New(8)
	src := Parse("111")
	Copy(dst, 4, src, 0, 3)
	if dst.String() != "00001110" {
		t.Errorf("Copy: %s, expected 00001110", dst)
	}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected error panic, got %v", r)
		}
		var re *RangeError
		if !errors.As(err, &re) {
			t.Fatalf("expected *RangeError, got %T", err)
		}
		if re.Op != "copy" {
			t.Errorf("Op: %s, expected copy", re.Op)
		}
	}()
	Copy(dst, 6, src, 0, 3)
}

func TestBlock_BoundsChecked(t *testing.T) {
	b := New(4)
	expectPanic(t, "get -1", func() { b.Bit(-1) })
	expectPanic(t, "get 4", func() { b.Bit(4) })
	expectPanic(t, "set 4", func() { b.SetBit(4, 1) })
	expectPanic(t, "flip 9", func() { b.FlipBit(9) })
	expectPanic(t, "copy bit", func() { CopyBit(b, 0, New(1), 1) })
	expectPanic(t, "src range", func() { Copy(b, 0, New(2), 1, 2) })
	expectPanic(t, "binary string too long", func() { b.SetBinaryString("10101") })
}

func TestBlock_Release(t *testing.T) {
	b := New(3)
	b.Release()
	expectPanic(t, "use after release", func() { b.Bit(0) })
	expectPanic(t, "double release", func() { b.Release() })
	if b.String() != "<released>" {
		t.Errorf("String after release: %s", b.String())
	}

	var nilBlock *Block
	expectPanic(t, "nil block", func() { nilBlock.Len() })
}

func TestBlock_Mark(t *testing.T) {
	b := New(2)
	b.Mark()
	if !b.Marked() {
		t.Error("Mark did not set flag")
	}
	if b.Clone().Marked() {
		t.Error("Clone should not copy the mark")
	}
}

func TestBlock_Weight(t *testing.T) {
	if w := Parse("1011001").Weight(); w != 4 {
		t.Errorf("Weight: %d, expected 4", w)
	}
}
