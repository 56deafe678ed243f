package block

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRechunk_Sizes(t *testing.T) {
	src := []*Block{Parse("1011001")} // 7 bits

	tests := []struct {
		size  int
		count int
		want  string
	}{
		{1, 7, "1 0 1 1 0 0 1"},
		{2, 4, "10 11 00 10"},
		{3, 3, "101 100 100"},
		{7, 1, "1011001"},
		{10, 1, "1011001000"},
		{0, 1, "1011001"},
	}

	for _, tt := range tests {
		out := Rechunk(src, tt.size)
		if len(out) != tt.count {
			t.Errorf("size %d: %d blocks, expected %d", tt.size, len(out), tt.count)
			continue
		}
		if got := Join(out); got != tt.want {
			t.Errorf("size %d: %q, expected %q", tt.size, got, tt.want)
		}
	}
}

func TestRechunk_Empty(t *testing.T) {
	if out := Rechunk(nil, 4); out != nil {
		t.Errorf("nil input: expected nil, got %d blocks", len(out))
	}
	if out := Rechunk([]*Block{New(0)}, 4); out != nil {
		t.Errorf("zero-bit input: expected nil, got %d blocks", len(out))
	}
}

func TestRechunk_Lossless(t *testing.T) {
	bits := "110100111010110001011100101"
	src := Rechunk([]*Block{Parse(bits)}, 4)

	for size := 1; size <= 12; size++ {
		out := Rechunk(src, size)
		joined := Concat(out).String()
		want := Concat(src).String() // src padded to a multiple of 4
		if !strings.HasPrefix(joined, want) && !strings.HasPrefix(want, joined) {
			t.Errorf("size %d: %s does not extend %s", size, joined, want)
		}
		if strings.Trim(joined[len(bits):], "0") != "" {
			t.Errorf("size %d: non-zero padding in %s", size, joined)
		}
		if joined[:len(bits)] != bits {
			t.Errorf("size %d: payload %s, expected %s", size, joined[:len(bits)], bits)
		}
	}
}

func TestRechunk_Associative(t *testing.T) {
	src := []*Block{Parse("101100111000101011110000110")}

	for s1 := 1; s1 <= 9; s1++ {
		for s2 := 1; s2 <= 9; s2++ {
			direct := Concat(Rechunk(src, s2)).String()
			twoStep := Concat(Rechunk(Rechunk(src, s1), s2)).String()

			n := min(len(direct), len(twoStep))
			if direct[:n] != twoStep[:n] {
				t.Fatalf("s1=%d s2=%d: %s != %s", s1, s2, twoStep, direct)
			}
			if strings.Trim(direct[n:], "0") != "" || strings.Trim(twoStep[n:], "0") != "" {
				t.Errorf("s1=%d s2=%d: tails differ beyond zero padding", s1, s2)
			}
		}
	}
}

func TestParallelRechunk_MatchesSequential(t *testing.T) {
	src := []*Block{Parse("1011"), Parse(""), Parse("0011100"), Parse("1"), Parse("110100111010")}
	want := "1011" + "0011100" + "1" + "110100111010"

	for _, workers := range []int{1, 2, 3, 8, 64} {
		for size := 1; size <= 30; size++ {
			out, err := ParallelRechunk(context.Background(), workers, src, size)
			if err != nil {
				t.Fatalf("workers=%d size=%d: %v", workers, size, err)
			}
			if len(out) != (len(want)+size-1)/size {
				t.Fatalf("workers=%d size=%d: %d blocks", workers, size, len(out))
			}
			joined := Concat(out).String()
			if joined[:len(want)] != want || strings.Trim(joined[len(want):], "0") != "" {
				t.Errorf("workers=%d size=%d: %s, expected %s plus zero padding", workers, size, joined, want)
			}
			if seq := Join(Rechunk(src, size)); Join(out) != seq {
				t.Errorf("workers=%d size=%d: %s differs from sequential %s", workers, size, Join(out), seq)
			}
		}
	}
}

func TestParallelRechunk_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ParallelRechunk(ctx, 4, []*Block{New(64)}, 8)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err %v, expected context.Canceled", err)
	}
}

func TestConcat(t *testing.T) {
	got := Concat([]*Block{Parse("10"), Parse("011"), Parse("")})
	if got.String() != "10011" {
		t.Errorf("Concat: %s, expected 10011", got)
	}
}
