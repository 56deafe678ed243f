package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestFor_CoversRangeOnce(t *testing.T) {
	for _, tt := range []struct{ workers, n int }{
		{1, 10}, {3, 10}, {4, 4}, {8, 3}, {0, 5}, {5, 1000},
	} {
		hits := make([]int32, tt.n)
		err := For(context.Background(), tt.workers, tt.n, func(_, lo, hi int) {
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		if err != nil {
			t.Fatalf("workers=%d n=%d: %v", tt.workers, tt.n, err)
		}
		for i, h := range hits {
			if h != 1 {
				t.Errorf("workers=%d n=%d: index %d visited %d times", tt.workers, tt.n, i, h)
			}
		}
	}
}

func TestFor_StablePartition(t *testing.T) {
	collect := func() map[int][2]int {
		var mu sync.Mutex
		parts := map[int][2]int{}
		For(context.Background(), 4, 10, func(w, lo, hi int) {
			mu.Lock()
			parts[w] = [2]int{lo, hi}
			mu.Unlock()
		})
		return parts
	}
	first := collect()
	want := map[int][2]int{0: {0, 3}, 1: {3, 6}, 2: {6, 8}, 3: {8, 10}}
	for w, r := range want {
		if first[w] != r {
			t.Errorf("worker %d: %v, expected %v", w, first[w], r)
		}
	}
	second := collect()
	for w := range first {
		if first[w] != second[w] {
			t.Errorf("worker %d partition changed between runs", w)
		}
	}
}

func TestFor_Empty(t *testing.T) {
	called := false
	if err := For(context.Background(), 4, 0, func(_, _, _ int) { called = true }); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("fn called for empty range")
	}
}

func TestFor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := For(ctx, 1, 5, func(_, _, _ int) {})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSections(t *testing.T) {
	var n int32
	err := Sections(context.Background(),
		func(context.Context) error { atomic.AddInt32(&n, 1); return nil },
		func(context.Context) error { atomic.AddInt32(&n, 1); return nil },
		func(context.Context) error { atomic.AddInt32(&n, 1); return nil },
	)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("ran %d sections, expected 3", n)
	}

	boom := errors.New("boom")
	err = Sections(context.Background(),
		func(context.Context) error { return nil },
		func(context.Context) error { return boom },
	)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}
