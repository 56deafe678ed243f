// Package parallel runs data-parallel loops and independent sections.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// For splits [0, n) into at most workers contiguous ranges and calls fn
// once per range with the worker index. Range boundaries depend only on n
// and workers, so per-worker state indexed by worker gives reproducible
// results.
func For(ctx context.Context, workers, n int, fn func(worker, lo, hi int)) error {
	if n <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(0, 0, n)
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := n / workers
	rem := n % workers
	lo := 0
	for w := 0; w < workers; w++ {
		hi := lo + chunk
		if w < rem {
			hi++
		}
		start := lo
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(w, start, hi)
			return nil
		})
		lo = hi
	}
	return g.Wait()
}

// Sections runs each function in its own goroutine and returns the first error.
func Sections(ctx context.Context, sections ...func(ctx context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range sections {
		g.Go(func() error {
			return s(ctx)
		})
	}
	return g.Wait()
}
