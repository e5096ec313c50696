// Package parallel partitions index ranges across goroutines.
//
// Blocks is the map side of a map-reduce over contiguous element ranges:
// each block writes into its own slot and the caller reduces the slots in
// block order after the call returns. Each schedules one task per index
// (one per group) under a concurrency limit. Both calls return only after
// every task has finished, which makes them the barrier between phases.
//
// A worker count of 1 runs every task inline on the calling goroutine.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers resolves a configured worker count. Non-positive values mean
// GOMAXPROCS.
func Workers(workers int) int {
	if workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}

// Blocks splits [0, n) into one block per worker and calls fn for each.
// at is the block's position, stable for a given n and worker count.
func Blocks(ctx context.Context, n, workers int, fn func(ctx context.Context, at int, b Block) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	workers = Workers(workers)
	blocks := Split(n, workers)
	if workers == 1 || len(blocks) <= 1 {
		for at, b := range blocks {
			if err := fn(ctx, at, b); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for at, b := range blocks {
		g.Go(func() error {
			return fn(ctx, at, b)
		})
	}
	return g.Wait()
}

// Each calls fn for every index in [0, n) with at most workers calls in flight.
func Each(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	workers = Workers(workers)
	if workers == 1 {
		for i := range n {
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range n {
		g.Go(func() error {
			return fn(ctx, i)
		})
	}
	return g.Wait()
}
