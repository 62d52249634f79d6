// Package parallel provides a bounded task group for running the same
// operation over a collection concurrently.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map calls fn for each item using at most the given number of workers
// and returns the results in input order. The first error cancels the
// context passed to the remaining calls; items that have not started by
// then are skipped. Map returns that first error and no results.
func Map[T any, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error)) ([]R, error) {
	total := len(items)
	if total == 0 {
		return nil, nil
	}

	// Clamp workers to [1, len(items)].
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]R, total)
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := fn(ctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Each is Map for operations that produce no value.
func Each[T any](ctx context.Context, items []T, workers int, fn func(context.Context, T) error) error {
	_, err := Map(ctx, items, workers, func(ctx context.Context, item T) (struct{}, error) {
		return struct{}{}, fn(ctx, item)
	})
	return err
}
