package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Parallel2 runs two fetches concurrently. The first error cancels the
// other fetch's context and is returned; results are only returned when
// both succeed.
//
//	resources, tags, err := Parallel2(ctx,
//	    func(ctx context.Context) ([]domain.Resource, error) { return store.ListResources(ctx) },
//	    func(ctx context.Context) ([]domain.Tag, error) { return store.ListTags(ctx) },
//	)
func Parallel2[T1, T2 any](
	ctx context.Context,
	fn1 func(context.Context) (T1, error),
	fn2 func(context.Context) (T2, error),
) (T1, T2, error) {
	var (
		r1 T1
		r2 T2
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		r1, err = fn1(gctx)

		return err
	})

	g.Go(func() (err error) {
		r2, err = fn2(gctx)

		return err
	})

	if err := g.Wait(); err != nil {
		var (
			zero1 T1
			zero2 T2
		)

		return zero1, zero2, fmt.Errorf("parallel: %w", err)
	}

	return r1, r2, nil
}

// Parallel3 is Parallel2 for three fetches.
func Parallel3[T1, T2, T3 any](
	ctx context.Context,
	fn1 func(context.Context) (T1, error),
	fn2 func(context.Context) (T2, error),
	fn3 func(context.Context) (T3, error),
) (T1, T2, T3, error) {
	var (
		r1 T1
		r2 T2
		r3 T3
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		r1, err = fn1(gctx)

		return err
	})

	g.Go(func() (err error) {
		r2, err = fn2(gctx)

		return err
	})

	g.Go(func() (err error) {
		r3, err = fn3(gctx)

		return err
	})

	if err := g.Wait(); err != nil {
		var (
			zero1 T1
			zero2 T2
			zero3 T3
		)

		return zero1, zero2, zero3, fmt.Errorf("parallel: %w", err)
	}

	return r1, r2, r3, nil
}

// FanOut feeds items to a fixed number of workers. The first error stops
// the remaining work and is returned. Fewer than one worker means one.
//
//	err := FanOut(ctx, 4, seed.Resources, func(ctx context.Context, r SeedResource) error {
//	    return store.CreateResource(ctx, &r.Resource, r.TagIDs)
//	})
func FanOut[T any](ctx context.Context, workers int, items []T, fn func(context.Context, T) error) error {
	workers = max(workers, 1)

	g, gctx := errgroup.WithContext(ctx)
	queue := make(chan T)

	for range workers {
		g.Go(func() error {
			for item := range queue {
				if err := fn(gctx, item); err != nil {
					return err
				}
			}

			return nil
		})
	}

	g.Go(func() error {
		defer close(queue)

		for _, item := range items {
			select {
			case queue <- item:
			case <-gctx.Done():
				return gctx.Err()
			}
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("fan out: %w", err)
	}

	return nil
}
