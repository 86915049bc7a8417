package util

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// RunErrgroupWorker calls f for every index below n, at most limit at once.
// The first error cancels the context given to the other calls.
func RunErrgroupWorker(ctx context.Context, limit int64, n int, f func(ctx context.Context, i int) error) error {
	if limit < 1 {
		limit = 1
	}

	sem := semaphore.NewWeighted(limit)
	eg, ectx := errgroup.WithContext(ctx)

	for i := 0; i < n; i++ {
		if err := sem.Acquire(ectx, 1); err != nil {
			break
		}

		i := i

		eg.Go(func() error {
			defer sem.Release(1)

			return f(ectx, i)
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	return errors.WithStack(ctx.Err())
}
