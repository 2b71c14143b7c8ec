package eligibility

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Join runs every task concurrently and waits for all of them.
// The first failure cancels the shared context and is returned; no partial result survives.
func Join(ctx context.Context, tasks ...func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			return task(gctx)
		})
	}
	return g.Wait()
}
