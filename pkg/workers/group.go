package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/dskvich/vision-webchat/pkg/logger"
)

type Worker interface {
	Name() string
	Start(context.Context) error
}

// Group runs workers until ctx is done or one of them fails, in which case
// the others are cancelled.
type Group []Worker

func (g Group) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs *multierror.Error
	)
	for _, w := range g {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := w.Start(ctx)
			if err == nil {
				return
			}
			slog.Error("Worker failed", "worker", w.Name(), logger.Err(err))

			mu.Lock()
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", w.Name(), err))
			mu.Unlock()
			cancel()
		}()
	}
	wg.Wait()

	return errs.ErrorOrNil()
}
