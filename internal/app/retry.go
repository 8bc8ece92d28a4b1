package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/internal/logger"
)

var sleep = time.Sleep

// WaitFor blocks for d or until ctx is done
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Retry calls fn until it succeeds, fails with a non-retryable error or attempts run out.
// The wait doubles after every retryable failure.
func Retry(ctx context.Context, log *zap.Logger, attempts int, backoff time.Duration, fn func(ctx context.Context) error) error {
	log = logger.OrNop(log)
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil || !apperr.IsRetryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		log.Warn("store unavailable, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		if waitErr := WaitFor(ctx, backoff); waitErr != nil {
			return err
		}
		backoff *= 2
	}
	return err
}

// Run calls fn with the app's configured retry policy
func (a *App) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return Retry(ctx, a.Logger, a.Config.Store.RetryAttempts, a.Config.Store.RetryBackoff, fn)
}
