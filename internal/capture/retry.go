package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryError reports a collaborator call that kept failing until the retry
// bound was exhausted. Callers distinguish it from completion with
// errors.As.
type RetryError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error { return e.Err }

// withRetry runs fn up to attempts times, waiting interval between tries.
// Context cancellation stops retrying immediately and surfaces ctx.Err().
func withRetry(ctx context.Context, log *logrus.Entry, op string, attempts int, interval time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err = fn(); err == nil {
			return nil
		}
		log.WithError(err).Warnf("%s failed (attempt %d/%d)", op, i, attempts)
		if i < attempts {
			if !sleepCtx(ctx, interval) {
				return ctx.Err()
			}
		}
	}
	return &RetryError{Op: op, Attempts: attempts, Err: err}
}

// sleepCtx blocks for d, returning false when the context is cancelled
// first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
