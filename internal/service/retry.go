package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raghavn86/TaskBuddy/internal/store"
)

// Retry bounds for conflicting transactions. The budget is an attempt
// count, not a wall-clock deadline: once an attempt begins it runs to
// commit or rejection.
const (
	DefaultMaxAttempts = 5
	DefaultRetryDelay  = 100 * time.Millisecond
)

// runWithRetry executes op until it succeeds, fails with a non-conflict
// error, or exhausts the attempt budget. Each attempt re-runs the whole
// transaction, so the operation always computes against the latest
// committed aggregate. Returns the attempt count alongside the error for
// observability.
func (s *planService) runWithRetry(ctx context.Context, op func(ctx context.Context) error) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return attempt, nil
		}
		if !errors.Is(lastErr, store.ErrConflict) {
			return attempt, lastErr
		}
		if attempt < s.maxAttempts {
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return attempt, ctx.Err()
			}
		}
	}
	return s.maxAttempts, fmt.Errorf("%w: %w", ErrConcurrencyExhausted, lastErr)
}
