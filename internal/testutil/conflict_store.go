package testutil

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/raghavn86/TaskBuddy/internal/store"
)

// ConflictNTimesStore wraps a PlanStore and makes the first N RunTransaction
// calls fail with ErrConflict before anything commits, as if a concurrent
// writer won the race. This exercises the retry controller at precise points
// without needing a real racing writer.
//
// Calls are counted starting at 1; reads and direct writes pass through.
type ConflictNTimesStore struct {
	store.PlanStore
	Conflicts int32

	count atomic.Int32
}

func (s *ConflictNTimesStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	n := s.count.Add(1)
	if n <= s.Conflicts {
		return fmt.Errorf("injected conflict %d: %w", n, store.ErrConflict)
	}
	return s.PlanStore.RunTransaction(ctx, fn)
}

// Attempts reports how many transactions have been started.
func (s *ConflictNTimesStore) Attempts() int32 {
	return s.count.Load()
}
