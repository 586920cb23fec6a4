package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raghavn86/TaskBuddy/internal/domain"
	"github.com/raghavn86/TaskBuddy/internal/testutil"
)

func TestRetry_SucceedsAfterConflicts(t *testing.T) {
	mem := testutil.NewTestStore(t)
	conflicting := &testutil.ConflictNTimesStore{PlanStore: mem, Conflicts: 2}
	svc := NewPlanService(conflicting, WithRetry(5, 0))
	ctx := context.Background()

	p := testutil.NewTestPlan("Week")
	require.NoError(t, mem.Set(ctx, p))

	res, err := svc.AddItem(ctx, p.ID, AddItemRequest{
		Day:  0,
		Item: domain.NewItemInput{Kind: domain.ItemTask, Title: "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Item.OrderValue())
	assert.EqualValues(t, 3, conflicting.Attempts(), "two conflicts then success")
}

func TestRetry_ExhaustsBudget(t *testing.T) {
	mem := testutil.NewTestStore(t)
	conflicting := &testutil.ConflictNTimesStore{PlanStore: mem, Conflicts: 100}
	svc := NewPlanService(conflicting, WithRetry(3, 0))
	ctx := context.Background()

	p := testutil.NewTestPlan("Week")
	require.NoError(t, mem.Set(ctx, p))

	_, err := svc.AddItem(ctx, p.ID, AddItemRequest{
		Day:  0,
		Item: domain.NewItemInput{Kind: domain.ItemTask, Title: "x"},
	})
	assert.ErrorIs(t, err, ErrConcurrencyExhausted)
	assert.EqualValues(t, 3, conflicting.Attempts())

	// Nothing landed.
	got, err := mem.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Days)
}

func TestRetry_NotFoundIsNotRetried(t *testing.T) {
	mem := testutil.NewTestStore(t)
	conflicting := &testutil.ConflictNTimesStore{PlanStore: mem}
	svc := NewPlanService(conflicting, WithRetry(5, 0))

	_, err := svc.AddItem(context.Background(), "missing", AddItemRequest{
		Day:  0,
		Item: domain.NewItemInput{Kind: domain.ItemTask, Title: "x"},
	})
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.EqualValues(t, 1, conflicting.Attempts(), "non-conflict failures surface immediately")
}

func TestRetry_InvalidMoveIsNotRetried(t *testing.T) {
	mem := testutil.NewTestStore(t)
	conflicting := &testutil.ConflictNTimesStore{PlanStore: mem}
	svc := NewPlanService(conflicting, WithRetry(5, 0))
	ctx := context.Background()

	sec := testutil.NewTestSection("S", testutil.WithOrder(0))
	p := testutil.NewTestPlan("Week")
	testutil.AttachItems(p, 0, sec)
	require.NoError(t, mem.Set(ctx, p))

	_, err := svc.MoveItem(ctx, p.ID, MoveItemRequest{ItemID: sec.ID, FromDay: 0, ToDay: 1})
	assert.ErrorIs(t, err, ErrInvalidMove)
	assert.EqualValues(t, 1, conflicting.Attempts())
}

// Two collaborators adding to the same day concurrently must both commit,
// and the final bucket must hold both items with distinct dense orders.
func TestRetry_ConcurrentAddsConverge(t *testing.T) {
	mem := testutil.NewTestStore(t)
	svc := NewPlanService(mem, WithRetry(10, 0))
	ctx := context.Background()

	p := testutil.NewTestPlan("Week")
	require.NoError(t, mem.Set(ctx, p))

	const adds = 6
	var wg sync.WaitGroup
	errs := make([]error, adds)
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = svc.AddItem(ctx, p.ID, AddItemRequest{
				Day:  1,
				Item: domain.NewItemInput{Kind: domain.ItemTask, Title: fmt.Sprintf("task-%d", n)},
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "add %d", i)
	}

	got, err := mem.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Contains(t, got.Days, 1)
	items := got.Days[1].Items
	require.Len(t, items, adds)

	seen := make(map[int]bool)
	for _, it := range items {
		o := it.OrderValue()
		assert.GreaterOrEqual(t, o, 0)
		assert.Less(t, o, adds)
		assert.False(t, seen[o], "duplicate order %d", o)
		seen[o] = true
	}
}
