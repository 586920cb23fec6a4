package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raghavn86/TaskBuddy/internal/domain"
)

// newSQLiteTestStore creates a file-backed store in a temp directory. A
// file-backed database shares state across all pooled connections, which
// matters for the concurrency tests below.
func newSQLiteTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "store_test.db"))
	require.NoError(t, err, "failed to create test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func sqlitePlan(id, name string) *domain.Plan {
	now := time.Now().UTC()
	return &domain.Plan{ID: id, Name: name, OwnerID: "owner", CreatedAt: now, UpdatedAt: now}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()

	p := sqlitePlan("p1", "Week")
	b := p.EnsureBucket(2)
	b.Items["a"] = &domain.Item{ID: "a", Kind: domain.ItemTask, Title: "A", Order: domain.IntPtr(0), DurationMin: 45}
	b.Items["s"] = &domain.Item{ID: "s", Kind: domain.ItemSection, Title: "S", Order: domain.IntPtr(1), Color: "#fabd2f"}
	p.AttachBucket(b)

	require.NoError(t, s.Set(ctx, p))

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Week", got.Name)
	require.Contains(t, got.Days, 2)
	require.Len(t, got.Days[2].Items, 2)
	assert.Equal(t, domain.ItemSection, got.Days[2].Items["s"].Kind)
	assert.Equal(t, 1, got.Days[2].Items["s"].OrderValue())
	assert.Equal(t, 45, got.Days[2].Items["a"].DurationMin)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := newSQLiteTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_Update(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, sqlitePlan("p1", "Week")))
	require.NoError(t, s.Update(ctx, "p1", map[string]any{"name": "Renamed"}))

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "owner", got.OwnerID, "unmentioned fields survive the merge")

	assert.ErrorIs(t, s.Update(ctx, "missing", map[string]any{"name": "x"}), ErrNotFound)
}

func TestSQLiteStore_ListAndDelete(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, sqlitePlan("b", "B")))
	require.NoError(t, s.Set(ctx, sqlitePlan("a", "A")))

	plans, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "a", plans[0].ID)

	require.NoError(t, s.Delete(ctx, "b"))
	assert.ErrorIs(t, s.Delete(ctx, "b"), ErrNotFound)
}

func TestSQLiteStore_TransactionCommits(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, sqlitePlan("p1", "Week")))

	err := s.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		p, err := tx.Get(ctx, "p1")
		if err != nil {
			return err
		}
		p.Name = "Committed"
		return tx.Set(ctx, p)
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Committed", got.Name)
}

func TestSQLiteStore_TransactionConflict(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, sqlitePlan("p1", "Week")))

	err := s.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		p, err := tx.Get(ctx, "p1")
		if err != nil {
			return err
		}
		require.NoError(t, s.Set(ctx, sqlitePlan("p1", "Interloper")))

		p.Name = "Loser"
		return tx.Set(ctx, p)
	})
	assert.ErrorIs(t, err, ErrConflict)

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Interloper", got.Name)
}

func TestSQLiteStore_TransactionCreate(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()

	err := s.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		_, err := tx.Get(ctx, "new")
		assert.ErrorIs(t, err, ErrNotFound)
		return tx.Set(ctx, sqlitePlan("new", "Created"))
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "Created", got.Name)
}

func TestSQLiteStore_TransactionCreateRace(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()

	err := s.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		_, err := tx.Get(ctx, "new")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.Set(ctx, sqlitePlan("new", "First")))
		return tx.Set(ctx, sqlitePlan("new", "Second"))
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSQLiteStore_ConcurrentTransactions(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, sqlitePlan("p1", "Week")))

	// Writers append distinct items to the same bucket, retrying on
	// conflict. All items must survive.
	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("item-%d", n)
			for {
				err := s.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
					p, err := tx.Get(ctx, "p1")
					if err != nil {
						return err
					}
					b := p.EnsureBucket(0)
					b.Items[id] = &domain.Item{ID: id, Kind: domain.ItemTask, Title: id}
					p.AttachBucket(b)
					return tx.Set(ctx, p)
				})
				if err == nil {
					return
				}
				if !assert.ErrorIs(t, err, ErrConflict) {
					return
				}
			}
		}(i)
	}
	wg.Wait()

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	require.Contains(t, got.Days, 0)
	assert.Len(t, got.Days[0].Items, writers)
}
