package testutil

import (
	"path/filepath"
	"testing"

	"github.com/raghavn86/TaskBuddy/internal/store"
)

// NewTestStore creates an in-memory plan store. Most tests want this.
func NewTestStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	return store.NewMemoryStore()
}

// NewTestSQLiteStore creates a file-backed SQLite store in a temp directory.
// Unlike ":memory:", a file-backed store shares state across all connections
// in the pool, which is required to exercise real concurrent access with WAL
// mode.
func NewTestSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskbuddy_test.db")
	s, err := store.OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
