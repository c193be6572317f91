package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/revint/internal/db"
)

// NewTestDB opens a migrated in-memory state database, closed on cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, ":memory:")
}

// NewTestDBFile opens a migrated state database in a temp directory and
// returns it with its path, so tests can reopen the same file the way a
// second CLI invocation would.
func NewTestDBFile(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "session.db")
	return openTestDB(t, path), path
}

// OpenTestDBAt reopens an existing database file, closed on cleanup.
func OpenTestDBAt(t *testing.T, path string) *sql.DB {
	t.Helper()
	return openTestDB(t, path)
}

func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	if err != nil {
		t.Fatalf("opening test database %s: %v", path, err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}
