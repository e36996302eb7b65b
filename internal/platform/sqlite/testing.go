package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTest opens a fresh database in a temporary directory owned by t.
func OpenTest(t testing.TB) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
