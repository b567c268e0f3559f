package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/database"
)

// SetupTestDB creates a migrated SQLite database in a per-test temp directory.
// A file is used rather than :memory: so every pooled connection sees the same data.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	//#nosec G202 -- table names come from test code only
	if err := db.QueryRow(`SELECT COUNT(*) FROM "` + table + `"`).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s rows: %v", table, err)
	}
	return n
}
