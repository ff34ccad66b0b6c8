package testing

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/teranos/starmatch/db"
)

// CreateTestDB creates an in-memory SQLite database with every migration
// applied. Automatically registers cleanup via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	// Each pooled connection would get its own empty in-memory database
	conn.SetMaxOpenConns(1)

	t.Cleanup(func() {
		conn.Close()
	})

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := db.Migrate(conn, nil); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return conn
}
