package db

import (
	"strings"

	"github.com/teranos/starmatch/errors"
)

// ErrDatabaseClosed is returned when operations are attempted on a closed database.
// This typically occurs during shutdown when the listener closes the database
// while a region export is still running.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed checks if an error indicates the database connection is closed.
// This handles both:
// - Wrapped ErrDatabaseClosed errors from this package
// - Raw SQLite/sql driver errors that contain "database is closed" in their message
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}

	// The driver returns its own error values, so fall back to the message
	errMsg := err.Error()
	return strings.Contains(errMsg, "database is closed") ||
		strings.Contains(errMsg, "sql: database is closed")
}

// MarkClosed marks a driver error that means the database is closed so
// callers can test for it with errors.Is(err, ErrDatabaseClosed).
// Other errors are returned unchanged.
func MarkClosed(err error) error {
	if err == nil || errors.Is(err, ErrDatabaseClosed) || !IsDatabaseClosed(err) {
		return err
	}
	return errors.Mark(err, ErrDatabaseClosed)
}
