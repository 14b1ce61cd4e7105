// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"testing"

	"foodgram/db"

	"github.com/jinzhu/gorm"
)

// Open returns a migrated in-memory sqlite database closed at test cleanup.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := db.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}
