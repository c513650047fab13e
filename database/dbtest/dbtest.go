// Package dbtest opens throwaway sqlite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"warbler/config"
	"warbler/database"
)

// New returns a migrated database backed by a file in t.TempDir.
func New(t testing.TB) *database.DB {
	t.Helper()

	db, err := database.New(config.Database{
		Driver: "sqlite",
		URL:    filepath.Join(t.TempDir(), "warbler-test.db") + "?_foreign_keys=on",
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
