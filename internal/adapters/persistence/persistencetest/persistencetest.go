// Package persistencetest opens migrated in-memory SQLite databases for tests.
package persistencetest

import (
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/jsamuelsen/quoteboard/internal/adapters/persistence"
)

// Open returns a migrated, isolated in-memory database named after the test.
// The pool is limited to one connection so concurrent callers serialize
// instead of failing on SQLite's table locks.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())

	db, err := persistence.Open(persistence.Options{
		Driver:       persistence.DriverSQLite,
		DSN:          "file:" + name + "?mode=memory&cache=shared&_foreign_keys=on",
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}

	if err := persistence.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite db: %v", err)
	}

	t.Cleanup(func() {
		_ = persistence.Close(db)
	})

	return db
}
