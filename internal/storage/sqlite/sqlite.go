// Package sqlite provides a file-backed data store for local development and
// tests. It uses GORM's SQLite driver, which in turn registers the cgo
// mattn/go-sqlite3 driver with database/sql.
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// Registers the "sqlite3" database/sql driver that the dialector opens.
	_ "github.com/mattn/go-sqlite3"
)

// pragmas are applied to every connection via mattn/go-sqlite3 DSN
// parameters. WAL lets readers proceed while a write is in flight, and the
// busy timeout makes concurrent writers wait instead of failing.
const pragmas = "_busy_timeout=5000&_journal_mode=WAL"

// Dialector prepares path (creating its parent directory) and returns a
// GORM dialector for it.
func Dialector(path string) (gorm.Dialector, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.Dialector: create dir: %w", err)
		}
	}

	return gormsqlite.New(gormsqlite.Config{
		DriverName: "sqlite3",
		DSN:        path + "?" + pragmas,
	}), nil
}
