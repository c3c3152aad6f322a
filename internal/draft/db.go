// Package draft persists wizard session snapshots so a half-finished
// setup can be resumed later. Storage is a local sqlite database; a
// draft row holds a name plus the opaque session snapshot produced by
// the wizard package.
package draft

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Open opens sqlite with sensible defaults, creating the parent
// directory if needed.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return db, nil
}

// Now returns UTC time truncated to seconds (consistent with SQLite
// default).
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
