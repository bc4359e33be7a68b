// Package store is the SQLite persistence layer for the Cortex knowledge
// database: sessions, notes, activities, searches, projects, computers,
// people, and files.
package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Store wraps a SQLite connection in WAL mode. Writes are serialized
// through writeMu — WAL gives us concurrent readers, but SQLite still
// only accepts one writer at a time, and pool-level contention on
// "database is locked" is worse than just queuing in-process.
type Store struct {
	db      *sql.DB
	path    string
	writeMu sync.Mutex
}

// Open creates (if needed) and opens the Cortex database at path, applying
// the schema and the pragmas the wearable's single-writer model depends
// on: WAL journaling, foreign keys, and a busy timeout so a reader never
// trips over a momentarily-locked writer.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1 << 4)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the open database, used by the HTTP
// transport's snapshot-download endpoint.
func (s *Store) Path() string {
	return s.path
}
