// Package runstore archives completed runs in a SQLite database.
package runstore

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// schemaVersion is recorded in PRAGMA user_version. Archives written by a
// newer layout are refused rather than misread.
const schemaVersion = 1

var ErrSchemaVersion = errors.New("unsupported archive schema version")

// Store is a run archive. Its ecc flag only affects runs saved through it;
// every archived run records whether its assignment was Golay protected and
// LoadRun decodes it accordingly, so one archive may hold both kinds.
type Store struct {
	db  *sql.DB
	ecc bool
}

// dsn enables foreign keys and WAL on every pooled connection, not just the
// first one.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}

// Open opens or creates the archive at path and brings its schema up to
// date. When ecc is set, saved assignment vectors are Golay protected.
func Open(path string, ecc bool) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open run archive %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run archive %s: %w", path, err)
	}
	return &Store{db: db, ecc: ecc}, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch {
	case version == schemaVersion:
		return nil
	case version > schemaVersion:
		return fmt.Errorf("%w: %d, newest known is %d", ErrSchemaVersion, version, schemaVersion)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
