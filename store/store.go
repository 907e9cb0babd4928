// Package store implements a content-addressed cache of compiled
// programs, keyed by the sha256 of their source text and backed by
// SQLite. The CLI consults it before reparsing a source file.
package store

import (
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chazu/bfk/interp"
	"github.com/chazu/bfk/wire"
)

const schema = `
CREATE TABLE IF NOT EXISTS programs (
	hash    BLOB PRIMARY KEY,
	code    BLOB NOT NULL,
	created INTEGER NOT NULL
);`

// Store is a content-addressed index of compiled programs. Entries are
// stored in wire format, so cache contents survive across processes and
// are validated on the way back out.
type Store struct {
	db *sql.DB
}

// Open opens a store at the given path, creating it if necessary.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Index adds a compiled program to the store, keyed by its source hash.
// Reindexing the same source replaces the entry.
func (s *Store) Index(source []byte, prog *interp.Program) error {
	blob, err := wire.MarshalProgram(prog)
	if err != nil {
		return fmt.Errorf("store: encode program: %w", err)
	}
	h := sha256.Sum256(source)
	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO programs (hash, code, created) VALUES (?, ?, ?)`,
		h[:], blob, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("store: index program: %w", err)
	}
	return nil
}

// Lookup returns the compiled program for the given source, or nil if
// the store has no entry for it.
func (s *Store) Lookup(source []byte) (*interp.Program, error) {
	h := sha256.Sum256(source)
	var blob []byte
	err := s.db.QueryRow(`SELECT code FROM programs WHERE hash = ?`, h[:]).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: lookup program: %w", err)
	}

	prog, err := wire.UnmarshalProgram(blob)
	if err != nil {
		return nil, fmt.Errorf("store: decode cached program: %w", err)
	}
	return prog, nil
}

// Count returns the number of cached programs.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM programs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count programs: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
