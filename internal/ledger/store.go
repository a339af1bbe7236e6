// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a history of conversion attempts in a SQLite
// database. The ledger is write-only from the converter's point of view:
// nothing recorded here changes what a later run converts.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/jpg2png/pkg/types"
)

// DefaultPath is the ledger location used when none is configured.
const DefaultPath = ".jpg2png/ledger.db"

// timeLayout is fixed-width so that started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store manages the ledger SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the ledger database at path, creating the parent
// directory and the schema when they do not exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			output TEXT,
			status TEXT NOT NULL,
			error TEXT,
			quality INTEGER,
			codec TEXT,
			started_at TEXT NOT NULL,
			duration_ns INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_status ON conversions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_source ON conversions(source)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_started_at ON conversions(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one conversion attempt to the ledger.
func (s *Store) Record(ctx context.Context, rec types.ConversionRecord) error {
	startedAt := rec.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (source, output, status, error, quality, codec, started_at, duration_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Source, rec.Output, string(rec.Status), rec.Error,
		rec.Quality, rec.Codec, startedAt.UTC().Format(timeLayout), int64(rec.Duration),
	)
	if err != nil {
		return fmt.Errorf("inserting record for %s: %w", rec.Source, err)
	}
	return nil
}
