// Package state keeps the history of batch runs in a local SQLite file.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

var errNotOpen = errors.New("database not opened")

// Store records job results per run.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewStore creates a store. A nil logger discards output.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{logger: logger}
}

// Open opens the history file, creating it and its directory if needed,
// and migrates it to the latest schema. Use ":memory:" for tests.
func (s *Store) Open(ctx context.Context, path string) error {
	dsn := ":memory:?_time_format=sqlite"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create history directory: %w", err)
			}
		}
		dsn = "file:" + path + "?_time_format=sqlite&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	// a second connection to ":memory:" would see an empty database
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping history database: %w", err)
	}

	s.db = db
	s.path = path
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return err
	}
	s.logger.Debug("history opened", "path", path)
	return nil
}

// Path returns the file the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
