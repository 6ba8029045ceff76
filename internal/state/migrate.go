package state

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

func (s *Store) provider() (*goose.Provider, error) {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(goose.DialectSQLite3, s.db, sub)
}

// Migrate runs all pending migrations.
func (s *Store) Migrate(ctx context.Context) error {
	if s.db == nil {
		return errNotOpen
	}
	p, err := s.provider()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	applied, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, m := range applied {
		s.logger.Debug("applied migration", "version", m.Source.Version, "duration", m.Duration)
	}
	return nil
}

// MigrationVersion returns the current schema version.
func (s *Store) MigrationVersion(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, errNotOpen
	}
	p, err := s.provider()
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}
	return p.GetDBVersion(ctx)
}
