// Package duckdb registers the DuckDB driver with the adapter registry.
// Import it with a blank identifier:
//
//	import _ "github.com/leapstack-labs/leapxfer/pkg/adapters/duckdb"
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/leapstack-labs/leapxfer/pkg/adapter"
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/marcboeker/go-duckdb"

	_ "github.com/leapstack-labs/leapxfer/pkg/dialects/duckdb" // dialect
)

func init() {
	adapter.Register("duckdb", Open)
}

// Open opens a DuckDB database. An empty Path is an in-memory database.
// A token is passed as motherduck_token for md: paths.
func Open(ctx context.Context, cfg core.ConnConfig, logger *slog.Logger) (*sql.DB, error) {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return nil, err
	}

	dsn := buildDSN(cfg)
	setup := params.setupStatements()
	logger.Debug("opening duckdb", slog.String("path", cfg.Path), slog.Int("setup_statements", len(setup)))

	connector, err := duckdb.NewConnector(dsn, func(execer driver.ExecerContext) error {
		for _, stmt := range setup {
			if _, err := execer.ExecContext(context.Background(), stmt, nil); err != nil {
				return fmt.Errorf("failed to run %q: %w", stmt, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	db := sql.OpenDB(connector)

	for _, s := range params.Secrets {
		if _, err := db.ExecContext(ctx, buildCreateSecretSQL(s)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create %s secret: %w", s.Type, err)
		}
	}
	return db, nil
}

func buildDSN(cfg core.ConnConfig) string {
	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}
	if cfg.Token == "" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "motherduck_token=" + url.QueryEscape(cfg.Token)
}
