// Package sqlite registers the SQLite driver (modernc.org/sqlite, pure Go)
// with the adapter registry.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/leapxfer/pkg/adapter"
	"github.com/leapstack-labs/leapxfer/pkg/core"

	_ "github.com/leapstack-labs/leapxfer/pkg/dialects/sqlite" // dialect
	_ "modernc.org/sqlite"                                      // driver
)

func init() {
	adapter.Register("sqlite", Open)
}

// Params holds SQLite-specific connection parameters.
type Params struct {
	// Pragmas applied to every connection, e.g. busy_timeout: 5000.
	Pragmas map[string]string `mapstructure:"pragmas"`
}

// Open opens a SQLite database file. An empty Path is an in-memory
// database; the pool is then capped at one connection so every statement
// sees the same database.
func Open(_ context.Context, cfg core.ConnConfig, logger *slog.Logger) (*sql.DB, error) {
	var p Params
	if err := mapstructure.WeakDecode(cfg.Params, &p); err != nil {
		return nil, fmt.Errorf("invalid sqlite params: %w", err)
	}

	dsn := buildDSN(cfg.Path, p.Pragmas)
	logger.Debug("opening sqlite", slog.String("dsn", dsn))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite connection: %w", err)
	}
	if isMemory(cfg.Path) {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func isMemory(path string) bool {
	return path == "" || path == ":memory:"
}

func buildDSN(path string, pragmas map[string]string) string {
	if isMemory(path) {
		path = ":memory:"
	}
	if len(pragmas) == 0 {
		return path
	}
	keys := make([]string, 0, len(pragmas))
	for k := range pragmas {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := make([]string, len(keys))
	for i, k := range keys {
		q[i] = "_pragma=" + url.QueryEscape(fmt.Sprintf("%s(%s)", k, pragmas[k]))
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + strings.TrimPrefix(path, "file:") + sep + strings.Join(q, "&")
}
