// Package postgres registers the PostgreSQL driver (pgx) with the adapter
// registry.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/leapstack-labs/leapxfer/pkg/adapter"
	"github.com/leapstack-labs/leapxfer/pkg/core"

	_ "github.com/leapstack-labs/leapxfer/pkg/dialects/postgres" // dialect
)

func init() {
	adapter.Register("postgres", Open)
}

// Open opens a PostgreSQL connection pool. The token, when set, is the
// password (IAM and bearer tokens are presented this way).
func Open(_ context.Context, cfg core.ConnConfig, logger *slog.Logger) (*sql.DB, error) {
	logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	connCfg, err := pgx.ParseConfig(buildPostgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres config: %w", err)
	}
	return stdlib.OpenDB(*connCfg), nil
}

// buildPostgresDSN constructs a key=value PostgreSQL connection string.
// Options other than password become extra key=value pairs.
func buildPostgresDSN(cfg core.ConnConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	parts := []string{
		"host=" + quoteValue(host),
		fmt.Sprintf("port=%d", port),
		"dbname=" + quoteValue(cfg.Database),
		"sslmode=" + quoteValue(cfg.Option("sslmode", "disable")),
	}
	if cfg.User != "" {
		parts = append(parts, "user="+quoteValue(cfg.User))
	}
	if pw := password(cfg); pw != "" {
		parts = append(parts, "password="+quoteValue(pw))
	}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		if k != "password" && k != "sslmode" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+quoteValue(cfg.Options[k]))
	}
	return strings.Join(parts, " ")
}

func password(cfg core.ConnConfig) string {
	if cfg.Token != "" {
		return cfg.Token
	}
	return cfg.Option("password", "")
}

// quoteValue quotes a libpq keyword value when it is empty or contains
// spaces, quotes or backslashes.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
