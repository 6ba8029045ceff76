// Package clickhouse registers the ClickHouse driver (clickhouse-go) with
// the adapter registry.
//
// The token, when set, is sent as a JWT (ClickHouse Cloud); it needs
// params.secure. Password auth takes the "password" option. The user
// defaults to "default".
package clickhouse

import (
	"context"
	"crypto/tls"
	"database/sql"
	"log/slog"
	"net"
	"strconv"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/leapstack-labs/leapxfer/pkg/adapter"
	"github.com/leapstack-labs/leapxfer/pkg/core"

	_ "github.com/leapstack-labs/leapxfer/pkg/dialects/clickhouse" // dialect
)

func init() {
	adapter.Register("clickhouse", Open)
}

// Open returns a ClickHouse pool. No round trip is made here.
func Open(_ context.Context, cfg core.ConnConfig, logger *slog.Logger) (*sql.DB, error) {
	opts, maxOpen, err := buildOptions(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("connecting to clickhouse",
		slog.Any("addr", opts.Addr),
		slog.String("database", opts.Auth.Database),
		slog.Bool("tls", opts.TLS != nil),
		slog.Bool("jwt", opts.GetJWT != nil))

	db := clickhouse.OpenDB(opts)
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	return db, nil
}

func buildOptions(cfg core.ConnConfig) (*clickhouse.Options, int, error) {
	p, err := parseParams(cfg.Params)
	if err != nil {
		return nil, 0, err
	}
	protocol, err := p.protocol()
	if err != nil {
		return nil, 0, err
	}
	compression, err := p.compression()
	if err != nil {
		return nil, 0, err
	}

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort(protocol, p.Secure)
	}
	user := cfg.User
	if user == "" {
		user = "default"
	}
	opts := &clickhouse.Options{
		Addr:     []string{net.JoinHostPort(host, strconv.Itoa(port))},
		Protocol: protocol,
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: user,
			Password: cfg.Option("password", ""),
		},
		Compression: compression,
		DialTimeout: p.DialTimeout,
	}
	if token := cfg.Token; token != "" {
		opts.GetJWT = func(context.Context) (string, error) {
			return token, nil
		}
	}
	if len(p.Settings) > 0 {
		opts.Settings = clickhouse.Settings(p.Settings)
	}
	if p.Secure {
		opts.TLS = &tls.Config{InsecureSkipVerify: p.SkipVerify} //nolint:gosec // opt-in via skip_verify
	}
	return opts, p.MaxOpenConns, nil
}

func defaultPort(protocol clickhouse.Protocol, secure bool) int {
	switch {
	case protocol == clickhouse.HTTP && secure:
		return 8443
	case protocol == clickhouse.HTTP:
		return 8123
	case secure:
		return 9440
	default:
		return 9000
	}
}
