// Package adapter provides the database side of the transfer engine.
//
// An Adapter wraps one database/sql handle to an analytical store and
// exposes table listing, description, previews, (joined) exports and
// imports that create the destination table on first use. Store specifics
// come from a registered driver Opener (pkg/adapters/*) and a dialect
// (pkg/dialects/*), both selected by core.ConnConfig.Type.
//
// Security: RunQuery executes its argument verbatim, and table names,
// projections and join predicates are spliced into statements unescaped
// (see pkg/sqlbuild). Only pass trusted input.
//
// An Adapter is not safe for concurrent use. The held handle is trusted
// until it faults; it is not revalidated before each call.
package adapter

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/dialect"
)

// DefaultType is the store type used when ConnConfig.Type is empty.
const DefaultType = "clickhouse"

// Adapter talks to one analytical store.
type Adapter struct {
	cfg     core.ConnConfig
	dialect *dialect.Dialect
	open    Opener
	db      *sql.DB
	logger  *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger. Nil keeps the discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithOpener replaces the registered opener for this adapter.
func WithOpener(open Opener) Option {
	return func(a *Adapter) {
		a.open = open
	}
}

// WithDialect replaces the registered dialect for this adapter.
func WithDialect(d *dialect.Dialect) Option {
	return func(a *Adapter) {
		a.dialect = d
	}
}

// New creates an adapter for cfg. The store type must have a registered
// dialect and opener unless both are supplied as options.
// No connection is made until Connect.
func New(cfg core.ConnConfig, opts ...Option) (*Adapter, error) {
	cfg = cfg.Clone()
	if cfg.Type == "" {
		cfg.Type = DefaultType
	}
	cfg.Type = dialect.Canonical(cfg.Type)

	a := &Adapter{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.dialect == nil {
		d, ok := dialect.Get(cfg.Type)
		if !ok {
			return nil, &UnknownAdapterError{Type: cfg.Type, Available: dialect.List()}
		}
		a.dialect = d
	}
	if a.open == nil {
		o, ok := Get(cfg.Type)
		if !ok {
			return nil, &UnknownAdapterError{Type: cfg.Type, Available: ListAdapters()}
		}
		a.open = o
	}
	return a, nil
}

// Config returns a copy of the connection descriptor.
func (a *Adapter) Config() core.ConnConfig {
	return a.cfg.Clone()
}

// Dialect returns the adapter's dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return a.dialect
}

// Namespace returns the qualifier applied to table names.
func (a *Adapter) Namespace() string {
	return a.dialect.Namespace(a.cfg)
}

// IsConnected returns true if the database connection is established.
func (a *Adapter) IsConnected() bool {
	return a.db != nil
}

// Connect opens a new handle and runs a liveness query.
// Any previous handle is closed first. On failure no handle is kept.
func (a *Adapter) Connect(ctx context.Context) error {
	const op = "Connection"

	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}

	a.logger.Debug("connecting",
		slog.String("type", a.cfg.Type),
		slog.String("host", a.cfg.Host),
		slog.String("database", a.cfg.Database),
		slog.Bool("token", a.cfg.Token != ""))

	db, err := a.open(ctx, a.cfg, a.logger)
	if err != nil {
		return core.Wrap(op, core.KindConnection, err)
	}

	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		_ = db.Close()
		return core.Wrap(op, core.KindConnection, err)
	}

	a.db = db
	return nil
}

// Close closes the database connection. Calling it twice is harmless.
func (a *Adapter) Close() error {
	if a.db == nil {
		return nil
	}
	a.logger.Debug("closing database connection")
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *Adapter) handle(op string) (*sql.DB, error) {
	if a.db == nil {
		return nil, core.Wrap(op, core.KindNotConnected, core.ErrNotConnected)
	}
	return a.db, nil
}

func (a *Adapter) qualify(table string) string {
	return a.dialect.Qualify(a.Namespace(), table)
}
