// Package postgres provides the PostgreSQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import (
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/dialect"
)

func init() {
	dialect.Register(Postgres)
}

// Postgres is the PostgreSQL dialect configuration.
// There is no unsigned 8-bit type, so booleans land in SMALLINT.
var Postgres = dialect.NewDialect("postgres").
	Aliases("postgresql", "pg").
	DefaultNamespace("public").
	PlaceholderStyle(dialect.PlaceholderDollar).
	Types(map[core.Kind]string{
		core.KindInt:       "BIGINT",
		core.KindFloat:     "DOUBLE PRECISION",
		core.KindString:    "TEXT",
		core.KindBool:      "SMALLINT",
		core.KindTimestamp: "TIMESTAMP",
		core.KindCategory:  "TEXT",
	}, "TEXT").
	Build()
