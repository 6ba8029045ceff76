// Package duckdb provides the DuckDB SQL dialect definition.
// This package is lightweight and has no database driver dependencies.
package duckdb

import (
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/dialect"
)

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect configuration.
var DuckDB = dialect.NewDialect("duckdb").
	DefaultNamespace("main").
	Types(map[core.Kind]string{
		core.KindInt:       "BIGINT",
		core.KindFloat:     "DOUBLE",
		core.KindString:    "VARCHAR",
		core.KindBool:      "UTINYINT",
		core.KindTimestamp: "TIMESTAMP",
		core.KindCategory:  "VARCHAR",
	}, "VARCHAR").
	Describe(func(d *dialect.Dialect, ns, table string) string {
		return "DESCRIBE " + d.Qualify(ns, table)
	}).
	Build()
