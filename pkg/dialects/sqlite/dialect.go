// Package sqlite provides the SQLite SQL dialect definition.
package sqlite

import (
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/dialect"
)

func init() {
	dialect.Register(SQLite)
}

// SQLite is the SQLite dialect configuration.
// SQLite has no timestamp storage class; timestamps are stored as text.
var SQLite = dialect.NewDialect("sqlite").
	Aliases("sqlite3").
	DefaultNamespace("main").
	Types(map[core.Kind]string{
		core.KindInt:       "INTEGER",
		core.KindFloat:     "REAL",
		core.KindString:    "TEXT",
		core.KindBool:      "INTEGER",
		core.KindTimestamp: "TEXT",
		core.KindCategory:  "TEXT",
	}, "TEXT").
	ListTables(func(_ *dialect.Dialect, ns string) string {
		return "SELECT name FROM " + ns + ".sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'"
	}).
	Describe(func(_ *dialect.Dialect, ns, table string) string {
		return "SELECT name, type FROM pragma_table_info(" + dialect.QuoteString(table) + ", " + dialect.QuoteString(ns) + ")"
	}).
	Build()
