// Package clickhouse provides the ClickHouse SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package clickhouse

import (
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/dialect"
)

func init() {
	dialect.Register(ClickHouse)
}

// ClickHouse is the ClickHouse dialect configuration.
// Tables are created on the general-purpose MergeTree engine with an empty
// sort key, so creation never depends on the data. Columns holding nulls
// are created Nullable.
var ClickHouse = dialect.NewDialect("clickhouse").
	Aliases("ch").
	Identifiers("`", "`", "\\`").
	Types(map[core.Kind]string{
		core.KindInt:       "Int64",
		core.KindFloat:     "Float64",
		core.KindString:    "String",
		core.KindBool:      "UInt8",
		core.KindTimestamp: "DateTime",
		core.KindCategory:  "String",
	}, "String").
	NullableWrapper("Nullable(%s)").
	TableOptions("ENGINE = MergeTree() ORDER BY tuple()").
	InsertValues(false).
	ListTables(func(_ *dialect.Dialect, ns string) string {
		return "SHOW TABLES FROM " + ns
	}).
	Describe(func(d *dialect.Dialect, ns, table string) string {
		return "DESCRIBE TABLE " + d.Qualify(ns, table)
	}).
	Build()
