package sqlbuild

import (
	"strings"

	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/dialect"
)

// ColumnDef is one column of a CREATE TABLE statement.
type ColumnDef struct {
	Name     string
	Kind     core.Kind
	Nullable bool
}

// CreateTable renders CREATE TABLE for table with one column per def,
// typed by the dialect's kind mapping and followed by its table options.
// Nullable columns get the dialect's nullable form of their type.
func CreateTable(d *dialect.Dialect, table string, defs []ColumnDef) string {
	cols := make([]string, len(defs))
	for i, def := range defs {
		typ := d.ColumnType(def.Kind)
		if def.Nullable {
			typ = d.NullableType(typ)
		}
		cols[i] = d.QuoteIdentifier(def.Name) + " " + typ
	}
	stmt := "CREATE TABLE " + table + " (" + strings.Join(cols, ", ") + ")"
	if d.TableOptions != "" {
		stmt += " " + d.TableOptions
	}
	return stmt
}

// Insert renders the bulk INSERT used with a prepared statement.
// Dialects with InsertValues get a VALUES tuple of placeholders.
func Insert(d *dialect.Dialect, table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.QuoteIdentifier(c)
	}
	stmt := "INSERT INTO " + table + " (" + strings.Join(quoted, ", ") + ")"
	if !d.InsertValues {
		return stmt
	}
	ph := make([]string, len(columns))
	for i := range ph {
		ph[i] = d.FormatPlaceholder(i + 1)
	}
	return stmt + " VALUES (" + strings.Join(ph, ", ") + ")"
}
