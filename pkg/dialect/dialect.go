// Package dialect describes how a store spells the statements the transfer
// engine issues: identifier quoting, placeholders, catalog queries, and the
// mapping from frame kinds to column types used by CREATE TABLE.
//
// Concrete dialects are registered from pkg/dialects/*/ packages.
package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapxfer/pkg/core"
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (ClickHouse, DuckDB, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// IdentifierConfig defines how identifiers are quoted.
type IdentifierConfig struct {
	Quote    string // Quote character: ", `
	QuoteEnd string // End quote character (usually same as Quote)
	Escape   string // Escape sequence for QuoteEnd inside a name
}

// Dialect represents a store's SQL flavour as far as transfers need it.
type Dialect struct {
	Name        string
	Aliases     []string // other type names accepted in connection descriptors
	Identifiers IdentifierConfig
	Placeholder PlaceholderStyle

	// DefaultNamespace qualifies table names when the connection sets no schema.
	// Empty means "use the connection's database name".
	DefaultNamespace string

	// TableOptions is appended after the column list of CREATE TABLE.
	TableOptions string

	// InsertValues reports whether bulk inserts carry a VALUES (?, ...) tuple.
	// ClickHouse batches take the bare "INSERT INTO t (cols)" form.
	InsertValues bool

	// nullable wraps a column type that must accept NULL, e.g. "Nullable(%s)".
	// Empty means every column type already accepts NULL.
	nullable string

	types      map[core.Kind]string
	textType   string
	listTables func(d *Dialect, namespace string) string
	describe   func(d *Dialect, namespace, table string) string
}

// ColumnType maps a frame kind to the column type used when creating tables.
// The mapping is total: any kind without an entry maps to the text type.
func (d *Dialect) ColumnType(k core.Kind) string {
	if t, ok := d.types[k]; ok {
		return t
	}
	return d.textType
}

// NullableType returns the form of typ that accepts NULL.
func (d *Dialect) NullableType(typ string) string {
	if d.nullable == "" {
		return typ
	}
	return fmt.Sprintf(d.nullable, typ)
}

// TextType returns the fallback column type.
func (d *Dialect) TextType() string {
	return d.textType
}

// Namespace resolves the qualifier for table names.
// Priority: cfg.Schema > DefaultNamespace > cfg.Database.
func (d *Dialect) Namespace(cfg core.ConnConfig) string {
	switch {
	case cfg.Schema != "":
		return cfg.Schema
	case d.DefaultNamespace != "":
		return d.DefaultNamespace
	default:
		return cfg.Database
	}
}

// Qualify joins namespace and table with a dot. Both are used verbatim.
func (d *Dialect) Qualify(namespace, table string) string {
	if namespace == "" {
		return table
	}
	return namespace + "." + table
}

// ListTablesSQL returns the statement listing tables in namespace.
// Its first result column must be the table name.
func (d *Dialect) ListTablesSQL(namespace string) string {
	return d.listTables(d, namespace)
}

// DescribeSQL returns the statement describing a table.
// Its first two result columns must be column name and type.
func (d *Dialect) DescribeSQL(namespace, table string) string {
	return d.describe(d, namespace, table)
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteString renders s as a single-quoted SQL string literal.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ---------- Builder ----------

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect starts a dialect with ANSI quoting, ? placeholders and
// information_schema catalog queries.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: IdentifierConfig{
				Quote:    `"`,
				QuoteEnd: `"`,
				Escape:   `""`,
			},
			InsertValues: true,
			types:        make(map[core.Kind]string),
			textType:     "TEXT",
			listTables:   informationSchemaTables,
			describe:     informationSchemaColumns,
		},
	}
}

// Identifiers sets the identifier quoting rules.
func (b *Builder) Identifiers(quote, quoteEnd, escape string) *Builder {
	b.dialect.Identifiers = IdentifierConfig{Quote: quote, QuoteEnd: quoteEnd, Escape: escape}
	return b
}

// Aliases adds type names that resolve to this dialect.
func (b *Builder) Aliases(names ...string) *Builder {
	b.dialect.Aliases = append(b.dialect.Aliases, names...)
	return b
}

// PlaceholderStyle sets the placeholder style for query parameters.
func (b *Builder) PlaceholderStyle(style PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// DefaultNamespace sets the table qualifier used when the connection names no schema.
func (b *Builder) DefaultNamespace(ns string) *Builder {
	b.dialect.DefaultNamespace = ns
	return b
}

// Types sets the kind → column type pairs and the text fallback.
func (b *Builder) Types(types map[core.Kind]string, text string) *Builder {
	for k, v := range types {
		b.dialect.types[k] = v
	}
	b.dialect.textType = text
	return b
}

// TableOptions sets the clause appended to CREATE TABLE.
func (b *Builder) TableOptions(opts string) *Builder {
	b.dialect.TableOptions = opts
	return b
}

// NullableWrapper sets the format applied to types of columns holding NULLs.
// The format takes the plain type as its only verb.
func (b *Builder) NullableWrapper(format string) *Builder {
	b.dialect.nullable = format
	return b
}

// InsertValues toggles the VALUES tuple on bulk inserts.
func (b *Builder) InsertValues(on bool) *Builder {
	b.dialect.InsertValues = on
	return b
}

// ListTables overrides the table listing statement.
func (b *Builder) ListTables(fn func(d *Dialect, namespace string) string) *Builder {
	b.dialect.listTables = fn
	return b
}

// Describe overrides the table description statement.
func (b *Builder) Describe(fn func(d *Dialect, namespace, table string) string) *Builder {
	b.dialect.describe = fn
	return b
}

// Build returns the dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}

func informationSchemaTables(_ *Dialect, namespace string) string {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = " + QuoteString(namespace)
}

func informationSchemaColumns(_ *Dialect, namespace, table string) string {
	return "SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = " +
		QuoteString(namespace) + " AND table_name = " + QuoteString(table) + " ORDER BY ordinal_position"
}
