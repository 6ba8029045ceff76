package adapter

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/frame"
	"github.com/leapstack-labs/leapxfer/pkg/sqlbuild"
)

// ListTables returns the table names in the adapter's namespace, in the
// order the store reports them.
func (a *Adapter) ListTables(ctx context.Context) ([]string, error) {
	const op = "ListTables"
	db, err := a.handle(op)
	if err != nil {
		return nil, err
	}

	res, err := a.query(ctx, db, a.dialect.ListTablesSQL(a.Namespace()))
	if err != nil {
		return nil, core.Wrap(op, core.KindQuery, err)
	}
	tables := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) == 0 {
			continue
		}
		tables = append(tables, firstString(row[0]))
	}
	return tables, nil
}

// DescribeTable returns the column names and store types of table.
// A table the store reports no columns for is a schema error.
func (a *Adapter) DescribeTable(ctx context.Context, table string) ([]core.Column, error) {
	const op = "DescribeTable"
	db, err := a.handle(op)
	if err != nil {
		return nil, err
	}

	res, err := a.query(ctx, db, a.dialect.DescribeSQL(a.Namespace(), table))
	if err != nil {
		return nil, core.Wrap(op, core.KindSchema, err)
	}
	if len(res.Rows) == 0 {
		return nil, core.Errorf(op, core.KindSchema, "table %s not found", a.qualify(table))
	}

	cols := make([]core.Column, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) < 2 {
			return nil, core.Errorf(op, core.KindSchema, "describe returned %d columns, expected name and type", len(row))
		}
		cols = append(cols, core.Column{Name: firstString(row[0]), Type: firstString(row[1])})
	}
	return cols, nil
}

// RunQuery executes stmt verbatim and returns its columns and rows.
// The statement is not validated; callers must only pass trusted SQL.
func (a *Adapter) RunQuery(ctx context.Context, stmt string) (*QueryResult, error) {
	const op = "Query"
	db, err := a.handle(op)
	if err != nil {
		return nil, err
	}
	res, err := a.query(ctx, db, stmt)
	if err != nil {
		return nil, core.Wrap(op, core.KindQuery, err)
	}
	return res, nil
}

// Preview returns at most limit rows of table, projected onto columns
// (all columns when empty).
func (a *Adapter) Preview(ctx context.Context, table string, columns []string, limit int) (*frame.Frame, error) {
	const op = "Preview"
	if limit < 0 {
		return nil, core.Errorf(op, core.KindInvalid, "limit must not be negative, got %d", limit)
	}
	db, err := a.handle(op)
	if err != nil {
		return nil, err
	}

	stmt := sqlbuild.NewSelect(a.qualify(table), columns...).Limit(limit).String()
	f, err := a.materialize(ctx, db, stmt)
	if err != nil {
		return nil, core.Wrap(op, core.KindQuery, err)
	}
	return f, nil
}

// Export reads table in full, projected onto columns and joined with every
// entry of joins in order. The statement is executed once.
func (a *Adapter) Export(ctx context.Context, table string, columns []string, joins core.JoinSpec) (*frame.Frame, error) {
	const op = "Export"
	db, err := a.handle(op)
	if err != nil {
		return nil, err
	}

	sel := sqlbuild.NewSelect(a.qualify(table), columns...)
	for _, j := range joins {
		sel.Join(a.qualify(j.Table), j.On)
	}
	f, err := a.materialize(ctx, db, sel.String())
	if err != nil {
		return nil, core.Wrap(op, core.KindQuery, err)
	}
	a.logger.Debug("exported rows", "table", table, "rows", f.Len(), "joins", len(joins))
	return f, nil
}

// Import writes every row of f into table, creating it from the frame's
// column kinds when it does not exist yet. Rows are inserted inside one
// transaction. Returns the number of rows inserted.
func (a *Adapter) Import(ctx context.Context, f *frame.Frame, table string, columns []string) (int, error) {
	const op = "Import"
	db, err := a.handle(op)
	if err != nil {
		return 0, err
	}
	if f == nil {
		return 0, core.Errorf(op, core.KindInvalid, "no data to import")
	}

	data, err := f.Select(columns)
	if err != nil {
		return 0, core.Wrap(op, core.KindProjection, err)
	}
	if data.Width() == 0 {
		return 0, core.Errorf(op, core.KindInvalid, "no columns to import")
	}

	exists, err := a.tableExists(ctx, table)
	if err != nil {
		return 0, core.Wrap(op, core.KindQuery, err)
	}

	target := a.qualify(table)
	if !exists {
		defs := make([]sqlbuild.ColumnDef, 0, data.Width())
		for _, s := range data.Series() {
			defs = append(defs, sqlbuild.ColumnDef{Name: s.Name, Kind: s.Kind, Nullable: s.HasNulls()})
		}
		ddl := sqlbuild.CreateTable(a.dialect, target, defs)
		a.logger.Debug("creating table", "sql", ddl)
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return 0, core.Wrap(op, core.KindQuery, fmt.Errorf("failed to create table: %w", err))
		}
	}

	if err := a.insert(ctx, target, data); err != nil {
		return 0, core.Wrap(op, core.KindQuery, err)
	}
	a.logger.Debug("imported rows", "table", table, "rows", data.Len(), "created", !exists)
	return data.Len(), nil
}

func (a *Adapter) tableExists(ctx context.Context, table string) (bool, error) {
	tables, err := a.ListTables(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range tables {
		if t == table {
			return true, nil
		}
	}
	return false, nil
}

func (a *Adapter) insert(ctx context.Context, target string, data *frame.Frame) (err error) {
	stmt := sqlbuild.Insert(a.dialect, target, data.Names())
	a.logger.Debug("inserting rows", "sql", stmt, "rows", data.Len())

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = prepared.Close() }()

	for i := range data.Len() {
		row := data.Row(i)
		for j, v := range row {
			if b, ok := v.(bool); ok {
				row[j] = boolValue(b)
			}
		}
		if _, err = prepared.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func boolValue(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
