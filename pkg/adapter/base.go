package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/leapstack-labs/leapxfer/pkg/frame"
)

// QueryResult holds the raw outcome of RunQuery.
type QueryResult struct {
	Columns []string
	Rows    [][]any
}

// Frame converts the result into a frame, inferring one kind per column.
func (r *QueryResult) Frame() (*frame.Frame, error) {
	return frame.FromRows(frame.UniqueNames(r.Columns), r.Rows)
}

// query runs stmt and collects every row. The caller owns the statement text.
func (a *Adapter) query(ctx context.Context, db *sql.DB, stmt string) (*QueryResult, error) {
	start := time.Now()
	a.logger.Debug("executing query", "sql", stmt)

	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	res := &QueryResult{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	a.logger.Debug("query complete", "rows", len(res.Rows), "duration", time.Since(start))
	return res, nil
}

// materialize runs stmt and returns the rows as a frame.
func (a *Adapter) materialize(ctx context.Context, db *sql.DB, stmt string) (*frame.Frame, error) {
	res, err := a.query(ctx, db, stmt)
	if err != nil {
		return nil, err
	}
	return res.Frame()
}

// firstString renders the leading cells of catalog rows as text.
func firstString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
