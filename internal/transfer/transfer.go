// Package transfer pairs a source and a sink adapter and moves frames
// between them. Every operation here returns a core.Result envelope; the
// adapters themselves never talk to each other.
package transfer

import (
	"context"

	"github.com/leapstack-labs/leapxfer/pkg/adapter"
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/fileio"
	"github.com/leapstack-labs/leapxfer/pkg/frame"
)

// TableExport describes a database read: a table, an optional projection
// and optional joins.
type TableExport struct {
	Table   string
	Columns []string
	Joins   core.JoinSpec
}

// Connect opens the adapter's connection.
func Connect(ctx context.Context, db *adapter.Adapter) core.Result[bool] {
	return core.Envelope("Connection", func() (bool, error) {
		if err := db.Connect(ctx); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Tables lists the tables of db.
func Tables(ctx context.Context, db *adapter.Adapter) core.Result[[]string] {
	return core.Envelope("ListTables", func() ([]string, error) {
		return db.ListTables(ctx)
	})
}

// Describe returns the columns of table.
func Describe(ctx context.Context, db *adapter.Adapter, table string) core.Result[[]core.Column] {
	return core.Envelope("DescribeTable", func() ([]core.Column, error) {
		return db.DescribeTable(ctx, table)
	})
}

// Query runs a verbatim statement.
func Query(ctx context.Context, db *adapter.Adapter, stmt string) core.Result[*adapter.QueryResult] {
	return core.Envelope("Query", func() (*adapter.QueryResult, error) {
		return db.RunQuery(ctx, stmt)
	})
}

// PreviewTable returns at most limit rows of a table.
func PreviewTable(ctx context.Context, db *adapter.Adapter, table string, columns []string, limit int) core.Result[*frame.Frame] {
	return core.Envelope("Preview", func() (*frame.Frame, error) {
		return db.Preview(ctx, table, columns, limit)
	})
}

// ExportToFile reads from db and writes the rows to sink's output path.
func ExportToFile(ctx context.Context, db *adapter.Adapter, req TableExport, sink *fileio.Adapter, output string) core.Result[fileio.WriteResult] {
	return core.Envelope("Export", func() (fileio.WriteResult, error) {
		f, err := db.Export(ctx, req.Table, req.Columns, req.Joins)
		if err != nil {
			return fileio.WriteResult{}, err
		}
		return sink.Write(f, output, nil)
	})
}

// ImportFile reads src, projected onto columns, and inserts every row into
// table, creating it when absent.
func ImportFile(ctx context.Context, src *fileio.Adapter, columns []string, db *adapter.Adapter, table string) core.Result[int] {
	return core.Envelope("Import", func() (int, error) {
		f, err := src.Export(columns)
		if err != nil {
			return 0, err
		}
		return db.Import(ctx, f, table, nil)
	})
}

// FileSchema reports the inferred columns of src.
func FileSchema(src *fileio.Adapter) core.Result[[]core.Column] {
	return core.Envelope("Schema", src.Schema)
}

// PreviewFile returns at most limit rows of src.
func PreviewFile(src *fileio.Adapter, columns []string, limit int) core.Result[*frame.Frame] {
	return core.Envelope("Preview", func() (*frame.Frame, error) {
		return src.Preview(columns, limit)
	})
}

// ConvertFile rewrites src, projected onto columns, in the format of output.
func ConvertFile(src *fileio.Adapter, columns []string, output string) core.Result[fileio.WriteResult] {
	return core.Envelope("Convert", func() (fileio.WriteResult, error) {
		f, err := src.Export(columns)
		if err != nil {
			return fileio.WriteResult{}, err
		}
		return src.Write(f, output, nil)
	})
}
