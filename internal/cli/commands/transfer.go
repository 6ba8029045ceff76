package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapxfer/internal/transfer"
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/fileio"
	"github.com/spf13/cobra"
)

// ExportOptions holds options for the export command.
type ExportOptions struct {
	Columns    []string
	JoinTables []string
	JoinOn     []string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export <table> <output-file>",
		Short: "Export a table, optionally joined, to a file",
		Long: `Export a table to a file whose format follows the extension.

Each --join names a table joined with the predicate given by the --on at
the same position. Joins are applied left to right. When the counts of
--join and --on differ no join is applied.`,
		Example: `  leapxfer export users users.csv
  leapxfer export users report.xlsx --columns users.id,orders.total \
    --join orders --on "users.id = orders.user_id"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			joins := core.ZipJoins(opts.JoinTables, opts.JoinOn)
			if joins == nil && (len(opts.JoinTables) > 0 || len(opts.JoinOn) > 0) {
				cc.Renderer.Warning(fmt.Sprintf("joins ignored: %d tables but %d conditions", len(opts.JoinTables), len(opts.JoinOn)))
			}

			db, err := cc.OpenDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			req := transfer.TableExport{Table: args[0], Columns: opts.Columns, Joins: joins}
			res := transfer.ExportToFile(cmd.Context(), db, req, cc.File(args[1]), args[1])
			return emit(cc.Renderer, res, func(w fileio.WriteResult) error {
				cc.Renderer.Success(fmt.Sprintf("Exported %d rows to %s", w.Count, w.Path))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Columns, "columns", "c", nil, "Columns to select (default: all)")
	cmd.Flags().StringArrayVar(&opts.JoinTables, "join", nil, "Table to join (repeatable)")
	cmd.Flags().StringArrayVar(&opts.JoinOn, "on", nil, "Join predicate for the --join at the same position (repeatable)")
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	var columns []string

	cmd := &cobra.Command{
		Use:   "import <file> <table>",
		Short: "Import a file into a table, creating it when absent",
		Long: `Import a file into a table. When the table does not exist it is
created with column types inferred from the file.`,
		Example: `  leapxfer import customers.csv customers
  leapxfer import events.parquet events --columns id,ts`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			db, err := cc.OpenDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			res := transfer.ImportFile(cmd.Context(), cc.File(args[0]), columns, db, args[1])
			return emit(cc.Renderer, res, func(n int) error {
				cc.Renderer.Success(fmt.Sprintf("Imported %d rows into %s", n, args[1]))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to import (default: all)")
	return cmd
}
