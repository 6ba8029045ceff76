package commands

import (
	"github.com/leapstack-labs/leapxfer/internal/cli/output"
	"github.com/leapstack-labs/leapxfer/internal/transfer"
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables in the configured database",
		Long: `List the tables of the configured namespace, in the order the
database reports them.`,
		Example: `  leapxfer tables
  leapxfer tables --type sqlite --path warehouse.db -o table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			db, err := cc.OpenDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return emit(cc.Renderer, transfer.Tables(cmd.Context(), db), func(tables []string) error {
				rows := make([][]any, len(tables))
				for i, t := range tables {
					rows[i] = []any{t}
				}
				return cc.Renderer.Table(output.Table{Columns: []string{"table"}, Rows: rows})
			})
		},
	}
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <table>",
		Short: "Show the columns of a table",
		Example: `  leapxfer describe users
  leapxfer describe users -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			db, err := cc.OpenDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return emit(cc.Renderer, transfer.Describe(cmd.Context(), db, args[0]), func(cols []core.Column) error {
				return cc.Renderer.Table(columnsTable(cols))
			})
		},
	}
}

func columnsTable(cols []core.Column) output.Table {
	rows := make([][]any, len(cols))
	for i, c := range cols {
		rows[i] = []any{c.Name, c.Type}
	}
	return output.Table{Columns: []string{"column", "type"}, Rows: rows}
}
