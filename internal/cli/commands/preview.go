package commands

import (
	"github.com/leapstack-labs/leapxfer/internal/cli/output"
	"github.com/leapstack-labs/leapxfer/internal/transfer"
	"github.com/spf13/cobra"
)

// NewPreviewCommand creates the preview command.
func NewPreviewCommand() *cobra.Command {
	var columns []string

	cmd := &cobra.Command{
		Use:   "preview <table>",
		Short: "Show the first rows of a table",
		Long: `Show at most --limit rows of a table (100 unless configured),
optionally restricted to some columns.`,
		Example: `  leapxfer preview users
  leapxfer preview users --columns id,email --limit 3 -o table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			db, err := cc.OpenDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			res := mapResult(transfer.PreviewTable(cmd.Context(), db, args[0], columns, cc.Cfg.Limit), frameTable)
			return emit(cc.Renderer, res, func(t *output.Table) error {
				return cc.Renderer.Table(*t)
			})
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to select (default: all)")
	return cmd
}
