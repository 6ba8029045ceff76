package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapxfer/internal/cli/output"
	"github.com/leapstack-labs/leapxfer/internal/transfer"
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/fileio"
	"github.com/spf13/cobra"
)

// NewFileCommand creates the file command and its subcommands.
func NewFileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Inspect and convert flat files",
		Long: `Inspect and convert flat files without a database.

Supported extensions: ` + strings.Join(fileio.Extensions(), ", "),
	}

	cmd.AddCommand(newFileSchemaCommand())
	cmd.AddCommand(newFilePreviewCommand())
	cmd.AddCommand(newFileConvertCommand())
	return cmd
}

func newFileSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "schema <path>",
		Short:   "Show column names and inferred types of a file",
		Example: `  leapxfer file schema customers.csv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			return emit(cc.Renderer, transfer.FileSchema(cc.File(args[0])), func(cols []core.Column) error {
				return cc.Renderer.Table(columnsTable(cols))
			})
		},
	}
}

func newFilePreviewCommand() *cobra.Command {
	var columns []string

	cmd := &cobra.Command{
		Use:     "preview <path>",
		Short:   "Show the first rows of a file",
		Example: `  leapxfer file preview events.jsonl --limit 5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			res := mapResult(transfer.PreviewFile(cc.File(args[0]), columns, cc.Cfg.Limit), frameTable)
			return emit(cc.Renderer, res, func(t *output.Table) error {
				return cc.Renderer.Table(*t)
			})
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to select (default: all)")
	return cmd
}

func newFileConvertCommand() *cobra.Command {
	var columns []string

	cmd := &cobra.Command{
		Use:   "convert <source> <destination>",
		Short: "Convert a file to another format",
		Long: `Read a file and write it in the format of the destination's
extension, optionally keeping only some columns.`,
		Example: `  leapxfer file convert customers.csv customers.parquet
  leapxfer file convert report.xlsx report.json --columns id,total`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			res := transfer.ConvertFile(cc.File(args[0]), columns, args[1])
			return emit(cc.Renderer, res, func(w fileio.WriteResult) error {
				cc.Renderer.Success(fmt.Sprintf("Wrote %d rows to %s", w.Count, w.Path))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to keep (default: all)")
	return cmd
}
