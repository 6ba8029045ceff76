package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/leapxfer/internal/cli/output"
	"github.com/leapstack-labs/leapxfer/internal/transfer"
	"github.com/leapstack-labs/leapxfer/pkg/adapter"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run a SQL statement against the configured database",
		Long: `Run a SQL statement verbatim and print its result set.

The statement is taken from the arguments, from --input, or from piped
standard input, in that order. It is sent to the database unchanged, so
only run statements you trust.`,
		Example: `  leapxfer query "SELECT count() FROM events"
  leapxfer query --input report.sql -o csv
  echo "SELECT 1" | leapxfer query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	stmt, err := readStatement(cmd.InOrStdin(), args, opts.Input)
	if err != nil {
		return err
	}

	cc := NewCommandContext(cmd)
	db, err := cc.OpenDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	res := mapResult(transfer.Query(cmd.Context(), db, stmt), func(q *adapter.QueryResult) *output.Table {
		return &output.Table{Columns: q.Columns, Rows: q.Rows}
	})
	return emit(cc.Renderer, res, func(t *output.Table) error {
		return cc.Renderer.Table(*t)
	})
}

// readStatement resolves the SQL source: arguments, then file, then
// piped stdin.
func readStatement(stdin io.Reader, args []string, input string) (string, error) {
	var stmt string
	switch {
	case len(args) > 0:
		stmt = strings.Join(args, " ")
	case input != "":
		content, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		stmt = string(content)
	case !isTerminal(stdin):
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		stmt = string(content)
	}
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return "", fmt.Errorf("no SQL given: pass a statement, --input or pipe it on stdin")
	}
	return stmt, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
