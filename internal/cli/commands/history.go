package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapxfer/internal/cli/output"
	"github.com/leapstack-labs/leapxfer/internal/state"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded batch runs",
		Long: `Show the job results recorded by "leapxfer run", newest first.
With a run ID, show every job of that run.

Recording is enabled by setting "history" in leapxfer.yaml.`,
		Example: `  leapxfer history --limit 20
  leapxfer history 3f2c9a1e-... -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			if cc.Cfg.History == "" {
				return errors.New("history is not enabled: set history in leapxfer.yaml")
			}

			store := state.NewStore(cc.Logger)
			if err := store.Open(cmd.Context(), cc.Cfg.History); err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var (
				recs []state.Record
				err  error
			)
			if len(args) == 1 {
				recs, err = store.Run(cmd.Context(), args[0])
			} else {
				recs, err = store.Recent(cmd.Context(), cc.Cfg.Limit)
			}
			if err != nil {
				return err
			}
			return renderHistory(cc.Renderer, recs)
		},
	}
	return cmd
}

func renderHistory(r *output.Renderer, recs []state.Record) error {
	if r.EffectiveMode() == output.ModeJSON {
		if recs == nil {
			recs = []state.Record{}
		}
		return r.JSON(recs)
	}

	t := output.Table{Columns: []string{"run_id", "started_at", "job", "direction", "status", "rows", "target", "message"}}
	for _, rec := range recs {
		status := "ok"
		if !rec.Success {
			status = "failed"
		}
		t.Rows = append(t.Rows, []any{
			rec.RunID, rec.StartedAt.Local().Format("2006-01-02 15:04:05"), rec.Job, string(rec.Direction),
			status, int64(rec.Rows), rec.Target, rec.Message,
		})
	}
	if err := r.Table(t); err != nil {
		return fmt.Errorf("failed to render history: %w", err)
	}
	return nil
}
