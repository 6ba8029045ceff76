package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/leapxfer/internal/cli/output"
	"github.com/leapstack-labs/leapxfer/internal/state"
	"github.com/leapstack-labs/leapxfer/internal/transfer"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [job...]",
		Short: "Run the batch jobs defined in leapxfer.yaml",
		Long: `Run the jobs listed under "jobs" in the configuration, or only the
named ones. Jobs run concurrently up to --concurrency; a failing job does
not stop the others. The command fails when any job failed.

When "history" is set in the configuration, every job result is recorded
there; see "leapxfer history".`,
		Example: `  leapxfer run
  leapxfer run nightly-users --concurrency 4 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			jobs, err := cc.Cfg.BatchJobs(args...)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				return errors.New("no jobs configured: add a jobs section to leapxfer.yaml")
			}

			runner := transfer.NewRunner(cc.Logger, transfer.WithConcurrency(cc.Cfg.Concurrency))
			startedAt := time.Now()
			results, runErr := runner.Run(cmd.Context(), jobs)
			if cc.Cfg.History != "" {
				if err := recordRun(cmd.Context(), cc.Cfg.History, cc.Logger, startedAt, results); err != nil {
					cc.Renderer.Warning(fmt.Sprintf("run not recorded: %v", err))
				}
			}
			if err := renderJobResults(cc.Renderer, results); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}

			failed := 0
			for _, res := range results {
				if !res.Success {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d jobs failed", failed, len(results))
			}
			return nil
		},
	}
	return cmd
}

func renderJobResults(r *output.Renderer, results []transfer.JobResult) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(results)
	}

	t := output.Table{Columns: []string{"job", "direction", "status", "rows", "target", "duration", "message"}}
	for _, res := range results {
		status := "ok"
		if !res.Success {
			status = "failed"
		}
		t.Rows = append(t.Rows, []any{
			res.Job, string(res.Direction), status, int64(res.Rows), res.Target, res.Duration.String(), res.Message,
		})
	}
	if err := r.Table(t); err != nil {
		return err
	}

	for _, res := range results {
		if res.Success {
			r.StatusLine(res.Job, "success", fmt.Sprintf("(%d rows)", res.Rows))
		} else {
			r.StatusLine(res.Job, "error", res.Message)
		}
	}
	return nil
}

func recordRun(ctx context.Context, path string, logger *slog.Logger, startedAt time.Time, results []transfer.JobResult) error {
	store := state.NewStore(logger)
	if err := store.Open(ctx, path); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return store.RecordRun(ctx, startedAt, results)
}
