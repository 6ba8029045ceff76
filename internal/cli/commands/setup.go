// Package commands implements the leapxfer subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapxfer/internal/cli/config"
	"github.com/leapstack-labs/leapxfer/internal/cli/output"
	"github.com/leapstack-labs/leapxfer/internal/transfer"
	"github.com/leapstack-labs/leapxfer/pkg/adapter"
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/fileio"
	"github.com/leapstack-labs/leapxfer/pkg/frame"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the context from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	mode, err := output.ParseMode(cfg.Output)
	if err != nil {
		mode = output.ModeAuto
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// OpenDatabase builds the configured database adapter and connects it.
// The caller closes the adapter.
func (cc *CommandContext) OpenDatabase(ctx context.Context) (*adapter.Adapter, error) {
	db, err := adapter.New(cc.Cfg.Database.ToConnConfig(), adapter.WithLogger(cc.Logger))
	if err != nil {
		return nil, err
	}
	if err := emitFailure(cc.Renderer, transfer.Connect(ctx, db)); err != nil {
		return nil, err
	}
	return db, nil
}

// File builds a file adapter using the configured delimiter.
func (cc *CommandContext) File(path string) *fileio.Adapter {
	return fileio.New(path, fileio.WithDelimiter(cc.Cfg.DelimiterRune()), fileio.WithLogger(cc.Logger))
}

// emit writes an envelope. JSON mode prints the envelope itself, other
// modes hand the payload to text. A failed envelope becomes the command
// error.
func emit[T any](r *output.Renderer, res core.Result[T], text func(T) error) error {
	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(res); err != nil {
			return err
		}
		return res.Err()
	}
	if err := res.Err(); err != nil {
		return err
	}
	return text(res.Payload)
}

// emitFailure writes res only when it failed and returns its error.
func emitFailure[T any](r *output.Renderer, res core.Result[T]) error {
	if res.Success {
		return nil
	}
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(res)
	}
	return res.Err()
}

// mapResult converts a successful payload and carries failures through.
func mapResult[T, U any](res core.Result[T], fn func(T) U) core.Result[U] {
	if !res.Success {
		return core.Result[U]{Message: res.Message}
	}
	return core.Ok(fn(res.Payload))
}

func frameTable(f *frame.Frame) *output.Table {
	t := output.FrameTable(f)
	return &t
}
