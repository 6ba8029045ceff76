package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapxfer/pkg/adapter"
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/fileio"
	"golang.org/x/sync/errgroup"
)

// Direction names which adapters a job pairs.
type Direction string

// Job directions.
const (
	DBToFile   Direction = "db-to-file"
	FileToDB   Direction = "file-to-db"
	FileToFile Direction = "file-to-file"
)

// Directions returns every valid direction.
func Directions() []Direction {
	return []Direction{DBToFile, FileToDB, FileToFile}
}

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	switch d {
	case DBToFile, FileToDB, FileToFile:
		return true
	}
	return false
}

// Endpoint is one side of a job: a database table or a file.
type Endpoint struct {
	Conn      core.ConnConfig
	Table     string
	Path      string
	Delimiter rune
}

// Job is one unit of a batch run.
type Job struct {
	Name      string
	Direction Direction
	Source    Endpoint
	Target    Endpoint
	Columns   []string
	Joins     core.JoinSpec
}

// JobResult is the outcome of one job.
type JobResult struct {
	RunID     string        `json:"run_id"`
	Job       string        `json:"job"`
	Direction Direction     `json:"direction"`
	Success   bool          `json:"success"`
	Rows      int           `json:"rows"`
	Target    string        `json:"target"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Runner executes jobs concurrently. Each job gets its own adapters.
type Runner struct {
	logger      *slog.Logger
	concurrency int
	dbOptions   []adapter.Option
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithConcurrency caps the number of jobs running at once. Values below 1
// mean one job at a time.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		r.concurrency = max(1, n)
	}
}

// WithAdapterOptions adds options applied to every database adapter.
func WithAdapterOptions(opts ...adapter.Option) RunnerOption {
	return func(r *Runner) {
		r.dbOptions = append(r.dbOptions, opts...)
	}
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(logger *slog.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Runner{logger: logger, concurrency: 1}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every job and returns one result per job, in job order.
// A failed job does not stop the others. The error is non-nil only when
// ctx is cancelled.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]JobResult, error) {
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)
	logger.Info("batch started", "jobs", len(jobs), "concurrency", r.concurrency)

	results := make([]JobResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res := r.runJob(gctx, job, logger.With("job", job.Name))
			res.RunID = runID
			res.Duration = time.Since(start)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch %s interrupted: %w", runID, err)
	}

	failed := 0
	for _, res := range results {
		if !res.Success {
			failed++
		}
	}
	logger.Info("batch finished", "jobs", len(jobs), "failed", failed)
	return results, nil
}

func (r *Runner) runJob(ctx context.Context, job Job, logger *slog.Logger) JobResult {
	res := JobResult{Job: job.Name, Direction: job.Direction}
	var rows core.Result[int]

	switch job.Direction {
	case DBToFile:
		res.Target = job.Target.Path
		rows = r.dbToFile(ctx, job, logger)
	case FileToDB:
		res.Target = job.Target.Table
		rows = r.fileToDB(ctx, job, logger)
	case FileToFile:
		res.Target = job.Target.Path
		src := fileio.New(job.Source.Path, fileio.WithDelimiter(job.Source.Delimiter), fileio.WithLogger(logger))
		rows = written(ConvertFile(src, job.Columns, job.Target.Path))
	default:
		rows = core.Fail[int](core.Errorf("Run", core.KindInvalid, "unknown direction %q", job.Direction))
	}

	res.Success, res.Rows, res.Message = rows.Success, rows.Payload, rows.Message
	if res.Success {
		logger.Info("job done", "rows", res.Rows, "target", res.Target)
	} else {
		logger.Warn("job failed", "error", res.Message)
	}
	return res
}

func (r *Runner) openDB(ctx context.Context, cfg core.ConnConfig, logger *slog.Logger) (*adapter.Adapter, core.Result[bool]) {
	opts := append([]adapter.Option{adapter.WithLogger(logger)}, r.dbOptions...)
	db, err := adapter.New(cfg, opts...)
	if err != nil {
		return nil, core.Fail[bool](core.Wrap("Connection", core.KindConnection, err))
	}
	return db, Connect(ctx, db)
}

func (r *Runner) dbToFile(ctx context.Context, job Job, logger *slog.Logger) core.Result[int] {
	db, conn := r.openDB(ctx, job.Source.Conn, logger)
	if !conn.Success {
		return core.Result[int]{Message: conn.Message}
	}
	defer func() { _ = db.Close() }()

	sink := fileio.New(job.Target.Path, fileio.WithDelimiter(job.Target.Delimiter), fileio.WithLogger(logger))
	req := TableExport{Table: job.Source.Table, Columns: job.Columns, Joins: job.Joins}
	return written(ExportToFile(ctx, db, req, sink, job.Target.Path))
}

func (r *Runner) fileToDB(ctx context.Context, job Job, logger *slog.Logger) core.Result[int] {
	db, conn := r.openDB(ctx, job.Target.Conn, logger)
	if !conn.Success {
		return core.Result[int]{Message: conn.Message}
	}
	defer func() { _ = db.Close() }()

	src := fileio.New(job.Source.Path, fileio.WithDelimiter(job.Source.Delimiter), fileio.WithLogger(logger))
	return ImportFile(ctx, src, job.Columns, db, job.Target.Table)
}

func written(r core.Result[fileio.WriteResult]) core.Result[int] {
	return core.Result[int]{Success: r.Success, Payload: r.Payload.Count, Message: r.Message}
}
