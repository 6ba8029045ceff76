package state

import (
	"context"
	"fmt"
	"time"

	"github.com/leapstack-labs/leapxfer/internal/transfer"
)

// Record is one stored job result.
type Record struct {
	transfer.JobResult
	StartedAt time.Time `json:"started_at"`
}

// RecordRun stores the results of one batch run in a single transaction.
// startedAt is when the run began.
func (s *Store) RecordRun(ctx context.Context, startedAt time.Time, results []transfer.JobResult) error {
	if s.db == nil {
		return errNotOpen
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO job_runs (run_id, job, direction, success, row_count, target, message, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range results {
		if r.Job == "" {
			// the runner leaves a zero slot for jobs skipped after cancellation
			continue
		}
		_, err := stmt.ExecContext(ctx,
			r.RunID, r.Job, string(r.Direction), r.Success, r.Rows, r.Target, r.Message,
			r.Duration.Milliseconds(), startedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to record job %s: %w", r.Job, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	s.logger.Debug("run recorded", "jobs", len(results))
	return nil
}

// Recent returns up to limit records, newest run first. A non-positive
// limit returns every record.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	q := `SELECT run_id, job, direction, success, row_count, target, message, duration_ms, started_at
		FROM job_runs ORDER BY started_at DESC, run_id, job`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	return s.query(ctx, q, args...)
}

// Run returns the records of one run in job order.
func (s *Store) Run(ctx context.Context, runID string) ([]Record, error) {
	recs, err := s.query(ctx, `SELECT run_id, job, direction, success, row_count, target, message, duration_ms, started_at
		FROM job_runs WHERE run_id = ? ORDER BY job`, runID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	return recs, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	if s.db == nil {
		return nil, errNotOpen
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []Record
	for rows.Next() {
		var (
			r         Record
			direction string
			ms        int64
		)
		if err := rows.Scan(&r.RunID, &r.Job, &direction, &r.Success, &r.Rows, &r.Target, &r.Message, &ms, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		r.Direction = transfer.Direction(direction)
		r.Duration = time.Duration(ms) * time.Millisecond
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
