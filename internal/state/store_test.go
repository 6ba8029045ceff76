package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/leapxfer/internal/testutil"
	"github.com/leapstack-labs/leapxfer/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(nil)
	require.NoError(t, store.Open(context.Background(), ":memory:"))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_OpenClose(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store := NewStore(nil)
	require.NoError(t, store.Open(ctx, path))
	assert.Equal(t, path, store.Path())

	version, err := store.MigrationVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "closing twice is a no-op")

	// reopening an existing file does not re-apply migrations
	require.NoError(t, store.Open(ctx, path))
	require.NoError(t, store.Close())
}

func TestStore_LogsMigrations(t *testing.T) {
	logger, buf := testutil.NewCaptureLogger()
	store := NewStore(logger)
	require.NoError(t, store.Open(context.Background(), ":memory:"))
	t.Cleanup(func() { _ = store.Close() })

	assert.Contains(t, buf.String(), `"msg":"applied migration"`)
	assert.Contains(t, buf.String(), `"version":1`)
}

func TestStore_NotOpen(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	assert.ErrorIs(t, store.Migrate(ctx), errNotOpen)
	assert.ErrorIs(t, store.RecordRun(ctx, time.Now(), nil), errNotOpen)
	_, err := store.Recent(ctx, 0)
	assert.ErrorIs(t, err, errNotOpen)
}

func TestStore_RecordAndRead(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, store.RecordRun(ctx, first, []transfer.JobResult{
		{RunID: "run-1", Job: "load", Direction: transfer.FileToDB, Success: true, Rows: 3, Target: "customers", Duration: 1500 * time.Millisecond},
		{RunID: "run-1", Job: "dump", Direction: transfer.DBToFile, Message: "Table export failed: boom", Target: "out.csv"},
		{}, // skipped slot
	}))
	require.NoError(t, store.RecordRun(ctx, first.Add(time.Hour), []transfer.JobResult{
		{RunID: "run-2", Job: "load", Direction: transfer.FileToDB, Success: true, Rows: 4, Target: "customers"},
	}))

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "all", limit: 0, want: []string{"run-2/load", "run-1/dump", "run-1/load"}},
		{name: "limited", limit: 2, want: []string{"run-2/load", "run-1/dump"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := store.Recent(ctx, tt.limit)
			require.NoError(t, err)
			var got []string
			for _, r := range recs {
				got = append(got, r.RunID+"/"+r.Job)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	recs, err := store.Run(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	dump, load := recs[0], recs[1]
	assert.Equal(t, "dump", dump.Job)
	assert.False(t, dump.Success)
	assert.Equal(t, "Table export failed: boom", dump.Message)
	assert.Equal(t, transfer.DBToFile, dump.Direction)

	assert.True(t, load.Success)
	assert.Equal(t, 3, load.Rows)
	assert.Equal(t, "customers", load.Target)
	assert.Equal(t, 1500*time.Millisecond, load.Duration)
	assert.True(t, first.Equal(load.StartedAt), "started_at round-trips: %v", load.StartedAt)
}

func TestStore_RunNotFound(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.Run(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found: missing")
}

func TestStore_DuplicateJobInRunRollsBack(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	err := store.RecordRun(ctx, time.Now(), []transfer.JobResult{
		{RunID: "r", Job: "a", Direction: transfer.FileToFile},
		{RunID: "r", Job: "a", Direction: transfer.FileToFile},
	})
	require.Error(t, err)

	recs, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, recs, "a failed run leaves no partial records")
}
