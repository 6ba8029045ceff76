package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/stretchr/testify/require"
)

// WriteFile writes content to name inside a fresh temp dir and returns the path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// SQLMock returns a sqlmock handle that matches statements exactly, with
// the liveness query of Connect already expected.
func SQLMock(t testing.TB) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	return db, mock
}

// StaticOpener returns an opener-shaped func that always yields db.
func StaticOpener(db *sql.DB) func(context.Context, core.ConnConfig, *slog.Logger) (*sql.DB, error) {
	return func(context.Context, core.ConnConfig, *slog.Logger) (*sql.DB, error) {
		return db, nil
	}
}
