package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/leapstack-labs/leapxfer/internal/cli/config"
	"github.com/leapstack-labs/leapxfer/internal/cli/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/leapxfer/pkg/adapters/sqlite"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Payload T      `json:"payload"`
	Message string `json:"message"`
}

func setupProject(t *testing.T) (*testutil.Project, *config.Config) {
	t.Helper()
	p := testutil.SetupTestProject(t)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	cfg, err := config.LoadConfig(p.ConfigPath, nil)
	require.NoError(t, err)
	return p, cfg
}

func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func decode[T any](t *testing.T, s string) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal([]byte(s), &env), "output: %s", s)
	return env
}

// seed imports the project CSV into the customers table.
func seed(t *testing.T, p *testutil.Project) {
	t.Helper()
	out, _, err := execute(NewImportCommand(), p.CSVPath, "customers")
	require.NoError(t, err)
	env := decode[int](t, out)
	require.True(t, env.Success, env.Message)
	require.Equal(t, 3, env.Payload)
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewTablesCommand(), "tables", nil},
		{NewDescribeCommand(), "describe <table>", nil},
		{NewQueryCommand(), "query [SQL]", []string{"input"}},
		{NewPreviewCommand(), "preview <table>", []string{"columns"}},
		{NewExportCommand(), "export <table> <output-file>", []string{"columns", "join", "on"}},
		{NewImportCommand(), "import <file> <table>", []string{"columns"}},
		{NewFileCommand(), "file", nil},
		{NewRunCommand(), "run [job...]", nil},
		{NewHistoryCommand(), "history [run-id]", nil},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}

	var subs []string
	for _, c := range NewFileCommand().Commands() {
		subs = append(subs, c.Name())
	}
	assert.ElementsMatch(t, []string{"schema", "preview", "convert"}, subs)
}

func TestDatabaseCommands(t *testing.T) {
	p, _ := setupProject(t)
	seed(t, p)

	t.Run("tables", func(t *testing.T) {
		out, _, err := execute(NewTablesCommand())
		require.NoError(t, err)
		env := decode[[]string](t, out)
		assert.True(t, env.Success)
		assert.Equal(t, []string{"customers"}, env.Payload)
	})

	t.Run("describe", func(t *testing.T) {
		out, _, err := execute(NewDescribeCommand(), "customers")
		require.NoError(t, err)
		env := decode[[]map[string]string](t, out)
		require.Len(t, env.Payload, 3)
		assert.Equal(t, map[string]string{"name": "id", "type": "INTEGER"}, env.Payload[0])
		assert.Equal(t, map[string]string{"name": "name", "type": "TEXT"}, env.Payload[1])
		assert.Equal(t, map[string]string{"name": "score", "type": "REAL"}, env.Payload[2])
	})

	t.Run("describe missing table", func(t *testing.T) {
		out, _, err := execute(NewDescribeCommand(), "missing")
		require.Error(t, err)
		env := decode[any](t, out)
		assert.False(t, env.Success)
		assert.Contains(t, env.Message, "DescribeTable failed")
		assert.Contains(t, env.Message, "not found")
		assert.Equal(t, env.Message, err.Error())
	})

	t.Run("preview honours limit and columns", func(t *testing.T) {
		out, _, err := execute(NewPreviewCommand(), "customers", "--columns", "name,id")
		require.NoError(t, err)
		env := decode[[]map[string]any](t, out)
		require.Len(t, env.Payload, 2)
		assert.Equal(t, map[string]any{"name": "Alice", "id": float64(1)}, env.Payload[0])
		assert.Equal(t, map[string]any{"name": "Bob", "id": float64(2)}, env.Payload[1])
	})

	t.Run("query", func(t *testing.T) {
		out, _, err := execute(NewQueryCommand(), "SELECT count(*) AS n FROM customers")
		require.NoError(t, err)
		env := decode[[]map[string]any](t, out)
		assert.Equal(t, []map[string]any{{"n": float64(3)}}, env.Payload)
	})

	t.Run("query from file", func(t *testing.T) {
		sqlPath := filepath.Join(p.Dir, "q.sql")
		require.NoError(t, os.WriteFile(sqlPath, []byte("SELECT name FROM customers WHERE id = 2\n"), 0600))
		out, _, err := execute(NewQueryCommand(), "--input", sqlPath)
		require.NoError(t, err)
		env := decode[[]map[string]any](t, out)
		assert.Equal(t, []map[string]any{{"name": "Bob"}}, env.Payload)
	})

	t.Run("query without SQL", func(t *testing.T) {
		_, _, err := execute(NewQueryCommand())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no SQL given")
	})

	t.Run("export", func(t *testing.T) {
		dest := filepath.Join(p.Dir, "exports", "customers.json")
		out, _, err := execute(NewExportCommand(), "customers", dest, "--columns", "id,name")
		require.NoError(t, err)
		env := decode[map[string]any](t, out)
		assert.True(t, env.Success)
		assert.Equal(t, float64(3), env.Payload["count"])
		assert.Equal(t, dest, env.Payload["path"])

		content, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"name":"Carol"`)
		assert.NotContains(t, string(content), "score")
	})

	t.Run("export with mismatched joins warns and exports the base table", func(t *testing.T) {
		dest := filepath.Join(p.Dir, "exports", "plain.csv")
		out, errOut, err := execute(NewExportCommand(), "customers", dest, "--join", "orders")
		require.NoError(t, err)
		assert.Contains(t, errOut, "joins ignored: 1 tables but 0 conditions")
		assert.True(t, decode[any](t, out).Success)
	})

	t.Run("export with self join", func(t *testing.T) {
		dest := filepath.Join(p.Dir, "exports", "joined.csv")
		out, _, err := execute(NewExportCommand(), "customers", dest,
			"--join", "customers AS c2", "--on", "main.customers.id = c2.id")
		require.NoError(t, err)
		assert.True(t, decode[any](t, out).Success)

		content, err := os.ReadFile(dest)
		require.NoError(t, err)
		header := strings.SplitN(string(content), "\n", 2)[0]
		assert.Equal(t, "id,name,score,id.1,name.1,score.1", header)
	})
}

func TestDatabaseCommands_TableOutput(t *testing.T) {
	p, cfg := setupProject(t)
	seed(t, p)
	cfg.Output = "csv"

	out, _, err := execute(NewPreviewCommand(), "customers")
	require.NoError(t, err)
	assert.Equal(t, "id,name,score\n1,Alice,9.5\n2,Bob,7.25\n", out)

	cfg.Output = "markdown"
	out, _, err = execute(NewTablesCommand())
	require.NoError(t, err)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "| customers |")
}

func TestImportCommand_StatusLine(t *testing.T) {
	p, cfg := setupProject(t)
	cfg.Output = "table"

	out, errOut, err := execute(NewImportCommand(), p.CSVPath, "people", "--columns", "id,name")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Imported 3 rows into people")
	testutil.AssertNoANSI(t, errOut)
}

func TestFileCommands(t *testing.T) {
	p, _ := setupProject(t)

	t.Run("schema", func(t *testing.T) {
		out, _, err := execute(NewFileCommand(), "schema", p.CSVPath)
		require.NoError(t, err)
		env := decode[[]map[string]string](t, out)
		assert.Equal(t, []map[string]string{
			{"name": "id", "type": "int64"},
			{"name": "name", "type": "string"},
			{"name": "score", "type": "float64"},
		}, env.Payload)
	})

	t.Run("preview", func(t *testing.T) {
		out, _, err := execute(NewFileCommand(), "preview", p.CSVPath, "--columns", "score")
		require.NoError(t, err)
		env := decode[[]map[string]any](t, out)
		assert.Equal(t, []map[string]any{{"score": 9.5}, {"score": 7.25}}, env.Payload)
	})

	t.Run("convert", func(t *testing.T) {
		dest := filepath.Join(p.Dir, "customers.yaml")
		out, _, err := execute(NewFileCommand(), "convert", p.CSVPath, dest)
		require.NoError(t, err)
		env := decode[map[string]any](t, out)
		assert.Equal(t, float64(3), env.Payload["count"])

		out, _, err = execute(NewFileCommand(), "schema", dest)
		require.NoError(t, err)
		assert.Len(t, decode[[]map[string]string](t, out).Payload, 3)
	})

	t.Run("unsupported format", func(t *testing.T) {
		out, _, err := execute(NewFileCommand(), "schema", filepath.Join(p.Dir, "report.pdf"))
		require.Error(t, err)
		env := decode[any](t, out)
		assert.False(t, env.Success)
		assert.Contains(t, env.Message, "unsupported file format .pdf")
	})
}

func TestRunCommand(t *testing.T) {
	p, _ := setupProject(t)

	out, _, err := execute(NewRunCommand())
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results), out)
	require.Len(t, results, 2)
	assert.Equal(t, "load", results[0]["job"])
	assert.Equal(t, true, results[0]["success"])
	assert.Equal(t, float64(3), results[0]["rows"])
	assert.Equal(t, "dump", results[1]["job"])
	assert.Equal(t, true, results[1]["success"])
	assert.Equal(t, results[0]["run_id"], results[1]["run_id"])

	assert.FileExists(t, filepath.Join(p.Dir, "out", "customers.parquet"))
}

func TestRunCommand_Selection(t *testing.T) {
	_, _ = setupProject(t)

	_, _, err := execute(NewRunCommand(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `job "nope" not found`)

	// dump alone fails: the table has not been loaded
	out, _, err := execute(NewRunCommand(), "dump")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 jobs failed")
	assert.Contains(t, out, `"success": false`)
}

func TestRunCommand_TableOutput(t *testing.T) {
	_, cfg := setupProject(t)
	cfg.Output = "table"

	out, errOut, err := execute(NewRunCommand(), "load")
	require.NoError(t, err)
	assert.Contains(t, out, "load")
	assert.Contains(t, out, "file-to-db")
	assert.Contains(t, out, "(1 rows)")
	assert.Contains(t, errOut, "✓ load (3 rows)")
}

func TestRunCommand_NoJobs(t *testing.T) {
	_, cfg := setupProject(t)
	cfg.Jobs = nil

	_, _, err := execute(NewRunCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no jobs configured")
}

func TestHistoryCommand(t *testing.T) {
	p, cfg := setupProject(t)

	_, _, err := execute(NewRunCommand())
	require.NoError(t, err)
	assert.FileExists(t, p.HistoryPath)

	_, _, err = execute(NewRunCommand(), "load")
	require.NoError(t, err)

	// limit 2 from the project config
	out, _, err := execute(NewHistoryCommand())
	require.NoError(t, err)
	var recent []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &recent), out)
	require.Len(t, recent, 2)
	assert.Equal(t, "load", recent[0]["job"], "newest run first")
	assert.NotEmpty(t, recent[0]["started_at"])

	cfg.Limit = 0
	out, _, err = execute(NewHistoryCommand())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &recent), out)
	require.Len(t, recent, 3)

	runID, _ := recent[2]["run_id"].(string)
	out, _, err = execute(NewHistoryCommand(), runID)
	require.NoError(t, err)
	var run []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &run), out)
	require.Len(t, run, 2)
	assert.Equal(t, "dump", run[0]["job"])
	assert.Equal(t, "load", run[1]["job"])

	_, _, err = execute(NewHistoryCommand(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestHistoryCommand_TableOutput(t *testing.T) {
	_, cfg := setupProject(t)
	cfg.Output = "table"

	_, _, err := execute(NewRunCommand(), "load")
	require.NoError(t, err)

	out, _, err := execute(NewHistoryCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "file-to-db")
	assert.Contains(t, out, "customers")
	assert.Contains(t, out, "(1 rows)")
}

func TestHistoryCommand_Disabled(t *testing.T) {
	_, cfg := setupProject(t)
	cfg.History = ""

	_, _, err := execute(NewHistoryCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is not enabled")
}

func TestReadStatement(t *testing.T) {
	stmt, err := readStatement(strings.NewReader("ignored"), []string{"SELECT", "1"}, "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", stmt)

	stmt, err = readStatement(strings.NewReader("  SELECT 2;\n"), nil, "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2;", stmt)

	_, err = readStatement(strings.NewReader(""), nil, filepath.Join(t.TempDir(), "missing.sql"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}
