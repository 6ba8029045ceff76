package cli

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/leapstack-labs/leapxfer/internal/cli/config"
	"github.com/leapstack-labs/leapxfer/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"version", "tables", "describe", "query", "preview", "export", "import", "file", "run", "history", "completion"} {
		assert.Contains(t, names, want)
	}
	for _, flag := range []string{"config", "output", "log-level", "type", "host", "port", "database", "user", "token", "path", "schema", "delimiter", "limit", "concurrency"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCommand_Version(t *testing.T) {
	t.Chdir(t.TempDir())
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "leapxfer v"+Version)
}

func TestRootCommand_UnknownAdapter(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := run(t, "--type", "oracle", "tables")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown adapter type "oracle"`)
	assert.Contains(t, err.Error(), "clickhouse")
}

func TestRootCommand_EndToEnd(t *testing.T) {
	p := testutil.SetupTestProject(t)

	_, _, err := run(t, "--config", p.ConfigPath, "import", p.CSVPath, "customers")
	require.NoError(t, err)

	out, _, err := run(t, "--config", p.ConfigPath, "--output", "csv", "--limit", "1", "preview", "customers")
	require.NoError(t, err)
	assert.Equal(t, "id,name,score\n1,Alice,9.5\n", out)

	out, _, err = run(t, "--config", p.ConfigPath, "tables")
	require.NoError(t, err)
	var env struct {
		Success bool     `json:"success"`
		Payload []string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, []string{"customers"}, env.Payload)
}

func TestRootCommand_FlagsOverrideConfig(t *testing.T) {
	p := testutil.SetupTestProject(t)
	other := t.TempDir() + "/other.db"

	// --path points the database section at a different file
	_, _, err := run(t, "--config", p.ConfigPath, "--path", other, "import", p.CSVPath, "people")
	require.NoError(t, err)

	out, _, err := run(t, "--config", p.ConfigPath, "tables")
	require.NoError(t, err)
	assert.NotContains(t, out, "people")

	out, _, err = run(t, "--config", p.ConfigPath, "--path", other, "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "people")
}

func TestRootCommand_DebugLogsGoToStderr(t *testing.T) {
	p := testutil.SetupTestProject(t)

	out, errOut, err := run(t, "--config", p.ConfigPath, "--log-level", "debug", "--log-format", "json", "file", "schema", p.CSVPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "stdout holds only the envelope")
	assert.Contains(t, errOut, `"level":"DEBUG"`)
}

func TestRootCommand_Completion(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "leapxfer")

	_, _, err = run(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "info", "text")
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "rows", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "rows=3")

	buf.Reset()
	logger, err = newLogger(&buf, "", "JSON")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = newLogger(&buf, "loud", "text")
	assert.Error(t, err)
}
