// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapxfer/internal/cli/output"
)

// Project is a temporary working directory with a config file, a SQLite
// database path and a seed CSV.
type Project struct {
	Dir         string
	ConfigPath  string
	DBPath      string
	CSVPath     string
	HistoryPath string
}

// SetupTestProject creates a project whose config points at an empty
// SQLite database and defines one file-to-db and one db-to-file job.
func SetupTestProject(t *testing.T) *Project {
	t.Helper()

	dir := t.TempDir()
	p := &Project{
		Dir:         dir,
		ConfigPath:  filepath.Join(dir, "leapxfer.yaml"),
		DBPath:      filepath.Join(dir, "warehouse.db"),
		CSVPath:     filepath.Join(dir, "customers.csv"),
		HistoryPath: filepath.Join(dir, ".leapxfer", "history.db"),
	}

	customers := "id,name,score\n1,Alice,9.5\n2,Bob,7.25\n3,Carol,8.0\n"
	if err := os.WriteFile(p.CSVPath, []byte(customers), 0644); err != nil {
		t.Fatalf("failed to create customers.csv: %v", err)
	}

	cfg := fmt.Sprintf(`database:
  type: sqlite
  path: %s
output: json
limit: 2
history: .leapxfer/history.db
jobs:
  - name: load
    direction: file-to-db
    source:
      path: customers.csv
    target:
      table: customers
  - name: dump
    direction: db-to-file
    source:
      table: customers
    target:
      path: out/customers.parquet
`, p.DBPath)
	if err := os.WriteFile(p.ConfigPath, []byte(cfg), 0644); err != nil {
		t.Fatalf("failed to create leapxfer.yaml: %v", err)
	}
	return p
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererAuto creates a test renderer in auto mode without a TTY,
// which resolves to JSON.
func NewTestRendererAuto() *TestRenderer {
	return NewTestRenderer(output.ModeAuto, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown table validation: every
// non-empty line is a pipe row.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()
	for i, line := range strings.Split(strings.TrimSpace(md), "\n") {
		if !strings.HasPrefix(line, "|") || !strings.HasSuffix(line, "|") {
			t.Errorf("line %d is not a markdown table row: %q", i+1, line)
		}
	}
}
