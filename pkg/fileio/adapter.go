// Package fileio provides the flat-file side of the transfer engine.
//
// An Adapter reads one file into an in-memory frame, chosen by the file's
// extension, and writes frames back out in any supported format. Reads are
// lazy: Schema, Preview and Export load the file on first use and reuse
// the cached frame afterwards.
package fileio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/frame"
)

// DefaultDelimiter separates fields of .csv and .txt input.
const DefaultDelimiter = ','

// State tracks whether the file has been loaded.
type State int

// Load states.
const (
	StateUnloaded State = iota
	StateLoaded
)

func (s State) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "unloaded"
}

// WriteResult reports a completed write.
type WriteResult struct {
	Count int    `json:"count"`
	Path  string `json:"path"`
}

// Adapter reads and writes one flat file. It is not safe for concurrent use.
type Adapter struct {
	path      string
	delimiter rune
	logger    *slog.Logger

	state State
	data  *frame.Frame
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithDelimiter sets the field separator for .csv and .txt input and .txt output.
func WithDelimiter(d rune) Option {
	return func(a *Adapter) {
		if d != 0 {
			a.delimiter = d
		}
	}
}

// WithLogger sets the logger. Nil keeps the discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an adapter for path. Nothing is read until needed.
func New(path string, opts ...Option) *Adapter {
	a := &Adapter{
		path:      path,
		delimiter: DefaultDelimiter,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Path returns the source file path.
func (a *Adapter) Path() string {
	return a.path
}

// State returns the load state.
func (a *Adapter) State() State {
	return a.state
}

// Reset drops the cached frame; the next access reads the file again.
func (a *Adapter) Reset() {
	a.data = nil
	a.state = StateUnloaded
}

// Read loads the file and returns its row count. The format is picked by
// extension before the file is touched. On failure the adapter stays (or
// becomes) unloaded.
func (a *Adapter) Read() (int, error) {
	const op = "Read"
	a.Reset()

	format, err := lookup(a.path)
	if err != nil {
		return 0, core.Wrap(op, core.KindUnsupportedFormat, err)
	}

	f, err := os.Open(a.path)
	if err != nil {
		return 0, core.Wrap(op, core.KindIO, err)
	}
	defer func() { _ = f.Close() }()

	data, err := format.decode(f, format.readOptions(a.delimiter))
	if err != nil {
		return 0, core.Wrap(op, core.KindIO, fmt.Errorf("failed to parse %s as %s: %w", a.path, format.name, err))
	}

	a.data = data
	a.state = StateLoaded
	a.logger.Debug("file loaded", "path", a.path, "format", format.name, "rows", data.Len(), "columns", data.Width())
	return data.Len(), nil
}

func (a *Adapter) load() (*frame.Frame, error) {
	if a.state == StateLoaded {
		return a.data, nil
	}
	if _, err := a.Read(); err != nil {
		return nil, err
	}
	return a.data, nil
}

// Schema returns one (name, kind) entry per column.
func (a *Adapter) Schema() ([]core.Column, error) {
	data, err := a.load()
	if err != nil {
		return nil, err
	}
	return data.Schema(), nil
}

// Preview returns the first limit rows projected onto columns
// (all columns when empty).
func (a *Adapter) Preview(columns []string, limit int) (*frame.Frame, error) {
	const op = "Preview"
	if limit < 0 {
		return nil, core.Errorf(op, core.KindInvalid, "limit must not be negative, got %d", limit)
	}
	data, err := a.load()
	if err != nil {
		return nil, err
	}
	out, err := data.Select(columns)
	if err != nil {
		return nil, core.Wrap(op, core.KindProjection, err)
	}
	return out.Head(limit), nil
}

// Export returns every row projected onto columns (all columns when empty).
func (a *Adapter) Export(columns []string) (*frame.Frame, error) {
	const op = "Export"
	data, err := a.load()
	if err != nil {
		return nil, err
	}
	out, err := data.Select(columns)
	if err != nil {
		return nil, core.Wrap(op, core.KindProjection, err)
	}
	return out, nil
}

// Write stores f, projected onto columns, at outputPath in the format
// named by its extension. The file is written to a temporary sibling and
// renamed into place, so a failed write leaves no output behind.
func (a *Adapter) Write(f *frame.Frame, outputPath string, columns []string) (WriteResult, error) {
	const op = "Write"

	format, err := lookup(outputPath)
	if err != nil {
		return WriteResult{}, core.Wrap(op, core.KindUnsupportedFormat, err)
	}
	if format.encode == nil {
		return WriteResult{}, core.Errorf(op, core.KindUnsupportedFormat,
			"%s files are read-only", strings.ToLower(filepath.Ext(outputPath)))
	}
	if f == nil {
		return WriteResult{}, core.Errorf(op, core.KindInvalid, "no data to write")
	}
	data, err := f.Select(columns)
	if err != nil {
		return WriteResult{}, core.Wrap(op, core.KindProjection, err)
	}
	if data.Width() == 0 {
		return WriteResult{}, core.Errorf(op, core.KindInvalid, "no columns to write")
	}

	if err := writeAtomic(outputPath, func(w *os.File) error {
		return format.encode(w, data, format.writeOptions(a.delimiter))
	}); err != nil {
		return WriteResult{}, core.Wrap(op, core.KindIO, err)
	}

	a.logger.Debug("file written", "path", outputPath, "format", format.name, "rows", data.Len())
	return WriteResult{Count: data.Len(), Path: outputPath}, nil
}

func writeAtomic(path string, write func(*os.File) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
