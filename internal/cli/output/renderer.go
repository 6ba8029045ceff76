// Package output renders command results for humans and machines.
//
// A Renderer resolves the configured Mode once: auto picks a table on a
// terminal and JSON otherwise. Tabular payloads go through go-pretty so
// table, CSV and markdown share one code path.
package output

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"golang.org/x/term"
)

// Mode selects how results are written.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeTable    Mode = "table"
	ModeJSON     Mode = "json"
	ModeCSV      Mode = "csv"
	ModeMarkdown Mode = "markdown"
)

// Modes returns every accepted mode name.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeTable), string(ModeJSON), string(ModeCSV), string(ModeMarkdown)}
}

// ParseMode maps a config value to a Mode. Empty means auto; "md" is
// accepted for markdown.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return ModeAuto, nil
	case "md":
		return ModeMarkdown, nil
	}
	if slices.Contains(Modes(), s) {
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (valid: %s)", s, strings.Join(Modes(), ", "))
}

// Renderer writes results to out and status lines to errOut.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	Styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		Styles: newStyles(lipgloss.NewRenderer(out), isTTY),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Mode returns the configured mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// EffectiveMode resolves auto against the TTY state.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeTable
	}
	return ModeJSON
}

// Writer returns the result writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// Println writes a line to the result writer.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to the result writer.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header writes a heading. Level 1 is styled, deeper levels are plain.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		return
	}
	if level <= 1 {
		r.Println(r.Styles.Header.Render(text))
		return
	}
	r.Println(text)
}

// Success writes a success status line to errOut.
func (r *Renderer) Success(msg string) {
	r.status(r.Styles.Success.Render("✓"), msg)
}

// Warning writes a warning status line to errOut.
func (r *Renderer) Warning(msg string) {
	r.status(r.Styles.Warning.Render("!"), msg)
}

// Error writes an error status line to errOut.
func (r *Renderer) Error(msg string) {
	r.status(r.Styles.Error.Render("✗"), msg)
}

// StatusLine writes "<mark> name detail" where status is success,
// warning, error or skipped.
func (r *Renderer) StatusLine(name, status, detail string) {
	var mark string
	switch status {
	case "success":
		mark = r.Styles.Success.Render("✓")
	case "warning":
		mark = r.Styles.Warning.Render("!")
	case "error":
		mark = r.Styles.Error.Render("✗")
	default:
		mark = r.Styles.Muted.Render("-")
	}
	if detail != "" {
		name += " " + r.Styles.Muted.Render(detail)
	}
	r.status(mark, name)
}

func (r *Renderer) status(mark, msg string) {
	_, _ = fmt.Fprintf(r.errOut, "%s %s\n", mark, msg)
}

// FormatHeader renders a markdown heading.
func FormatHeader(level int, text string) string {
	return strings.Repeat("#", max(1, level)) + " " + text
}

// FormatKeyValue renders a markdown bullet "- **key**: value".
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s**: %s", key, value)
}
