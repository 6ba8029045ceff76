package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used for status lines and headers.
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Header  lipgloss.Style
	Key     lipgloss.Style
}

// newStyles binds the palette to a lipgloss renderer for w. Non-TTY
// output gets the ASCII profile so no escape codes leak into pipes.
func newStyles(lr *lipgloss.Renderer, isTTY bool) *Styles {
	if !isTTY {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Styles{
		Success: lr.NewStyle().Foreground(lipgloss.Color("2")),
		Error:   lr.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("3")),
		Info:    lr.NewStyle().Foreground(lipgloss.Color("4")),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		Header:  lr.NewStyle().Bold(true).Underline(true),
		Key:     lr.NewStyle().Bold(true),
	}
}
