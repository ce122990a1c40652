// Package color provides color detection and theming for CLI output.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Profile reports whether color output should be enabled.
//
// Color is disabled by the --no-color flag, a set NO_COLOR (any value, per
// https://no-color.org), CLICOLOR=0 or TERM=dumb.
func Profile(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if os.Getenv("CLICOLOR") == "0" {
		return false
	}

	return os.Getenv("TERM") != "dumb"
}

// IsTerminal returns true if f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd values fit in int
}

// Enabled combines Profile with terminal detection for f.
func Enabled(f *os.File, noColorFlag bool) bool {
	return Profile(noColorFlag) && IsTerminal(f)
}

// Theme holds lipgloss styles for validation, merge and check reports.
type Theme struct {
	Valid   lipgloss.Style
	Invalid lipgloss.Style
	Warning lipgloss.Style
	Path    lipgloss.Style
	Source  lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style

	color bool
}

// NewTheme creates a Theme. When color is false, all styles are empty (no ANSI codes).
func NewTheme(color bool) Theme {
	if !color {
		return Theme{}
	}

	return Theme{
		Valid:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // bright green
		Invalid: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // bright yellow
		Path:    lipgloss.NewStyle().Bold(true),
		Source:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")), // bright blue
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")), // gray
		color:   true,
	}
}

// Swatch renders a small sample block filled with a configured hex color,
// followed by the hex value. Without color only the value is returned.
func (t Theme) Swatch(hex string) string {
	if !t.color || hex == "" {
		return hex
	}

	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ") + " " + hex
}
