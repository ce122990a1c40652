// Package report renders validation, merge and acceptance results as tables.
package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/smykla-skalski/uploadkit/internal/color"
)

// Icons are single-width so they do not break column alignment.
const (
	IconOK      = "✓"
	IconError   = "✗"
	IconWarning = "!"
)

// table accumulates rows and renders them with the shared look.
type table struct {
	headers []string
	rows    [][]string
	theme   color.Theme
	width   int
}

func newTable(theme color.Theme, headers ...string) *table {
	return &table{headers: headers, theme: theme, width: termWidth()}
}

func (t *table) add(row ...string) {
	t.rows = append(t.rows, row)
}

// render lays out the rows. The last column takes whatever width is left
// after the others and wraps when the terminal is narrow.
func (t *table) render() string {
	if len(t.rows) == 0 {
		return ""
	}

	colWidths := calcColumnWidthsFor(t.width, t.headers, t.rows)

	var buf bytes.Buffer

	opts := []tablewriter.Option{
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenRows: tw.On,
				},
			},
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Formatting().WithAutoWrap(tw.WrapNormal).Build().
			Build()),
	}

	if colWidths != nil {
		opts = append(opts, tablewriter.WithColumnWidths(toCellWidths(colWidths)))
	}

	tbl := tablewriter.NewTable(&buf, opts...)
	tbl.Header(t.headers)

	for _, row := range t.rows {
		if colWidths != nil {
			for i, cell := range row {
				if w, ok := colWidths[i]; ok {
					row[i] = padToWidth(cell, w)
				}
			}
		}

		_ = tbl.Append(row)
	}

	_ = tbl.Render()

	return dimBorders(strings.TrimRight(buf.String(), "\n"), t.theme)
}

// calcColumnWidthsFor sizes every column but the last to its widest visible
// cell and gives the rest of the terminal width to the last one. Returns nil
// when w is not a usable terminal width.
func calcColumnWidthsFor(w int, headers []string, rows [][]string) map[int]int {
	const (
		minTableW   = 40
		minLastColW = 20

		// Each column has: 1 border char + 1 left pad + 1 right pad.
		colOverhead = 3
	)

	if w < minTableW || len(headers) == 0 {
		return nil
	}

	widths := make(map[int]int, len(headers))
	last := len(headers) - 1
	used := 0

	for col := range last {
		widest := runewidth.StringWidth(ansi.Strip(headers[col]))

		for _, row := range rows {
			if col < len(row) {
				widest = max(widest, runewidth.StringWidth(ansi.Strip(row[col])))
			}
		}

		widths[col] = widest
		used += widest
	}

	available := w - len(headers)*colOverhead - 1 - used
	if available < minLastColW {
		return nil
	}

	widths[last] = available

	return widths
}

// toCellWidths converts content widths to cell widths (content + left/right
// padding) for WithColumnWidths.
func toCellWidths(contentWidths map[int]int) tw.Mapper[int, int] {
	const padW = 2 // " " left + " " right

	m := make(tw.Mapper[int, int], len(contentWidths))
	for col, w := range contentWidths {
		m[col] = w + padW
	}

	return m
}

// padToWidth right-pads s with spaces so its display width reaches w.
// ANSI escape codes are excluded from width calculation.
func padToWidth(s string, w int) string {
	visible := runewidth.StringWidth(ansi.Strip(s))
	if visible >= w {
		return s
	}

	return s + strings.Repeat(" ", w-visible)
}

// dimBorders applies the muted theme style to all box-drawing border
// characters in the rendered table output.
func dimBorders(s string, theme color.Theme) string {
	for _, ch := range []string{
		"╭", "╮", "╰", "╯", "│", "─", "┬", "┴", "├", "┤", "┼",
	} {
		s = strings.ReplaceAll(s, ch, theme.Muted.Render(ch))
	}

	return s
}

// termWidth returns the terminal width or 0 if not a terminal.
func termWidth() int {
	if w, _, err := term.GetSize(
		int(os.Stdout.Fd()), //nolint:gosec // fd fits int
	); err == nil && w > 0 {
		return w
	}

	return 0
}

// Summary returns a colored "N error(s), M warning(s)" line.
func Summary(errs, warnings int, theme color.Theme) string {
	if errs == 0 && warnings == 0 {
		return theme.Valid.Render(IconOK + " configuration is valid")
	}

	parts := []string{
		styleSummaryPart(fmt.Sprintf("%d error(s)", errs), errs > 0, theme.Invalid),
		styleSummaryPart(fmt.Sprintf("%d warning(s)", warnings), warnings > 0, theme.Warning),
	}

	return "Summary: " + strings.Join(parts, ", ")
}

func styleSummaryPart(text string, active bool, style lipgloss.Style) string {
	if active {
		return style.Render(text)
	}

	return text
}
