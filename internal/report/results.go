package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smykla-skalski/uploadkit/internal/acceptance"
	"github.com/smykla-skalski/uploadkit/internal/color"
	internalconfig "github.com/smykla-skalski/uploadkit/internal/config"
	"github.com/smykla-skalski/uploadkit/pkg/config"
)

// Errors renders validation errors, one row per error.
func Errors(errs []config.ValidationError, theme color.Theme) string {
	t := newTable(theme, "", "Path", "Message")

	for _, e := range errs {
		t.add(theme.Invalid.Render(IconError), theme.Path.Render(e.Path), e.Message)
	}

	return t.render()
}

// Warnings renders advisory messages.
func Warnings(warnings []string, theme color.Theme) string {
	t := newTable(theme, "", "Warning")

	for _, w := range warnings {
		t.add(theme.Warning.Render(IconWarning), w)
	}

	return t.render()
}

// Sources renders the layer that set every leaf of a merged tree along with
// its value. Leaves still at their default are left out unless all is set.
func Sources(raw map[string]any, sources map[string]internalconfig.Source, all bool, theme color.Theme) string {
	t := newTable(theme, "Path", "Source", "Value")

	for _, path := range internalconfig.LeafPaths(raw) {
		source := sources[path]
		if source == internalconfig.SourceDefault && !all {
			continue
		}

		value, _ := internalconfig.Lookup(raw, path)
		t.add(theme.Path.Render(path), theme.Source.Render(string(source)), formatValue(value))
	}

	return t.render()
}

// Conflicts renders every value recorded for each conflicting path, in the
// order they were applied. The winning value is marked.
func Conflicts(conflicts []internalconfig.Conflict, theme color.Theme) string {
	t := newTable(theme, "Path", "Source", "Value")

	for _, c := range conflicts {
		for i, v := range c.Values {
			path := ""
			if i == 0 {
				path = theme.Path.Render(c.Path)
			}

			value := formatValue(v.Value)
			if i == len(c.Values)-1 {
				value = theme.Valid.Render(value + " " + IconOK)
			} else {
				value = theme.Muted.Render(value)
			}

			t.add(path, theme.Source.Render(string(v.Source)), value)
		}
	}

	return t.render()
}

// Rejections renders acceptance results, one row per file or rejection.
func Rejections(results []acceptance.Result, theme color.Theme) string {
	t := newTable(theme, "", "File", "Details")

	for _, r := range results {
		if r.Accepted() {
			t.add(theme.Valid.Render(IconOK), r.Info.Name, theme.Muted.Render(describeFile(r.Info)))

			continue
		}

		for _, rej := range r.Rejections {
			t.add(theme.Invalid.Render(IconError), rej.File, rej.Message)
		}
	}

	return t.render()
}

func describeFile(info acceptance.FileInfo) string {
	parts := []string{info.MIMEType}
	if info.Width > 0 && info.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", info.Width, info.Height))
	}

	return strings.Join(parts, ", ")
}

// formatValue renders strings bare and everything else as compact JSON.
func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}

	return string(data)
}
