package vanilla

import (
	"sort"
	"strings"

	"github.com/goliatone/go-churnform/pkg/render"
)

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "cf-" + trimmed
}

type controlView struct {
	render.Control
	ID string `json:"id"`
}

func controlViews(controls []render.Control) []controlView {
	out := make([]controlView, 0, len(controls))
	for _, control := range controls {
		out = append(out, controlView{Control: control, ID: controlID(control.Name)})
	}
	return out
}

// cssVarsStyle joins CSS variables into a deterministic declaration list.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(vars[name])
		b.WriteByte(';')
	}
	return b.String()
}
