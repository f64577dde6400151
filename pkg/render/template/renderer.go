package template

import (
	"io"
)

// TemplateRenderer executes page templates for HTML renderers. Data is
// exposed to templates by its JSON field names.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}
