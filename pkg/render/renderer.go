package render

import (
	"context"
)

// Renderer converts a form View into a byte representation (HTML, plain
// text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options RenderOptions) ([]byte, error)
}
