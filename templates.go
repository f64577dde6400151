package churnform

import (
	"io/fs"

	vanilla "github.com/goliatone/go-churnform/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in page template so callers can copy
// or extend it without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the stylesheet served under /assets.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
