// Package template defines the template engine seam used by the HTML
// renderer. The gotemplate subpackage provides a pongo2-backed engine.
package template
