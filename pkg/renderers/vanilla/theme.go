package vanilla

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-churnform/pkg/render"
)

// DefaultThemeName is the built-in theme.
const DefaultThemeName = "churnform"

// DefaultManifest describes the built-in palette with a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":   "#2563eb",
			"surface": "#ffffff",
			"text":    "#1f2937",
			"muted":   "#6b7280",
			"danger":  "#b91c1c",
			"success": "#15803d",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": StylesheetName,
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand":   "#60a5fa",
					"surface": "#111827",
					"text":    "#f3f4f6",
					"muted":   "#9ca3af",
				},
			},
		},
	}
}

// DefaultThemes returns a selector holding the built-in theme.
func DefaultThemes() *render.ThemeSet {
	return render.NewThemeSet(DefaultManifest())
}
