package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the controller.
type RenderOptions struct {
	// Locale selects the catalogue used by Translator.
	Locale string
	// Translator resolves labelKey/helpTextKey hints and the built-in copy.
	// Nil keeps the English defaults.
	Translator Translator
	// OnMissing decides the string used when a key has no translation.
	OnMissing MissingTranslationHandler
	// Theme carries tokens and CSS variables resolved from go-theme.
	Theme *theme.RendererConfig
	// Action is the form post target. Empty posts back to the current URL.
	Action string
	// HiddenFields are emitted as hidden inputs next to the form controls
	// (for example the CSRF token).
	HiddenFields map[string]string
	// Errors surfaces rejected edits keyed by field name.
	Errors map[string][]string
	// FormErrors are shown above the controls.
	FormErrors []string
}
