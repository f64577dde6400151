package tui

import "io"

// Theme captures optional prefixes applied when printing messages. Keep
// minimal to avoid coupling session logic to ANSI specifics.
type Theme struct {
	InfoPrefix    string
	SuccessPrefix string
	ErrorPrefix   string
}

// Option configures the TUI renderer and sessions.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput sets where the default survey driver prints messages.
func WithOutput(out io.Writer) Option {
	return func(r *Renderer) {
		if out != nil {
			r.out = out
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithAllFields prompts for fields hidden by the active preset as well.
func WithAllFields() Option {
	return func(r *Renderer) {
		r.allFields = true
	}
}
