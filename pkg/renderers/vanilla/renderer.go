package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/goliatone/go-churnform/pkg/render"
	rendertemplate "github.com/goliatone/go-churnform/pkg/render/template"
	gotemplate "github.com/goliatone/go-churnform/pkg/render/template/gotemplate"
)

const pageTemplate = "page"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	inlineStyles     bool
	stylesheets      []string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithDefaultStyles inlines the embedded stylesheet into the page.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithStylesheet links an external stylesheet.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// Renderer produces the single-page HTML form.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	inlineStyles string
	stylesheets  []string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	r := &Renderer{
		templates:   templates,
		stylesheets: append([]string(nil), cfg.stylesheets...),
	}
	if cfg.inlineStyles {
		r.inlineStyles = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the form page for view.
func (r *Renderer) Render(ctx context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view.Form = render.LocalizeForm(view.Form, opts)

	lang := opts.Locale
	if lang == "" {
		lang = "en"
	}

	busyView := view
	busyView.Busy = true

	stylesheets := append([]string(nil), r.stylesheets...)
	var themeName, variant, cssVars string
	if cfg := opts.Theme; cfg != nil {
		themeName, variant = cfg.Theme, cfg.Variant
		cssVars = cssVarsStyle(cfg.CSSVars)
		if cfg.AssetURL != nil {
			if href := cfg.AssetURL("stylesheet"); href != "" && !slices.Contains(stylesheets, href) {
				stylesheets = append(stylesheets, href)
			}
		}
	}

	data := map[string]any{
		"lang":          lang,
		"title":         render.Title(view),
		"action":        opts.Action,
		"phase":         view.Phase.String(),
		"busy":          view.Busy,
		"button_label":  render.ButtonLabel(view, opts),
		"busy_label":    render.ButtonLabel(busyView, opts),
		"controls":      controlViews(render.Controls(view, opts)),
		"hidden_fields": render.SortedHiddenFields(opts.HiddenFields),
		"form_errors":   opts.FormErrors,
		"banner":        render.Banner(view, opts),
		"alert":         render.AlertMessage(view, opts),
		"stylesheets":   stylesheets,
		"inline_styles": r.inlineStyles,
		"css_vars":      cssVars,
		"theme":         themeName,
		"variant":       variant,
		"classes":       chromeClasses(),
	}

	result, err := r.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
