package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-churnform/pkg/render"
)

// Renderer implements render.Renderer for terminals and drives interactive
// sessions against a lifecycle controller.
type Renderer struct {
	driver    PromptDriver
	out       io.Writer
	theme     Theme
	allFields bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer. The survey driver is used unless one is
// supplied.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{out: os.Stdout}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render prints a plain-text summary of the view: the title, one line per
// visible field, the button label and the banner or alert.
func (r *Renderer) Render(ctx context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	view.Form = render.LocalizeForm(view.Form, opts)

	var b strings.Builder
	title := render.Title(view)
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", len([]rune(title))))
	b.WriteByte('\n')

	controls := render.Controls(view, opts)
	width := 0
	for _, control := range controls {
		if control.Kind != render.ControlHidden && len(control.Label) > width {
			width = len(control.Label)
		}
	}
	for _, control := range controls {
		if control.Kind == render.ControlHidden && !r.allFields {
			continue
		}
		fmt.Fprintf(&b, "%-*s  %s\n", width, control.Label, control.Value)
		for _, message := range control.Errors {
			fmt.Fprintf(&b, "%-*s  ! %s\n", width, "", message)
		}
	}

	fmt.Fprintf(&b, "\n[%s]\n", render.ButtonLabel(view, opts))
	if banner := render.Banner(view, opts); banner.Visible {
		b.WriteString(r.tone(banner.Tone) + banner.Message + "\n")
	}
	if alert := render.AlertMessage(view, opts); alert != "" {
		b.WriteString(r.theme.ErrorPrefix + alert + "\n")
	}
	return []byte(b.String()), nil
}

func (r *Renderer) tone(tone string) string {
	switch tone {
	case render.ToneDanger:
		return r.theme.ErrorPrefix
	case render.ToneSuccess:
		return r.theme.SuccessPrefix
	default:
		return r.theme.InfoPrefix
	}
}
