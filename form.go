package churnform

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-churnform/pkg/model"
	pkgopenapi "github.com/goliatone/go-churnform/pkg/openapi"
	"github.com/goliatone/go-churnform/pkg/orchestrator"
	"github.com/goliatone/go-churnform/pkg/render"
	theme "github.com/goliatone/go-theme"
)

// RenderOptions aliases render.RenderOptions for callers of the facade.
type RenderOptions = render.RenderOptions

// NewOrchestrator returns an orchestrator whose loader reads the embedded
// schema unless WithLoader overrides it.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	opts := append([]orchestrator.Option{orchestrator.WithLoader(NewLoader())}, options...)
	return orchestrator.New(opts...)
}

// LoadForm builds the decorated churn form from the embedded schema.
func LoadForm(ctx context.Context, options ...orchestrator.Option) (model.FormModel, error) {
	return NewOrchestrator(options...).BuildForm(ctx, orchestrator.Request{
		Source:      SchemaSource(),
		OperationID: DefaultOperationID,
	})
}

// LoadFormFrom builds the form from an external OpenAPI document, given as a
// file path or http(s) URL.
func LoadFormFrom(ctx context.Context, location string, options ...orchestrator.Option) (model.FormModel, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return LoadForm(ctx, options...)
	}
	src, err := pkgopenapi.ParseSource(location)
	if err != nil {
		return model.FormModel{}, err
	}
	loader := NewLoader(pkgopenapi.WithHTTPFallback(30 * time.Second))
	opts := append([]orchestrator.Option{orchestrator.WithLoader(loader)}, options...)
	return orchestrator.New(opts...).BuildForm(ctx, orchestrator.Request{
		Source:      src,
		OperationID: DefaultOperationID,
	})
}

// WithPreset selects the UI schema visibility preset.
func WithPreset(name string) orchestrator.Option {
	return orchestrator.WithPreset(name)
}

// WithThemeSelector passes a go-theme selector through to the orchestrator.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}
