package orchestrator_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-churnform/pkg/lifecycle"
	"github.com/goliatone/go-churnform/pkg/model"
	pkgopenapi "github.com/goliatone/go-churnform/pkg/openapi"
	"github.com/goliatone/go-churnform/pkg/orchestrator"
	"github.com/goliatone/go-churnform/pkg/render"
	"github.com/goliatone/go-churnform/pkg/uischema"
	theme "github.com/goliatone/go-theme"
)

func TestOrchestrator_AppliesUIDecorators(t *testing.T) {
	decorator := model.DecoratorFunc(func(form *model.FormModel) error {
		if form.Metadata == nil {
			form.Metadata = make(map[string]string)
		}
		form.Metadata["decorated"] = "true"
		return nil
	})

	baseForm := model.FormModel{
		OperationID: "predictChurn",
		Endpoint:    "/api/predict",
		Method:      "POST",
		Fields: []model.Field{
			{Name: "tenure", Type: model.FieldTypeInteger, Default: 24},
		},
	}

	orch := orchestrator.New(
		orchestrator.WithModelBuilder(stubFormBuilder{form: baseForm}),
		orchestrator.WithParser(stubParser{operation: pkgopenapi.Operation{ID: baseForm.OperationID}}),
		orchestrator.WithUISchemaFS(nil),
		orchestrator.WithUIDecorators(decorator),
	)

	form, err := orch.BuildForm(context.Background(), orchestrator.Request{
		Document:    &pkgopenapi.Document{},
		OperationID: baseForm.OperationID,
	})
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	if form.Metadata["decorated"] != "true" {
		t.Fatalf("decorator not applied: %#v", form.Metadata)
	}
	if form.Metadata[uischema.MetadataPreset] != uischema.PresetFull {
		t.Fatalf("expected preset metadata, got %#v", form.Metadata)
	}
}

func TestOrchestrator_UnknownOperation(t *testing.T) {
	orch := orchestrator.New(
		orchestrator.WithParser(stubParser{operation: pkgopenapi.Operation{ID: "other"}}),
		orchestrator.WithUISchemaFS(nil),
	)
	_, err := orch.BuildForm(context.Background(), orchestrator.Request{
		Document:    &pkgopenapi.Document{},
		OperationID: "predictChurn",
	})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestOrchestrator_RenderResolvesTheme(t *testing.T) {
	renderer := &captureRenderer{}
	registry, err := render.NewRegistry(renderer)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	themes := render.NewThemeSet(&theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456"},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"brand": "#654321"}},
		},
	})

	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(renderer.Name()),
		orchestrator.WithUISchemaFS(nil),
		orchestrator.WithThemeSelector(themes),
		orchestrator.WithTheme("acme", "dark"),
	)

	out, contentType, err := orch.Render(context.Background(), "", render.View{Phase: lifecycle.Idle}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "idle" || contentType != "text/plain" {
		t.Fatalf("unexpected output %q (%s)", out, contentType)
	}
	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected theme selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("css vars not derived from variant tokens: %#v", cfg.CSSVars)
	}

	if _, _, err := orch.Render(context.Background(), "missing", render.View{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

type stubFormBuilder struct {
	form model.FormModel
}

func (s stubFormBuilder) Build(pkgopenapi.Operation) (model.FormModel, error) {
	return s.form, nil
}

type stubParser struct {
	operation pkgopenapi.Operation
}

func (s stubParser) Operations(context.Context, pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	return map[string]pkgopenapi.Operation{s.operation.ID: s.operation}, nil
}

type captureRenderer struct {
	options render.RenderOptions
}

func (r *captureRenderer) Name() string {
	return "capture"
}

func (r *captureRenderer) ContentType() string {
	return "text/plain"
}

func (r *captureRenderer) Render(_ context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	r.options = opts
	return []byte(view.Phase.String()), nil
}
