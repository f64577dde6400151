package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	churnform "github.com/goliatone/go-churnform"
	"github.com/goliatone/go-churnform/pkg/i18n"
	"github.com/goliatone/go-churnform/pkg/lifecycle"
	pkgmodel "github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/orchestrator"
	"github.com/goliatone/go-churnform/pkg/predict"
	"github.com/goliatone/go-churnform/pkg/render"
	"github.com/goliatone/go-churnform/pkg/renderers/vanilla"
)

// formOptions applies the configured preset and theme.
func formOptions() []orchestrator.Option {
	return []orchestrator.Option{
		churnform.WithPreset(cfg.Form.Preset),
		churnform.WithThemeSelector(vanilla.DefaultThemes()),
		orchestrator.WithTheme(cfg.Theme.Name, cfg.Theme.Variant),
	}
}

func buildForm(ctx context.Context) (pkgmodel.FormModel, error) {
	form, err := churnform.LoadFormFrom(ctx, cfg.Form.Schema, formOptions()...)
	if err != nil {
		return pkgmodel.FormModel{}, eris.Wrap(err, "build form")
	}
	return form, nil
}

func newPredictor() *predict.Client {
	return predict.NewClient(cfg.Predict.Endpoint,
		predict.WithTimeout(cfg.Predict.Timeout()),
		predict.WithRateLimit(cfg.Predict.RateLimit),
		predict.WithLogger(zap.L()),
	)
}

func newController(form pkgmodel.FormModel) (*lifecycle.Controller, error) {
	ctrl, err := lifecycle.New(form, newPredictor(), lifecycle.WithLogger(zap.L()))
	if err != nil {
		return nil, eris.Wrap(err, "build controller")
	}
	return ctrl, nil
}

func renderOptions() (render.RenderOptions, error) {
	catalog, err := i18n.Default()
	if err != nil {
		return render.RenderOptions{}, eris.Wrap(err, "load messages")
	}
	return render.RenderOptions{Locale: cfg.Form.Locale, Translator: catalog}, nil
}
