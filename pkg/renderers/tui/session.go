package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-churnform/pkg/formstate"
	"github.com/goliatone/go-churnform/pkg/lifecycle"
	pkgmodel "github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/render"
)

// Run prompts for every visible field, submits once the user confirms and
// prints the outcome. It repeats until the user declines another round.
func (r *Renderer) Run(ctx context.Context, ctrl *lifecycle.Controller, opts render.RenderOptions) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if ctrl == nil {
		return ErrNoController
	}

	form := render.LocalizeForm(ctrl.Form(), opts)
	for {
		if err := r.promptFields(ctx, ctrl, form); err != nil {
			return err
		}

		label := render.ButtonLabel(render.View{Form: form}, opts)
		submit, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label + "?", Default: true})
		if err != nil {
			return err
		}
		if submit {
			if err := r.submit(ctx, ctrl, form, opts); err != nil {
				return err
			}
		}

		again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Edit values and predict again?"})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (r *Renderer) submit(ctx context.Context, ctrl *lifecycle.Controller, form pkgmodel.FormModel, opts render.RenderOptions) error {
	busy := render.ButtonLabel(render.View{Form: form, Busy: true}, opts)
	if err := r.driver.Info(ctx, r.theme.InfoPrefix+busy); err != nil {
		return err
	}

	snap, err := ctrl.Submit(ctx)
	if err != nil {
		return r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error())
	}

	view := render.ViewFromSnapshot(form, snap)
	if banner := render.Banner(view, opts); banner.Visible {
		return r.driver.Info(ctx, r.tone(banner.Tone)+banner.Message)
	}
	if alert := render.AlertMessage(view, opts); alert != "" {
		return r.driver.Info(ctx, r.theme.ErrorPrefix+alert)
	}
	return nil
}

func (r *Renderer) promptFields(ctx context.Context, ctrl *lifecycle.Controller, form pkgmodel.FormModel) error {
	for _, field := range form.Fields {
		if field.Hidden && !r.allFields {
			continue
		}
		current := render.FormatValue(ctrl.Snapshot().Values[field.Name])

		var value any
		if len(field.Enum) > 0 {
			options := make([]string, 0, len(field.Enum))
			selected := 0
			for i, option := range field.Enum {
				text := render.FormatValue(option)
				if text == current {
					selected = i
				}
				options = append(options, text)
			}
			idx, err := r.driver.Select(ctx, SelectConfig{
				Message:      field.Label,
				Options:      options,
				DefaultIndex: selected,
				Help:         field.Description,
			})
			if err != nil {
				return err
			}
			if idx < 0 || idx >= len(options) {
				return fmt.Errorf("tui: invalid selection for %s", field.Name)
			}
			value = options[idx]
		} else {
			text, err := r.driver.Input(ctx, InputConfig{
				Message: field.Label,
				Default: current,
				Help:    field.Description,
				Validator: func(answer string) error {
					_, err := formstate.Coerce(field, answer)
					return err
				},
			})
			if err != nil {
				return err
			}
			value = text
		}

		if err := ctrl.SetField(field.Name, value); err != nil {
			if infoErr := r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error()); infoErr != nil {
				return infoErr
			}
		}
	}
	return nil
}
