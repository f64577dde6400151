package uischema

import (
	"fmt"
	"strings"

	pkgmodel "github.com/goliatone/go-churnform/pkg/model"
)

// Decorator applies UI schema overrides and a visibility preset to a form
// model.
type Decorator struct {
	store  *Store
	preset string
}

var _ pkgmodel.Decorator = (*Decorator)(nil)

// NewDecorator builds a Decorator backed by the provided store. An empty
// preset name selects PresetFull. When store is nil or empty, only the
// preset is applied.
func NewDecorator(store *Store, preset string) *Decorator {
	preset = strings.TrimSpace(preset)
	if preset == "" {
		preset = PresetFull
	}
	return &Decorator{store: store, preset: preset}
}

// Decorate augments the supplied form model. Fields outside the preset are
// marked hidden; they keep their defaults and are still submitted.
func (d *Decorator) Decorate(form *pkgmodel.FormModel) error {
	if d == nil || form == nil {
		return nil
	}

	if op, ok := d.store.Operation(form.OperationID); ok {
		applyFormConfig(form, op)
		applyFieldConfig(form, op)
	}
	return d.applyPreset(form)
}

func applyFormConfig(form *pkgmodel.FormModel, op Operation) {
	form.Metadata = mergeStringMap(form.Metadata, op.Form.Metadata)
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			form.Metadata = ensureMetadata(form.Metadata)
			form.Metadata[key] = value
		}
	}
	set(MetadataTitle, op.Form.Title)
	set(MetadataTitleKey, op.Form.TitleKey)
	set(MetadataSubtitle, op.Form.Subtitle)
	set(MetadataSubmitLabel, op.Form.SubmitLabel)
	set(MetadataBusyLabel, op.Form.BusyLabel)
}

func applyFieldConfig(form *pkgmodel.FormModel, op Operation) {
	for i := range form.Fields {
		field := &form.Fields[i]
		cfg, ok := op.Fields[field.Name]
		if !ok {
			continue
		}
		if cfg.Label != "" {
			field.Label = cfg.Label
		}
		if cfg.HelpText != "" {
			field.HelpText = SanitizeHelpText(cfg.HelpText)
		}
		if cfg.LabelKey != "" {
			field.Metadata = ensureMetadata(field.Metadata)
			field.Metadata[FieldMetadataLabelKey] = cfg.LabelKey
		}
		if cfg.HelpTextKey != "" {
			field.Metadata = ensureMetadata(field.Metadata)
			field.Metadata[FieldMetadataHelpTextKey] = cfg.HelpTextKey
		}
		if cfg.Hidden != nil {
			field.Hidden = *cfg.Hidden
		}
	}
}

func (d *Decorator) applyPreset(form *pkgmodel.FormModel) error {
	form.Metadata = ensureMetadata(form.Metadata)
	form.Metadata[MetadataPreset] = d.preset
	if d.preset == PresetFull {
		return nil
	}

	visible, ok := d.store.Preset(d.preset)
	if !ok {
		return fmt.Errorf("uischema: unknown preset %q", d.preset)
	}
	keep := make(map[string]struct{}, len(visible))
	for _, name := range visible {
		if _, exists := form.Field(name); !exists {
			return fmt.Errorf("uischema: preset %q references unknown field %q", d.preset, name)
		}
		keep[name] = struct{}{}
	}
	for i := range form.Fields {
		if _, shown := keep[form.Fields[i].Name]; !shown {
			form.Fields[i].Hidden = true
		}
	}
	return nil
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	dst = ensureMetadata(dst)
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

func ensureMetadata(m map[string]string) map[string]string {
	if m == nil {
		return make(map[string]string)
	}
	return m
}
