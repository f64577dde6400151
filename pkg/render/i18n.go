package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/uischema"
)

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler returns the string used when key could not be
// translated. fallback is the English copy.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// Translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Message keys for the built-in copy.
const (
	KeyFormTitle   = "form.title"
	KeySubmit      = "button.submit"
	KeySubmitBusy  = "button.busy"
	KeyResultChurn = "result.churn"
	KeyResultStay  = "result.stay"
	KeyAlert       = "alert.generic"
)

func missingTranslationDefault(_ string, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

// Translate resolves key through opts, falling back to fallback.
func Translate(opts RenderOptions, key, fallback string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if opts.Translator == nil {
		return onMissing(opts.Locale, key, fallback, ErrMissingTranslator)
	}
	msg, err := opts.Translator.Translate(opts.Locale, key)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(opts.Locale, key, fallback, err)
	}
	return msg
}

// LocalizeForm returns a copy of form with labelKey/helpTextKey hints and
// the title key resolved through opts.
func LocalizeForm(form model.FormModel, opts RenderOptions) model.FormModel {
	out := form
	out.Metadata = copyStringMap(form.Metadata)
	out.Fields = append([]model.Field(nil), form.Fields...)

	if key := out.Metadata[uischema.MetadataTitleKey]; key != "" {
		out.Metadata[uischema.MetadataTitle] = Translate(opts, key, out.Metadata[uischema.MetadataTitle])
	}
	for i := range out.Fields {
		field := &out.Fields[i]
		if key := field.Metadata[uischema.FieldMetadataLabelKey]; key != "" {
			field.Label = Translate(opts, key, field.Label)
		}
		if key := field.Metadata[uischema.FieldMetadataHelpTextKey]; key != "" {
			field.HelpText = uischema.SanitizeHelpText(Translate(opts, key, field.HelpText))
		}
	}
	return out
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
