package render

import (
	"errors"
	"sort"
	"strings"

	"github.com/goliatone/go-churnform/pkg/formstate"
	"github.com/goliatone/go-churnform/pkg/model"
)

// ErrorMapping splits rejected edits into field-level and form-level
// messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapFieldErrors sorts the errors collected while applying a form post.
// Errors for names the form does not know become form-level messages so
// they are not lost.
func MapFieldErrors(form model.FormModel, errs map[string]error) ErrorMapping {
	mapping := ErrorMapping{}
	if len(errs) == 0 {
		return mapping
	}

	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		err := errs[name]
		if err == nil {
			continue
		}
		message := errorMessage(err)
		if _, ok := form.Field(name); !ok || errors.Is(err, formstate.ErrUnknownField) {
			mapping.Form = append(mapping.Form, message)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[name] = append(mapping.Fields[name], message)
	}
	mapping.Form = MergeFormErrors(nil, mapping.Form...)
	return mapping
}

// MergeFormErrors concatenates and normalises form-level messages, trimming
// whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func errorMessage(err error) string {
	msg := err.Error()
	for _, prefix := range []string{"formstate: invalid value: ", "formstate: "} {
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
