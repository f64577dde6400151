package formstate

import (
	"encoding/json"
	"errors"
	"fmt"

	pkgmodel "github.com/goliatone/go-churnform/pkg/model"
)

var (
	// ErrUnknownField is returned when a name is not part of the form.
	ErrUnknownField = errors.New("formstate: unknown field")
	// ErrInvalidValue is returned when a value could not come from the
	// field's input control.
	ErrInvalidValue = errors.New("formstate: invalid value")
	// ErrMissingDefault is returned by New when a field has no default.
	ErrMissingDefault = errors.New("formstate: field has no default")
)

// State maps field names to typed values. Integers are stored as int64,
// decimals as float64 and enum selections as string.
type State struct {
	form   pkgmodel.FormModel
	values map[string]any
}

// New seeds a State from each field's default.
func New(form pkgmodel.FormModel) (*State, error) {
	if len(form.Fields) == 0 {
		return nil, errors.New("formstate: form has no fields")
	}

	values := make(map[string]any, len(form.Fields))
	for _, field := range form.Fields {
		if field.Default == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingDefault, field.Name)
		}
		value, err := Coerce(field, field.Default)
		if err != nil {
			return nil, fmt.Errorf("formstate: default for %s: %w", field.Name, err)
		}
		values[field.Name] = value
	}
	return &State{form: form, values: values}, nil
}

// SetField returns a copy of the state with name replaced by value. The
// receiver is left untouched, including when an error is returned.
func (s *State) SetField(name string, value any) (*State, error) {
	field, ok := s.form.Field(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	coerced, err := Coerce(field, value)
	if err != nil {
		return nil, err
	}

	next := make(map[string]any, len(s.values))
	for key, existing := range s.values {
		next[key] = existing
	}
	next[name] = coerced
	return &State{form: s.form, values: next}, nil
}

// Get returns the current value of a field.
func (s *State) Get(name string) (any, bool) {
	value, ok := s.values[name]
	return value, ok
}

// Values returns a copy of the field values.
func (s *State) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for key, value := range s.values {
		out[key] = value
	}
	return out
}

// Names lists the field names in form order.
func (s *State) Names() []string {
	return s.form.FieldNames()
}

func (s *State) Len() int {
	return len(s.values)
}

// Form returns the model the state was seeded from.
func (s *State) Form() pkgmodel.FormModel {
	return s.form
}

// MarshalJSON encodes the state as the prediction request body.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.values)
}
