package model

import "strconv"

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
)

const (
	ValidationRuleMin = "min"
	ValidationRuleMax = "max"
)

// ValidationRule represents a native input constraint (the min/max attributes
// of a number input). The threshold is encoded in Params["value"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field models an individual input inside the form.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Format      string            `json:"format,omitempty"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Description string            `json:"description,omitempty"`
	HelpText    string            `json:"helpText,omitempty"`
	Default     any               `json:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty"`
	Hidden      bool              `json:"hidden,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// IsNumeric reports whether the field is backed by a number input.
func (f Field) IsNumeric() bool {
	return f.Type == FieldTypeInteger || f.Type == FieldTypeNumber
}

// Bound returns the numeric threshold for the given validation kind.
func (f Field) Bound(kind string) (float64, bool) {
	for _, rule := range f.Validations {
		if rule.Kind != kind {
			continue
		}
		value, err := strconv.ParseFloat(rule.Params["value"], 64)
		if err != nil {
			return 0, false
		}
		return value, true
	}
	return 0, false
}

// FormModel is the top-level representation renderers and the form state
// consume.
type FormModel struct {
	OperationID string            `json:"operationId"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Field looks up a field by name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in form order.
func (f FormModel) FieldNames() []string {
	names := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		names = append(names, field.Name)
	}
	return names
}
