package model

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	pkgopenapi "github.com/goliatone/go-churnform/pkg/openapi"
)

const (
	orderExtensionKey = "x-order"
	labelExtensionKey = "x-label"
)

// Options configures the behaviour of the Builder.
type Options struct {
	Labeler func(string) string
}

// Builder converts the prediction operation into a FormModel.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	if options.Labeler == nil {
		options.Labeler = DefaultLabeler
	}
	return &Builder{opts: options}
}

// Build transforms the request body of op into a flat, ordered FormModel.
// Every property becomes one field; nested objects and arrays are rejected
// because the prediction body is a flat record.
func (b *Builder) Build(op pkgopenapi.Operation) (FormModel, error) {
	if op.ID == "" {
		return FormModel{}, errors.New("model: operation id is required")
	}
	body := op.RequestBody
	if body.Type != "object" && body.Type != "" {
		return FormModel{}, fmt.Errorf("model: operation %q request body must be an object, got %q", op.ID, body.Type)
	}
	if len(body.Properties) == 0 {
		return FormModel{}, fmt.Errorf("model: operation %q request body has no properties", op.ID)
	}

	form := FormModel{
		OperationID: op.ID,
		Endpoint:    op.Path,
		Method:      strings.ToUpper(op.Method),
		Summary:     op.Summary,
		Description: op.Description,
	}

	type ordered struct {
		field Field
		order float64
	}
	items := make([]ordered, 0, len(body.Properties))
	for name, schema := range body.Properties {
		field, err := b.fieldFromSchema(name, schema, body.IsRequired(name))
		if err != nil {
			return FormModel{}, fmt.Errorf("model: operation %q: %w", op.ID, err)
		}
		order, ok := numericExtension(schema.Extensions, orderExtensionKey)
		if !ok {
			order = math.MaxFloat64
		}
		items = append(items, ordered{field: field, order: order})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].order != items[j].order {
			return items[i].order < items[j].order
		}
		return items[i].field.Name < items[j].field.Name
	})

	form.Fields = make([]Field, 0, len(items))
	for _, item := range items {
		form.Fields = append(form.Fields, item.field)
	}
	return form, nil
}

func (b *Builder) fieldFromSchema(name string, schema pkgopenapi.Schema, required bool) (Field, error) {
	var fieldType FieldType
	switch schema.Type {
	case "integer":
		fieldType = FieldTypeInteger
	case "number":
		fieldType = FieldTypeNumber
	case "string", "":
		fieldType = FieldTypeString
	default:
		return Field{}, fmt.Errorf("field %q: unsupported type %q", name, schema.Type)
	}

	label := strings.TrimSpace(schema.Title)
	if custom, ok := schema.Extensions[labelExtensionKey].(string); ok && strings.TrimSpace(custom) != "" {
		label = strings.TrimSpace(custom)
	}
	if label == "" {
		label = b.opts.Labeler(name)
	}

	field := Field{
		Name:        name,
		Type:        fieldType,
		Format:      schema.Format,
		Required:    required,
		Label:       label,
		Description: schema.Description,
		Default:     schema.Default,
	}
	if len(schema.Enum) > 0 {
		field.Enum = append([]any(nil), schema.Enum...)
	}
	if schema.Minimum != nil {
		field.Validations = append(field.Validations, boundRule(ValidationRuleMin, *schema.Minimum))
	}
	if schema.Maximum != nil {
		field.Validations = append(field.Validations, boundRule(ValidationRuleMax, *schema.Maximum))
	}
	return field, nil
}

func boundRule(kind string, value float64) ValidationRule {
	return ValidationRule{
		Kind:   kind,
		Params: map[string]string{"value": strconv.FormatFloat(value, 'f', -1, 64)},
	}
}

func numericExtension(ext map[string]any, key string) (float64, bool) {
	switch v := ext[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

// DefaultLabeler converts a field name into a human-friendly label, splitting
// on underscores, dashes and camelCase boundaries.
func DefaultLabeler(name string) string {
	var segments []string
	for _, word := range splitWordsPattern.Split(name, -1) {
		if word == "" {
			continue
		}
		segments = append(segments, titleCase(splitCamel(word)))
	}
	return strings.Join(segments, " ")
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 {
			prev := rune(input[i-1])
			if isLower(prev) && isUpper(r) {
				out.WriteRune(' ')
			}
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
