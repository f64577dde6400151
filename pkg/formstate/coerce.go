package formstate

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	pkgmodel "github.com/goliatone/go-churnform/pkg/model"
)

// Coerce converts value into the native type of field, applying the checks
// an HTML control enforces: numeric parsing, min/max bounds and option
// membership. Numeric strings are accepted since number inputs submit text.
func Coerce(field pkgmodel.Field, value any) (any, error) {
	var (
		out any
		err error
	)
	switch field.Type {
	case pkgmodel.FieldTypeInteger:
		out, err = toInt(value)
	case pkgmodel.FieldTypeNumber:
		out, err = toFloat(value)
	default:
		str, ok := value.(string)
		if !ok {
			err = fmt.Errorf("expected text, got %T", value)
		}
		out = str
	}
	if err != nil {
		return nil, invalid(field.Name, value, err.Error())
	}

	if field.IsNumeric() {
		n := asFloat(out)
		if lo, ok := field.Bound(pkgmodel.ValidationRuleMin); ok && n < lo {
			return nil, invalid(field.Name, value, fmt.Sprintf("below minimum %v", lo))
		}
		if hi, ok := field.Bound(pkgmodel.ValidationRuleMax); ok && n > hi {
			return nil, invalid(field.Name, value, fmt.Sprintf("above maximum %v", hi))
		}
	}

	if len(field.Enum) > 0 && !inEnum(field, out) {
		return nil, invalid(field.Name, value, "not one of the listed options")
	}
	return out, nil
}

func invalid(name string, value any, reason string) error {
	return fmt.Errorf("%w: %s=%v: %s", ErrInvalidValue, name, value, reason)
}

func inEnum(field pkgmodel.Field, value any) bool {
	for _, option := range field.Enum {
		var (
			candidate any
			err       error
		)
		switch field.Type {
		case pkgmodel.FieldTypeInteger:
			candidate, err = toInt(option)
		case pkgmodel.FieldTypeNumber:
			candidate, err = toFloat(option)
		default:
			candidate = fmt.Sprint(option)
		}
		if err == nil && candidate == value {
			return true
		}
	}
	return false
}

func toInt(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("integer overflow")
		}
		return int64(v), nil
	case float32:
		return integral(float64(v))
	case float64:
		return integral(v)
	case json.Number:
		return parseInt(v.String())
	case string:
		return parseInt(v)
	default:
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
}

func parseInt(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("empty value")
	}
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	return integral(f)
}

func integral(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not a whole number")
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("integer overflow")
	}
	return int64(f), nil
}

func toFloat(value any) (float64, error) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case json.Number:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number")
		}
		f = parsed
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("empty value")
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number")
		}
		f = parsed
	default:
		n, err := toInt(value)
		if err != nil {
			return 0, fmt.Errorf("expected number, got %T", value)
		}
		f = float64(n)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return f, nil
}

func asFloat(value any) float64 {
	switch v := value.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return 0
}
