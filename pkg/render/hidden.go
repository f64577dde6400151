package render

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField is a name/value pair emitted as <input type="hidden">.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden formats value with fmt and pairs it with a normalised name.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: hiddenName(name), Value: fmt.Sprint(value)}
}

// CSRFToken is the hidden field carrying a session's form token.
func CSRFToken(field, token string) HiddenField {
	return Hidden(field, token)
}

// MergeHiddenFields copies base and applies fields on top. Names are
// trimmed, blank names dropped, and later entries win.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for _, field := range SortedHiddenFields(base) {
		out[field.Name] = field.Value
	}
	for _, field := range fields {
		if name := hiddenName(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields lists fields ordered by normalised name. When two keys
// normalise to the same name the one already in trimmed form is kept.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	byName := make(map[string]string, len(fields))
	for key, value := range fields {
		name := hiddenName(key)
		if name == "" {
			continue
		}
		if _, seen := byName[name]; seen && key != name {
			continue
		}
		byName[name] = value
	}
	if len(byName) == 0 {
		return nil
	}

	result := make([]HiddenField, 0, len(byName))
	for name, value := range byName {
		result = append(result, HiddenField{Name: name, Value: value})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func hiddenName(name string) string {
	return strings.TrimSpace(name)
}
