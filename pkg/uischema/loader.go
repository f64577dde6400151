package uischema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Presets    map[string][]string      `json:"presets" yaml:"presets"`
	Operations map[string]operationFile `json:"operations" yaml:"operations"`
}

type operationFile struct {
	Form   FormConfig             `json:"form" yaml:"form"`
	Fields map[string]FieldConfig `json:"fields" yaml:"fields"`
}

// LoadFS walks the provided filesystem and parses JSON/YAML UI schema files.
// When fsys is nil or holds no schema files, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{
		operations: make(map[string]Operation),
		presets:    make(map[string][]string),
	}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for name, fields := range doc.Presets {
			key := strings.TrimSpace(name)
			if key == "" {
				return fmt.Errorf("uischema: file %s defines an empty preset name", path)
			}
			if _, exists := store.presets[key]; exists {
				return fmt.Errorf("uischema: duplicate preset %q (file %s)", key, path)
			}
			store.presets[key] = normaliseNames(fields)
		}

		for opID, raw := range doc.Operations {
			id := strings.TrimSpace(opID)
			if id == "" {
				return fmt.Errorf("uischema: file %s defines an empty operation id", path)
			}
			if _, exists := store.operations[id]; exists {
				return fmt.Errorf("uischema: duplicate operation %q (file %s)", id, path)
			}
			store.operations[id] = Operation{
				ID:     id,
				Source: path,
				Form:   raw.Form,
				Fields: raw.Fields,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Operation returns the configuration for the supplied operation id.
func (s *Store) Operation(id string) (Operation, bool) {
	if s == nil {
		return Operation{}, false
	}
	op, ok := s.operations[id]
	return op, ok
}

// Preset returns the visible field list for a named preset.
func (s *Store) Preset(name string) ([]string, bool) {
	if s == nil {
		return nil, false
	}
	fields, ok := s.presets[name]
	return append([]string(nil), fields...), ok
}

// Presets lists the preset names, including the implicit full preset.
func (s *Store) Presets() []string {
	names := []string{PresetFull}
	if s != nil {
		for name := range s.presets {
			if name != PresetFull {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names[1:])
	return names
}

// Empty reports whether the store holds any operations.
func (s *Store) Empty() bool {
	return s == nil || len(s.operations) == 0
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if strings.TrimSpace(string(data)) == "" {
		return documentFile{}, fmt.Errorf("uischema: file %s is empty", source)
	}
	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("uischema: parse %s: %w", source, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("uischema: parse %s: %w", source, err)
	}
	return doc, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func normaliseNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
