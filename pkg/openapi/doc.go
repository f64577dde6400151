// Package openapi exposes the public contracts for loading and parsing the
// prediction API description. The form model, its enum domains and default
// values are all derived from the request schema of the predict operation,
// so the document is the single source of truth for what a FormState holds.
// Implementations live under internal/openapi to keep kin-openapi hidden
// from consumers.
package openapi
