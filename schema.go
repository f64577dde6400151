package churnform

import (
	"embed"
	"io/fs"

	pkgopenapi "github.com/goliatone/go-churnform/pkg/openapi"
)

//go:embed schema/*.yaml
var embeddedSchema embed.FS

const (
	// DefaultOperationID is the prediction operation in the embedded schema.
	DefaultOperationID = "predictChurn"
	// SchemaFile names the embedded OpenAPI document inside SchemaFS.
	SchemaFile = "predict.openapi.yaml"
)

// SchemaFS exposes the embedded OpenAPI document.
func SchemaFS() fs.FS {
	sub, err := fs.Sub(embeddedSchema, "schema")
	if err != nil {
		return embeddedSchema
	}
	return sub
}

// SchemaSource points at the embedded document; pair it with a loader
// configured through WithFileSystem(SchemaFS()).
func SchemaSource() pkgopenapi.Source {
	return pkgopenapi.SourceFromFS(SchemaFile)
}
