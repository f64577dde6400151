package churnform

import (
	internalLoader "github.com/goliatone/go-churnform/internal/openapi/loader"
	internalParser "github.com/goliatone/go-churnform/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-churnform/pkg/openapi"
)

// NewLoader constructs a loader that reads the embedded schema by default.
// Later options win, so WithFileSystem can point it elsewhere.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	opts := append([]pkgopenapi.LoaderOption{pkgopenapi.WithFileSystem(SchemaFS())}, options...)
	return internalLoader.New(pkgopenapi.NewLoaderOptions(opts...))
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}
