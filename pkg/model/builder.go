package model

import (
	"github.com/goliatone/go-churnform/internal/model"
	pkgopenapi "github.com/goliatone/go-churnform/pkg/openapi"
)

// Builder converts the prediction operation into a form model.
type Builder interface {
	Build(op pkgopenapi.Operation) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*model.Options)

// WithLabeler overrides the label used for properties without a title.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *model.Options) {
		opts.Labeler = labeler
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	opts := model.Options{}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	return model.New(opts)
}
