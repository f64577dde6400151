package model

import internalmodel "github.com/goliatone/go-churnform/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeInteger = internalmodel.FieldTypeInteger
	FieldTypeNumber  = internalmodel.FieldTypeNumber
)

const (
	ValidationRuleMin = internalmodel.ValidationRuleMin
	ValidationRuleMax = internalmodel.ValidationRuleMax
)

type ValidationRule = internalmodel.ValidationRule
type Field = internalmodel.Field
type FormModel = internalmodel.FormModel
