package model

import internalmodel "github.com/goliatone/go-leadform/internal/model"

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	FieldKindText     = internalmodel.FieldKindText
	FieldKindTextArea = internalmodel.FieldKindTextArea
	FieldKindEmail    = internalmodel.FieldKindEmail
	FieldKindPhone    = internalmodel.FieldKindPhone
	FieldKindNumber   = internalmodel.FieldKindNumber
	FieldKindDate     = internalmodel.FieldKindDate
	FieldKindSelect   = internalmodel.FieldKindSelect
	FieldKindRadio    = internalmodel.FieldKindRadio
	FieldKindURL      = internalmodel.FieldKindURL
	FieldKindZip      = internalmodel.FieldKindZip
)

const (
	ValidationRuleMin       = internalmodel.ValidationRuleMin
	ValidationRuleMax       = internalmodel.ValidationRuleMax
	ValidationRuleMaxLength = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern   = internalmodel.ValidationRulePattern
	ValidationRuleNotPast   = internalmodel.ValidationRuleNotPast
	ValidationRuleOneOf     = internalmodel.ValidationRuleOneOf
)

type ValidationRule = internalmodel.ValidationRule
type Choice = internalmodel.Choice
type Field = internalmodel.Field
type FormDefinition = internalmodel.FormDefinition
type Link = internalmodel.Link
type Office = internalmodel.Office
type ContactPage = internalmodel.ContactPage

// DefaultLabeler derives a sentence-case label from a field name.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
