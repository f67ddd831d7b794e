package openapi

import (
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/validation"
)

// FormSchemaName is the component name of a form's values schema.
func FormSchemaName(formID string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(formID, func(r rune) bool { return r == '-' || r == '_' || r == ' ' }) {
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	b.WriteString("Values")
	return b.String()
}

// formSchema mirrors the strict server-side rules: every value is a
// string, constrained by kind and declarative rules.
func formSchema(def model.FormDefinition) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = def.Title
	schema.Description = def.Summary
	schema.Extensions = map[string]any{"x-leadform-form": def.ID}

	for _, field := range def.Fields {
		schema.WithProperty(field.Name, fieldSchema(field))
		if field.Required {
			schema.Required = append(schema.Required, field.Name)
		}
	}
	return schema
}

func fieldSchema(field model.Field) *openapi3.Schema {
	schema := openapi3.NewStringSchema()
	schema.Title = field.Label
	schema.Description = field.Help
	if field.Default != "" {
		schema.Default = field.Default
	}

	switch field.Kind {
	case model.FieldKindEmail:
		schema.WithFormat("email")
	case model.FieldKindDate:
		schema.WithFormat("date")
	case model.FieldKindURL:
		schema.WithFormat("uri")
	case model.FieldKindPhone:
		schema.WithPattern(validation.PhonePattern)
	case model.FieldKindZip:
		schema.WithPattern(validation.ZipPattern)
	case model.FieldKindNumber:
		schema.WithPattern(validation.IntegerPattern)
	case model.FieldKindTextArea:
		schema.Extensions = map[string]any{"x-leadform-multiline": true}
	}

	if len(field.Choices) > 0 {
		values := make([]any, 0, len(field.Choices))
		for _, choice := range field.Choices {
			values = append(values, choice.Value)
		}
		schema.WithEnum(values...)
	}

	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMaxLength:
			if n, err := strconv.Atoi(rule.Params["value"]); err == nil && n > 0 {
				schema.WithMaxLength(int64(n))
			}
		case model.ValidationRulePattern:
			if pattern := rule.Params["pattern"]; pattern != "" {
				schema.WithPattern(pattern)
			}
		case model.ValidationRuleOneOf:
			var values []any
			for _, v := range strings.Split(rule.Params["values"], ",") {
				if v = strings.TrimSpace(v); v != "" {
					values = append(values, v)
				}
			}
			if len(values) > 0 {
				schema.WithEnum(values...)
			}
		case model.ValidationRuleMin, model.ValidationRuleMax:
			if schema.Extensions == nil {
				schema.Extensions = make(map[string]any)
			}
			schema.Extensions["x-leadform-"+rule.Kind] = rule.Params["value"]
		case model.ValidationRuleNotPast:
			if schema.Extensions == nil {
				schema.Extensions = make(map[string]any)
			}
			schema.Extensions["x-leadform-not-past"] = true
		}
	}
	return schema
}
