package model

import (
	"strings"
)

// Normalize returns a copy of def with labels, routes and formatter names
// filled in, then validates the result.
func Normalize(def FormDefinition, opts Options) (FormDefinition, error) {
	defaults := DefaultOptions()
	if opts.Labeler == nil {
		opts.Labeler = defaults.Labeler
	}
	if opts.SubmitLabel == "" {
		opts.SubmitLabel = defaults.SubmitLabel
	}
	if opts.SubmittingLabel == "" {
		opts.SubmittingLabel = defaults.SubmittingLabel
	}
	if opts.SuccessMessage == "" {
		opts.SuccessMessage = defaults.SuccessMessage
	}

	out := def
	out.ID = strings.TrimSpace(def.ID)
	out.Title = strings.TrimSpace(def.Title)
	if out.Title == "" {
		out.Title = opts.Labeler(out.ID)
	}
	out.Route = normalizeRoute(def.Route, out.ID)
	out.SubmitLabel = firstNonEmpty(def.SubmitLabel, opts.SubmitLabel)
	out.SubmittingLabel = firstNonEmpty(def.SubmittingLabel, opts.SubmittingLabel)
	out.SuccessMessage = firstNonEmpty(def.SuccessMessage, opts.SuccessMessage)
	out.Metadata = cloneStrings(def.Metadata)

	out.Fields = make([]Field, 0, len(def.Fields))
	for _, field := range def.Fields {
		out.Fields = append(out.Fields, normalizeField(field, opts.Labeler))
	}

	if err := validateDefinition(out); err != nil {
		return FormDefinition{}, err
	}
	return out, nil
}

func normalizeField(field Field, labeler func(string) string) Field {
	out := field
	out.Name = strings.TrimSpace(field.Name)
	if out.Kind == "" {
		out.Kind = FieldKindText
	}
	out.Label = strings.TrimSpace(field.Label)
	if out.Label == "" {
		out.Label = labeler(out.Name)
	}
	if out.Formatter == "" {
		out.Formatter = defaultFormatter(out.Kind)
	}

	if len(field.Choices) > 0 {
		out.Choices = make([]Choice, len(field.Choices))
		for i, choice := range field.Choices {
			choice.Value = strings.TrimSpace(choice.Value)
			if strings.TrimSpace(choice.Label) == "" {
				choice.Label = choice.Value
			}
			out.Choices[i] = choice
		}
	}
	if len(field.Validations) > 0 {
		out.Validations = make([]ValidationRule, len(field.Validations))
		for i, rule := range field.Validations {
			rule.Kind = strings.TrimSpace(rule.Kind)
			rule.Params = cloneStrings(rule.Params)
			out.Validations[i] = rule
		}
	}
	out.Metadata = cloneStrings(field.Metadata)
	return out
}

// defaultFormatter names the entry formatter applied on change.
func defaultFormatter(kind FieldKind) string {
	switch kind {
	case FieldKindPhone:
		return "phone"
	default:
		return ""
	}
}

func normalizeRoute(route, id string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		route = id
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
	}
	return route
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func cloneStrings(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
