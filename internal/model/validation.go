package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	errDefinitionIDMissing = errors.New("model: form id is required")
	errDefinitionNoFields  = errors.New("model: form defines no fields")
)

var knownKinds = map[FieldKind]struct{}{
	FieldKindText:     {},
	FieldKindTextArea: {},
	FieldKindEmail:    {},
	FieldKindPhone:    {},
	FieldKindNumber:   {},
	FieldKindDate:     {},
	FieldKindSelect:   {},
	FieldKindRadio:    {},
	FieldKindURL:      {},
	FieldKindZip:      {},
}

func validateDefinition(def FormDefinition) error {
	if def.ID == "" {
		return errDefinitionIDMissing
	}
	if len(def.Fields) == 0 {
		return fmt.Errorf("%w: %q", errDefinitionNoFields, def.ID)
	}

	seen := make(map[string]struct{}, len(def.Fields))
	for _, field := range def.Fields {
		if field.Name == "" {
			return fmt.Errorf("model: form %q has a field without a name", def.ID)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("model: form %q defines field %q twice", def.ID, field.Name)
		}
		seen[field.Name] = struct{}{}

		if err := validateField(field); err != nil {
			return fmt.Errorf("model: form %q field %q: %w", def.ID, field.Name, err)
		}
	}
	return nil
}

func validateField(field Field) error {
	if _, ok := knownKinds[field.Kind]; !ok {
		return fmt.Errorf("unknown kind %q", field.Kind)
	}

	hasChoices := field.Kind == FieldKindSelect || field.Kind == FieldKindRadio
	if hasChoices && len(field.Choices) == 0 {
		return errors.New("choice field requires choices")
	}
	if hasChoices && field.Default != "" && !hasChoice(field.Choices, field.Default) {
		return fmt.Errorf("default %q is not one of the choices", field.Default)
	}

	for _, rule := range field.Validations {
		if err := validateRule(rule); err != nil {
			return err
		}
	}
	return nil
}

func validateRule(rule ValidationRule) error {
	switch rule.Kind {
	case ValidationRuleMin, ValidationRuleMax, ValidationRuleMaxLength:
		raw := rule.Params["value"]
		if _, err := strconv.Atoi(raw); err != nil {
			return fmt.Errorf("rule %s: value %q is not an integer", rule.Kind, raw)
		}
	case ValidationRulePattern:
		pattern := rule.Params["pattern"]
		if pattern == "" {
			return errors.New("rule pattern: pattern is required")
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("rule pattern: %w", err)
		}
	case ValidationRuleNotPast, ValidationRuleOneOf:
	default:
		return fmt.Errorf("unknown rule %q", rule.Kind)
	}
	return nil
}

func hasChoice(choices []Choice, value string) bool {
	for _, choice := range choices {
		if choice.Value == value {
			return true
		}
	}
	return false
}
