package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize_FillsDefaults(t *testing.T) {
	def := FormDefinition{
		ID: "general-inquiry",
		Fields: []Field{
			{Name: " firstName ", Required: true},
			{Name: "mobilePhone", Kind: FieldKindPhone},
			{Name: "units", Kind: FieldKindNumber},
			{Name: "state", Kind: FieldKindSelect, Choices: []Choice{{Value: "MD"}}},
		},
	}

	got, err := Normalize(def, Options{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if got.Route != "/general-inquiry" {
		t.Fatalf("route mismatch: %q", got.Route)
	}
	if got.Title != "General inquiry" {
		t.Fatalf("title mismatch: %q", got.Title)
	}
	if got.SubmitLabel != "Submit" || got.SubmittingLabel != "Submitting..." {
		t.Fatalf("labels mismatch: %q / %q", got.SubmitLabel, got.SubmittingLabel)
	}

	want := []Field{
		{Name: "firstName", Kind: FieldKindText, Label: "First name", Required: true},
		{Name: "mobilePhone", Kind: FieldKindPhone, Label: "Mobile phone", Formatter: "phone"},
		{Name: "units", Kind: FieldKindNumber, Label: "Units"},
		{Name: "state", Kind: FieldKindSelect, Label: "State", Choices: []Choice{{Value: "MD", Label: "MD"}}},
	}
	if diff := cmp.Diff(want, got.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	def := FormDefinition{
		ID:              "proposal",
		Route:           "request-proposal/",
		Title:           "Request a proposal",
		SubmittingLabel: "Sending...",
		Fields:          []Field{{Name: "contactEmail", Kind: FieldKindEmail, Label: "Email"}},
	}

	got, err := Normalize(def, Options{SubmitLabel: "Submit Request"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.Route != "/request-proposal" {
		t.Fatalf("route mismatch: %q", got.Route)
	}
	if got.SubmitLabel != "Submit Request" || got.SubmittingLabel != "Sending..." {
		t.Fatalf("labels mismatch: %q / %q", got.SubmitLabel, got.SubmittingLabel)
	}
	if got.Fields[0].Label != "Email" {
		t.Fatalf("label overwritten: %q", got.Fields[0].Label)
	}
}

func TestNormalize_RejectsInvalidDefinitions(t *testing.T) {
	cases := []struct {
		name string
		def  FormDefinition
		want string
	}{
		{"missing id", FormDefinition{Fields: []Field{{Name: "a"}}}, "form id is required"},
		{"no fields", FormDefinition{ID: "x"}, "defines no fields"},
		{"duplicate", FormDefinition{ID: "x", Fields: []Field{{Name: "a"}, {Name: "a"}}}, "defines field \"a\" twice"},
		{"unknown kind", FormDefinition{ID: "x", Fields: []Field{{Name: "a", Kind: "slider"}}}, "unknown kind"},
		{"select without choices", FormDefinition{ID: "x", Fields: []Field{{Name: "a", Kind: FieldKindSelect}}}, "requires choices"},
		{"bad default", FormDefinition{ID: "x", Fields: []Field{{Name: "a", Kind: FieldKindRadio, Default: "maybe", Choices: []Choice{{Value: "yes"}}}}}, "not one of the choices"},
		{"bad rule value", FormDefinition{ID: "x", Fields: []Field{{Name: "a", Validations: []ValidationRule{{Kind: ValidationRuleMax, Params: map[string]string{"value": "ten"}}}}}}, "not an integer"},
		{"bad pattern", FormDefinition{ID: "x", Fields: []Field{{Name: "a", Validations: []ValidationRule{{Kind: ValidationRulePattern, Params: map[string]string{"pattern": "("}}}}}}, "rule pattern"},
		{"unknown rule", FormDefinition{ID: "x", Fields: []Field{{Name: "a", Validations: []ValidationRule{{Kind: "luhn"}}}}}, "unknown rule"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.def, Options{})
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFormDefinition_Defaults(t *testing.T) {
	def := FormDefinition{Fields: []Field{
		{Name: "state", Default: "Maryland"},
		{Name: "city"},
	}}
	want := map[string]string{"state": "Maryland", "city": ""}
	if diff := cmp.Diff(want, def.Defaults()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}
