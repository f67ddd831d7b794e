package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/validation"
)

func TestMapErrorPayload(t *testing.T) {
	def := model.FormDefinition{
		ID: "contractor-application",
		Fields: []model.Field{
			{Name: "companyName", Kind: model.FieldKindText},
			{Name: "zipCode", Kind: model.FieldKindZip},
			{Name: "reference1Phone", Kind: model.FieldKindPhone},
			{Name: "email", Kind: model.FieldKindEmail},
		},
	}

	payload := map[string][]string{
		"/body/companyName":        {"Company name is required"},
		"zip_code":                 {"Please enter a valid zip code (format: 12345 or 12345-6789)"},
		"$.values.reference1Phone": {"Reference 1 phone must be in format XXX-XXX-XXXX", " "},
		"email":                    {"Please enter a valid email address", "Please enter a valid email address"},
		"non_field_errors":         {"Try again later"},
		"request/body/unknown":     {"Should fall back to form errors"},
		"":                         {"Unscoped form error"},
	}

	mapped := render.MapErrorPayload(def, payload)

	wantFields := map[string][]string{
		"companyName":     {"Company name is required"},
		"zipCode":         {"Please enter a valid zip code (format: 12345 or 12345-6789)"},
		"reference1Phone": {"Reference 1 phone must be in format XXX-XXX-XXXX"},
		"email":           {"Please enter a valid email address"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Should fall back to form errors", "Try again later", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}

	wantErrors := validation.Errors{
		"companyName":     "Company name is required",
		"zipCode":         "Please enter a valid zip code (format: 12345 or 12345-6789)",
		"reference1Phone": "Reference 1 phone must be in format XXX-XXX-XXXX",
		"email":           "Please enter a valid email address",
	}
	if diff := cmp.Diff(wantErrors, mapped.FieldErrors()); diff != "" {
		t.Fatalf("field error map mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	mapped := render.MapErrorPayload(model.FormDefinition{}, nil)
	if mapped.Fields != nil || mapped.Form != nil {
		t.Fatalf("expected empty mapping, got %+v", mapped)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
