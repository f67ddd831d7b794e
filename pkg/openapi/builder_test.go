package openapi_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/catalog"
	"github.com/goliatone/go-leadform/pkg/openapi"
	"github.com/goliatone/go-leadform/pkg/validation"
)

func TestBuild_CatalogDocument(t *testing.T) {
	ctx := context.Background()
	doc, err := openapi.Build(ctx, catalog.MustDefault().Forms(), openapi.WithServer("https://forms.example.com"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	wantOps := []string{
		openapi.OperationListForms,
		openapi.OperationGetForm,
		openapi.OperationValidateForm,
		openapi.OperationListContactRoutes,
		openapi.OperationHealth,
	}
	if diff := cmp.Diff(wantOps, doc.Operations()); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}

	loader := openapi3.NewLoader()
	loaded, err := loader.LoadFromData(doc.Raw())
	if err != nil {
		t.Fatalf("load generated document: %v", err)
	}
	if err := loaded.Validate(ctx); err != nil {
		t.Fatalf("validate generated document: %v", err)
	}
	if loaded.Info.Title != "Lead forms API" {
		t.Errorf("unexpected title %q", loaded.Info.Title)
	}
	if len(loaded.Servers) != 1 || loaded.Servers[0].URL != "https://forms.example.com" {
		t.Errorf("unexpected servers %+v", loaded.Servers)
	}

	validate := loaded.Paths.Value("/api/forms/{id}/validate")
	if validate == nil || validate.Post == nil {
		t.Fatalf("validate operation missing")
	}
	body := validate.Post.RequestBody.Value.Content.Get("application/json")
	if body == nil || len(body.Schema.Value.OneOf) != 3 {
		t.Fatalf("expected one values schema per form in the request body")
	}
	if validate.Post.Responses.Status(400) == nil {
		t.Errorf("expected a 400 response")
	}
}

func TestBuild_ProposalSchema(t *testing.T) {
	ctx := context.Background()
	doc, err := openapi.Build(ctx, catalog.MustDefault().Forms())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	loaded, err := openapi3.NewLoader().LoadFromData(doc.Raw())
	if err != nil {
		t.Fatalf("load generated document: %v", err)
	}

	ref, ok := loaded.Components.Schemas[openapi.FormSchemaName("proposal")]
	if !ok {
		t.Fatalf("proposal schema missing")
	}
	schema := ref.Value

	for _, name := range []string{"communityName", "contactEmail", "deadlineDate", "zipCode"} {
		if !contains(schema.Required, name) {
			t.Errorf("expected %s to be required", name)
		}
	}
	if contains(schema.Required, "boardPresidentInfo") {
		t.Errorf("boardPresidentInfo is optional")
	}

	zip := schema.Properties["zipCode"].Value
	if zip.Pattern != validation.ZipPattern {
		t.Errorf("unexpected zip pattern %q", zip.Pattern)
	}
	if email := schema.Properties["contactEmail"].Value; email.Format != "email" {
		t.Errorf("unexpected email format %q", email.Format)
	}
	name := schema.Properties["communityName"].Value
	if name.MaxLength == nil || *name.MaxLength != 1000 {
		t.Errorf("expected communityName maxLength 1000, got %v", name.MaxLength)
	}
	state := schema.Properties["state"].Value
	if diff := cmp.Diff([]any{"Maryland", "Virginia", "DC"}, state.Enum); diff != "" {
		t.Errorf("state enum mismatch (-want +got):\n%s", diff)
	}
	if state.Default != "Maryland" {
		t.Errorf("unexpected state default %v", state.Default)
	}
}

func TestBuild_RequiresDefinitions(t *testing.T) {
	if _, err := openapi.Build(context.Background(), nil); err == nil {
		t.Fatalf("expected error without definitions")
	}
}

func TestFormSchemaName(t *testing.T) {
	cases := map[string]string{
		"proposal":               "ProposalValues",
		"contractor-application": "ContractorApplicationValues",
		"general_inquiry":        "GeneralInquiryValues",
	}
	for id, want := range cases {
		if got := openapi.FormSchemaName(id); got != want {
			t.Errorf("FormSchemaName(%q) = %q, want %q", id, got, want)
		}
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
