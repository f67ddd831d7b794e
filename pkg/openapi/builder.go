package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-leadform/pkg/model"
)

// Operation IDs published by Build.
const (
	OperationListForms         = "listForms"
	OperationGetForm           = "getForm"
	OperationValidateForm      = "validateForm"
	OperationListContactRoutes = "listContactRoutes"
	OperationHealth            = "health"
)

// Option customises the generated document.
type Option func(*config)

type config struct {
	title       string
	version     string
	description string
	servers     []string
}

// WithTitle sets info.title.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if title != "" {
			cfg.title = title
		}
	}
}

// WithVersion sets info.version.
func WithVersion(version string) Option {
	return func(cfg *config) {
		if version != "" {
			cfg.version = version
		}
	}
}

// WithDescription sets info.description.
func WithDescription(description string) Option {
	return func(cfg *config) {
		cfg.description = description
	}
}

// WithServer adds a server URL.
func WithServer(url string) Option {
	return func(cfg *config) {
		if url != "" {
			cfg.servers = append(cfg.servers, url)
		}
	}
}

// Build describes the forms API for defs and validates the result.
func Build(ctx context.Context, defs []model.FormDefinition, opts ...Option) (Document, error) {
	if ctx == nil {
		return Document{}, errors.New("openapi: context is required")
	}
	if len(defs) == 0 {
		return Document{}, errors.New("openapi: at least one form definition is required")
	}
	cfg := config{title: "Lead forms API", version: "1.0.0"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       cfg.title,
			Version:     cfg.version,
			Description: cfg.description,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{},
		},
	}
	for _, url := range cfg.servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: url})
	}

	b := &builder{doc: doc}
	b.sharedSchemas()

	valueRefs := make(openapi3.SchemaRefs, 0, len(defs))
	ids := make([]any, 0, len(defs))
	for _, def := range defs {
		name := FormSchemaName(def.ID)
		if _, exists := doc.Components.Schemas[name]; exists {
			return Document{}, fmt.Errorf("openapi: duplicate form schema %q", name)
		}
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", formSchema(def))
		valueRefs = append(valueRefs, b.ref(name))
		ids = append(ids, def.ID)
	}
	b.paths(valueRefs, ids)

	if err := doc.Validate(ctx); err != nil {
		return Document{}, fmt.Errorf("openapi: validate document: %w", err)
	}
	raw, err := doc.MarshalJSON()
	if err != nil {
		return Document{}, fmt.Errorf("openapi: marshal document: %w", err)
	}
	return NewDocument(raw, b.operations...)
}

type builder struct {
	doc        *openapi3.T
	operations []string
}

func (b *builder) sharedSchemas() {
	schemas := b.doc.Components.Schemas

	schemas["Error"] = openapi3.NewSchemaRef("", openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()))

	summary := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("route", openapi3.NewStringSchema()).
		WithProperty("summary", openapi3.NewStringSchema())
	summary.Required = []string{"id", "title", "route"}
	schemas["FormSummary"] = openapi3.NewSchemaRef("", summary)

	field := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("kind", openapi3.NewStringSchema().WithEnum(
			string(model.FieldKindText), string(model.FieldKindTextArea), string(model.FieldKindEmail),
			string(model.FieldKindPhone), string(model.FieldKindNumber), string(model.FieldKindDate),
			string(model.FieldKindSelect), string(model.FieldKindRadio), string(model.FieldKindURL),
			string(model.FieldKindZip),
		)).
		WithProperty("label", openapi3.NewStringSchema()).
		WithProperty("required", openapi3.NewBoolSchema()).
		WithProperty("default", openapi3.NewStringSchema())
	field.Required = []string{"name", "kind"}
	schemas["Field"] = openapi3.NewSchemaRef("", field)

	definition := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("route", openapi3.NewStringSchema()).
		WithProperty("submitLabel", openapi3.NewStringSchema()).
		WithPropertyRef("fields", arrayOf(b.ref("Field")))
	definition.Required = []string{"id", "title", "route", "fields"}
	schemas["FormDefinition"] = openapi3.NewSchemaRef("", definition)

	link := openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("href", openapi3.NewStringSchema()).
		WithProperty("external", openapi3.NewBoolSchema()).
		WithProperty("icon", openapi3.NewStringSchema())
	link.Required = []string{"title", "href"}
	schemas["ContactRoute"] = openapi3.NewSchemaRef("", link)

	result := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("errors", openapi3.NewObjectSchema().
			WithAdditionalProperties(openapi3.NewStringSchema()))
	result.Required = []string{"message", "errors"}
	schemas["ValidationResult"] = openapi3.NewSchemaRef("", result)
}

func (b *builder) paths(valueRefs openapi3.SchemaRefs, ids []any) {
	formID := openapi3.NewPathParameter("id").
		WithDescription("Form identifier").
		WithSchema(openapi3.NewStringSchema().WithEnum(ids...))

	b.add(http.MethodGet, "/api/forms", OperationListForms, "List the forms", nil, nil,
		map[int]*openapi3.Response{
			http.StatusOK: jsonResponse("Form summaries", dataEnvelope(arrayOf(b.ref("FormSummary")))),
		})

	b.add(http.MethodGet, "/api/forms/{id}", OperationGetForm, "Fetch one form definition",
		openapi3.Parameters{{Value: formID}}, nil,
		map[int]*openapi3.Response{
			http.StatusOK:       jsonResponse("The form definition", dataEnvelope(b.ref("FormDefinition"))),
			http.StatusNotFound: jsonResponse("Unknown form", b.ref("Error")),
		})

	body := openapi3.NewOneOfSchema()
	body.OneOf = valueRefs
	b.add(http.MethodPost, "/api/forms/{id}/validate", OperationValidateForm, "Validate form values",
		openapi3.Parameters{{Value: formID}},
		&openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithDescription("Field values keyed by field name").
			WithJSONSchema(body)},
		map[int]*openapi3.Response{
			http.StatusOK:         jsonResponse("Valid", b.ref("ValidationResult")),
			http.StatusBadRequest: jsonResponse("Validation failed", b.ref("ValidationResult")),
			http.StatusNotFound:   jsonResponse("Unknown form", b.ref("Error")),
		})

	b.add(http.MethodGet, "/api/contact/routes", OperationListContactRoutes, "List the contact page routes", nil, nil,
		map[int]*openapi3.Response{
			http.StatusOK: jsonResponse("Contact routes", dataEnvelope(arrayOf(b.ref("ContactRoute")))),
		})

	b.add(http.MethodGet, "/healthz", OperationHealth, "Liveness check", nil, nil,
		map[int]*openapi3.Response{
			http.StatusOK: openapi3.NewResponse().WithDescription("Serving"),
		})
}

func (b *builder) add(method, path, id, summary string, params openapi3.Parameters, body *openapi3.RequestBodyRef, responses map[int]*openapi3.Response) {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Parameters = params
	op.RequestBody = body

	statuses := make([]openapi3.NewResponsesOption, 0, len(responses))
	for status, response := range responses {
		statuses = append(statuses, openapi3.WithStatus(status, &openapi3.ResponseRef{Value: response}))
	}
	op.Responses = openapi3.NewResponses(statuses...)

	b.doc.AddOperation(path, method, op)
	b.operations = append(b.operations, id)
}

// ref points at a component schema registered earlier. The value is
// attached so the document validates without a loader pass.
func (b *builder) ref(name string) *openapi3.SchemaRef {
	var value *openapi3.Schema
	if existing, ok := b.doc.Components.Schemas[name]; ok && existing != nil {
		value = existing.Value
	}
	return openapi3.NewSchemaRef("#/components/schemas/"+name, value)
}

func arrayOf(items *openapi3.SchemaRef) *openapi3.SchemaRef {
	schema := openapi3.NewArraySchema()
	schema.Items = items
	return openapi3.NewSchemaRef("", schema)
}

func dataEnvelope(data *openapi3.SchemaRef) *openapi3.SchemaRef {
	schema := openapi3.NewObjectSchema().WithPropertyRef("data", data)
	schema.Required = []string{"data"}
	return openapi3.NewSchemaRef("", schema)
}

func jsonResponse(description string, schema *openapi3.SchemaRef) *openapi3.Response {
	return openapi3.NewResponse().WithDescription(description).WithJSONSchemaRef(schema)
}
