// Package leadform is the entry point for the lead form engine: the site
// catalog, the HTML renderer and the strict server-side validation, wired
// with their defaults.
package leadform

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-leadform/pkg/catalog"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/vanilla"
	"github.com/goliatone/go-leadform/pkg/server"
	"github.com/goliatone/go-leadform/pkg/validation"
)

// RenderOptions carries the per-request state bound into a rendered form.
type RenderOptions = render.RenderOptions

// FormDefinition parameterises the form engine.
type FormDefinition = model.FormDefinition

// Errors maps a field name to its message.
type Errors = validation.Errors

// Catalog returns the embedded site catalog.
func Catalog() (*catalog.Catalog, error) {
	return catalog.Default()
}

// RenderHTML draws the catalog form formID with the vanilla renderer.
func RenderHTML(ctx context.Context, formID string, options RenderOptions) ([]byte, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	def, err := cat.Get(formID)
	if err != nil {
		return nil, err
	}
	renderer, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, def, options)
}

// RenderContactHTML draws the contact routing page.
func RenderContactHTML(ctx context.Context, options RenderOptions) ([]byte, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	renderer, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	return renderer.RenderContact(ctx, cat.Contact(), options)
}

// Validate applies the strict server-side rules of formID to values.
func Validate(formID string, values map[string]string, opts ...validation.Option) (Errors, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	def, err := cat.Get(formID)
	if err != nil {
		return nil, fmt.Errorf("leadform: %w", err)
	}
	opts = append([]validation.Option{validation.WithMode(validation.ModeStrict)}, opts...)
	return validation.Validate(def, values, opts...), nil
}

// NewServer builds the HTTP surface with the embedded catalog unless
// options say otherwise.
func NewServer(options ...server.Option) (*server.Server, error) {
	return server.New(options...)
}

// EmbeddedTemplates exposes the vanilla renderer templates so callers can
// extend them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet and the live session script.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(leadform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
