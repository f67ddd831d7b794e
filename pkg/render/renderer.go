package render

import (
	"context"

	"github.com/goliatone/go-leadform/pkg/model"
)

// Renderer turns a form definition plus its current state into bytes (HTML,
// plain text, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, def model.FormDefinition, options RenderOptions) ([]byte, error)
}

// PageRenderer is implemented by renderers that can also draw the contact
// routing page.
type PageRenderer interface {
	RenderContact(ctx context.Context, page model.ContactPage, options RenderOptions) ([]byte, error)
}
