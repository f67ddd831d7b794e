package template

import (
	"io"

	gotemplate "github.com/goliatone/go-template"
)

// TemplateRenderer follows the github.com/goliatone/go-template engine
// contract, so either engine can back a renderer.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

var _ TemplateRenderer = (*gotemplate.Engine)(nil)
