package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
	rendertemplate "github.com/goliatone/go-leadform/pkg/render/template"
	gotemplate "github.com/goliatone/go-leadform/pkg/render/template/gotemplate"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	siteName         string
	engineOptions    []gotemplate.Option
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// templates/form.tpl, templates/contact.tpl and the partials they include.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSiteName appends the site name to every page title.
func WithSiteName(name string) Option {
	return func(cfg *config) {
		cfg.siteName = name
	}
}

// WithEngineOptions forwards options (hooks, filters, globals) to the
// default pongo2 engine. Ignored when WithTemplateRenderer is used.
func WithEngineOptions(opts ...gotemplate.Option) Option {
	return func(cfg *config) {
		cfg.engineOptions = append(cfg.engineOptions, opts...)
	}
}

// Renderer draws server-rendered HTML pages for forms and the contact page.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var (
	_ render.Renderer     = (*Renderer)(nil)
	_ render.PageRenderer = (*Renderer)(nil)
)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		opts := append([]gotemplate.Option{
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithSetName("vanilla"),
			gotemplate.WithGlobalData(map[string]any{
				"site": map[string]any{"name": cfg.siteName},
			}),
		}, cfg.engineOptions...)
		engine, err := gotemplate.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the form page for def bound to the state in options.
func (r *Renderer) Render(_ context.Context, def model.FormDefinition, options render.RenderOptions) ([]byte, error) {
	page := r.page(def.Title, options)
	page.Form = buildFormView(def, options)
	return r.execute("templates/form", page)
}

// RenderContact draws the contact routing page.
func (r *Renderer) RenderContact(_ context.Context, contact model.ContactPage, options render.RenderOptions) ([]byte, error) {
	page := r.page(contact.Title, options)
	page.Contact = &contactView{
		Title:   contact.Title,
		Intro:   contact.Intro,
		Links:   contact.Links,
		Offices: contact.Offices,
	}
	return r.execute("templates/contact", page)
}

func (r *Renderer) page(title string, options render.RenderOptions) pageView {
	return pageView{
		Title:      title,
		Hidden:     render.SortedHiddenFields(options.HiddenFields),
		FormErrors: render.MergeFormErrors(options.FormErrors),
		Notice:     options.Notice,
		Theme:      buildThemeView(options.Theme),
		LiveURL:    options.LiveURL,
		Classes:    classes(),
	}
}

func (r *Renderer) execute(name string, page pageView) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	result, err := r.templates.RenderTemplate(name, map[string]any{"page": page})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
