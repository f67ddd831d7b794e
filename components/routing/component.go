package routing

import (
	"net/http"

	"github.com/goliatone/go-leadform/pkg/catalog"
)

// Component bundles the contact routes handler with its configuration and
// mounting helpers.
type Component struct {
	opts Options
}

// New constructs a new component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	opts := NewOptions(fns...)
	return &Component{opts: opts}
}

// FromCatalog serves the contact links of cat.
func FromCatalog(cat *catalog.Catalog, fns ...OptionFn) *Component {
	if cat == nil {
		return New(fns...)
	}
	return New(append([]OptionFn{WithRoutes(cat.Contact().Links)}, fns...)...)
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns the net/http handler for route queries.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	return HandlerWithOptions(c.opts)
}

// RegisterRoutes mounts the handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}
