package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-leadform/pkg/model"
)

//go:embed definitions/*.yaml
var embedded embed.FS

// Definitions exposes the embedded definition files.
func Definitions() fs.FS {
	sub, err := fs.Sub(embedded, "definitions")
	if err != nil {
		panic(err)
	}
	return sub
}

// Catalog is an immutable set of form definitions plus the contact page.
type Catalog struct {
	forms   map[string]model.FormDefinition
	routes  map[string]string
	contact model.ContactPage
}

type document struct {
	Form    *model.FormDefinition `json:"form" yaml:"form"`
	Contact *model.ContactPage    `json:"contact" yaml:"contact"`
}

// Option configures loading.
type Option func(*loader)

type loader struct {
	normalizer model.Normalizer
	decorators []model.Decorator
}

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n model.Normalizer) Option {
	return func(l *loader) {
		if n != nil {
			l.normalizer = n
		}
	}
}

// WithDecorators runs decorators over every normalized definition, in order.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(l *loader) {
		l.decorators = append(l.decorators, decorators...)
	}
}

// LoadFS walks fsys and parses every .yaml, .yml and .json file. Duplicate
// form IDs or routes and more than one contact page are errors.
func LoadFS(fsys fs.FS, opts ...Option) (*Catalog, error) {
	l := &loader{normalizer: model.NewNormalizer()}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	cat := &Catalog{
		forms:  make(map[string]model.FormDefinition),
		routes: make(map[string]string),
	}
	if fsys == nil {
		return cat, nil
	}

	var contactFile string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		switch {
		case doc.Form != nil && doc.Contact != nil:
			return fmt.Errorf("catalog: file %s defines both a form and a contact page", path)
		case doc.Form != nil:
			return l.addForm(cat, *doc.Form, path)
		case doc.Contact != nil:
			if contactFile != "" {
				return fmt.Errorf("catalog: contact page defined in %s and %s", contactFile, path)
			}
			contactFile = path
			cat.contact = *doc.Contact
			return nil
		default:
			return fmt.Errorf("catalog: file %s defines neither a form nor a contact page", path)
		}
	})
	if err != nil {
		return nil, err
	}

	if err := cat.checkLinks(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Default returns the embedded site catalog.
func Default(opts ...Option) (*Catalog, error) {
	return LoadFS(Definitions(), opts...)
}

// MustDefault is Default for init-time wiring.
func MustDefault() *Catalog {
	cat, err := Default()
	if err != nil {
		panic(err)
	}
	return cat
}

func (l *loader) addForm(cat *Catalog, raw model.FormDefinition, path string) error {
	def, err := l.normalizer.Normalize(raw)
	if err != nil {
		return fmt.Errorf("catalog: %s: %w", path, err)
	}
	for _, decorator := range l.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&def); err != nil {
			return fmt.Errorf("catalog: decorate %s: %w", def.ID, err)
		}
	}

	if _, exists := cat.forms[def.ID]; exists {
		return fmt.Errorf("catalog: duplicate form %q (file %s)", def.ID, path)
	}
	if other, exists := cat.routes[def.Route]; exists {
		return fmt.Errorf("catalog: route %s used by %q and %q", def.Route, other, def.ID)
	}
	cat.forms[def.ID] = def
	cat.routes[def.Route] = def.ID
	return nil
}

// checkLinks ensures every internal contact link points to a loaded form.
func (c *Catalog) checkLinks() error {
	for _, link := range c.contact.Links {
		if link.External || strings.Contains(link.Href, "://") {
			continue
		}
		if _, ok := c.routes[link.Href]; !ok {
			return fmt.Errorf("catalog: contact link %q points to unknown route %s", link.Title, link.Href)
		}
	}
	return nil
}

// Get returns the definition with the given ID.
func (c *Catalog) Get(id string) (model.FormDefinition, error) {
	def, ok := c.forms[strings.TrimSpace(id)]
	if !ok {
		return model.FormDefinition{}, fmt.Errorf("%w: %q", ErrFormNotFound, id)
	}
	return def, nil
}

// Lookup is Get without the error, convenient as a definitions resolver.
func (c *Catalog) Lookup(id string) (model.FormDefinition, bool) {
	def, ok := c.forms[id]
	return def, ok
}

// ByRoute returns the definition served at route.
func (c *Catalog) ByRoute(route string) (model.FormDefinition, error) {
	id, ok := c.routes[route]
	if !ok {
		return model.FormDefinition{}, fmt.Errorf("%w: route %s", ErrFormNotFound, route)
	}
	return c.forms[id], nil
}

// IDs returns the form IDs in order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.forms))
	for id := range c.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Forms returns every definition ordered by ID.
func (c *Catalog) Forms() []model.FormDefinition {
	out := make([]model.FormDefinition, 0, len(c.forms))
	for _, id := range c.IDs() {
		out = append(out, c.forms[id])
	}
	return out
}

// Contact returns the contact routing page.
func (c *Catalog) Contact() model.ContactPage {
	return c.contact
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func parseDocument(data []byte, path string) (document, error) {
	var doc document
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return document{}, fmt.Errorf("catalog: parse %s: %w", path, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return doc, nil
}
