package format

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Func transforms a raw input value before it is stored.
type Func func(string) string

// Registry stores named formatters referenced by field definitions.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Func)}
}

// DefaultRegistry returns a registry holding the built-in formatters:
// "phone", "digits", "trim" and "sanitize".
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("phone", Phone)
	r.MustRegister("digits", Digits)
	r.MustRegister("trim", strings.TrimSpace)
	r.MustRegister("sanitize", Sanitize)
	return r
}

// Register adds a formatter. Duplicate names return an error.
func (r *Registry) Register(name string, fn Func) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("format: formatter name is required")
	}
	if fn == nil {
		return fmt.Errorf("format: formatter %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[name]; exists {
		return fmt.Errorf("format: formatter %q already registered", name)
	}
	r.formatters[name] = fn
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Get retrieves a formatter by name.
func (r *Registry) Get(name string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.formatters[name]
	if !ok {
		return nil, fmt.Errorf("format: formatter %q not found", name)
	}
	return fn, nil
}

// Apply runs the named formatter, returning value unchanged for an empty
// name.
func (r *Registry) Apply(name, value string) (string, error) {
	if name == "" {
		return value, nil
	}
	fn, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return fn(value), nil
}

// List returns the sorted formatter names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
