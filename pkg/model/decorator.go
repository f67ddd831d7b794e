package model

// Decorator adjusts a normalized definition, for example to apply
// deployment-specific labels, before it is served.
type Decorator interface {
	Decorate(*FormDefinition) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormDefinition) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(def *FormDefinition) error {
	return fn(def)
}
