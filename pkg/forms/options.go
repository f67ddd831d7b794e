package forms

import (
	"time"

	"github.com/goliatone/go-leadform/pkg/format"
	"github.com/goliatone/go-leadform/pkg/validation"
)

// Option configures an Engine.
type Option func(*config)

type config struct {
	formatters *format.Registry
	validation []validation.Option
	now        func() time.Time
	location   *time.Location
}

// WithFormatters overrides the formatter registry used by change handlers.
func WithFormatters(registry *format.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.formatters = registry
		}
	}
}

// WithValidation appends validation options (for example strict mode).
func WithValidation(opts ...validation.Option) Option {
	return func(cfg *config) {
		cfg.validation = append(cfg.validation, opts...)
	}
}

// WithClock overrides the time source used for date limits and rules.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		if now != nil {
			cfg.now = now
		}
	}
}

// WithLocation sets the zone in which calendar days are compared.
func WithLocation(loc *time.Location) Option {
	return func(cfg *config) {
		if loc != nil {
			cfg.location = loc
		}
	}
}
