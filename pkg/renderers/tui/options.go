package tui

import (
	"io"

	"github.com/goliatone/go-leadform/pkg/forms"
	"github.com/goliatone/go-leadform/pkg/lifecycle"
)

// OutputFormat controls how Render serializes collected values.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits the plain-text submission summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures the prefixes used when printing messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme keeps output readable without ANSI codes.
func DefaultTheme() Theme {
	return Theme{InfoPrefix: "", ErrorPrefix: "! "}
}

// DefaultMaxAttempts bounds re-prompts per field.
const DefaultMaxAttempts = 5

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithOutput sets where notifications and summaries are printed.
func WithOutput(out io.Writer) Option {
	return func(r *Renderer) {
		if out != nil {
			r.out = out
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithMaxAttempts bounds how often one field is re-prompted.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithEngineOptions configures the engine built for each session.
func WithEngineOptions(opts ...forms.Option) Option {
	return func(r *Renderer) {
		r.engineOptions = append(r.engineOptions, opts...)
	}
}

// WithLifecycleOptions configures the controller built for each session,
// typically the gateway and timings.
func WithLifecycleOptions(opts ...lifecycle.Option) Option {
	return func(r *Renderer) {
		r.lifecycleOptions = append(r.lifecycleOptions, opts...)
	}
}
