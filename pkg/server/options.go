package server

import (
	"net/http"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-leadform/pkg/catalog"
	"github.com/goliatone/go-leadform/pkg/lifecycle"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/submission"
)

// Default paths.
const (
	DefaultAssetsPath  = "/assets"
	DefaultOpenAPIPath = "/openapi.json"
	DefaultMetricsPath = "/metrics"
	DefaultHealthPath  = "/healthz"
)

// Options configures a Server. Zero values are replaced by defaults in New.
type Options struct {
	Catalog  *catalog.Catalog
	Renderer render.Renderer
	Gateway  submission.Gateway

	Logger   zerolog.Logger
	Registry *prometheus.Registry
	Tracer   trace.Tracer

	Now      func() time.Time
	Location *time.Location

	Theme          *theme.RendererConfig
	Timings        lifecycle.Timings
	FailureMessage string

	// CSRFKey signs the hidden token on classic form posts. A random key is
	// generated when empty.
	CSRFKey []byte
	// Live enables the websocket session endpoint and the client script.
	Live bool
	// CheckOrigin is handed to the websocket upgrader. Nil allows same
	// origin only.
	CheckOrigin func(r *http.Request) bool
	// MountMetrics serves /metrics on the main router. Disable it when the
	// metrics are exposed on a separate listener.
	MountMetrics bool
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Logger:         zerolog.Nop(),
		Now:            time.Now,
		Location:       time.Local,
		Timings:        lifecycle.DefaultTimings(),
		FailureMessage: lifecycle.DefaultFailureMessage,
		Live:           true,
		MountMetrics:   true,
	}
}

// WithCatalog serves the forms of cat instead of the embedded catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(o *Options) {
		if cat != nil {
			o.Catalog = cat
		}
	}
}

// WithRenderer replaces the HTML renderer. It must also implement
// render.PageRenderer to draw the contact page.
func WithRenderer(r render.Renderer) Option {
	return func(o *Options) {
		if r != nil {
			o.Renderer = r
		}
	}
}

// WithGateway sets the delivery gateway used by both classic posts and live
// sessions.
func WithGateway(g submission.Gateway) Option {
	return func(o *Options) {
		if g != nil {
			o.Gateway = g
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithRegistry collects HTTP metrics into registry and serves it on
// /metrics.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(o *Options) {
		if registry != nil {
			o.Registry = registry
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *Options) {
		if tracer != nil {
			o.Tracer = tracer
		}
	}
}

// WithClock overrides the time source for date rules and submissions.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Now = now
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(o *Options) {
		if loc != nil {
			o.Location = loc
		}
	}
}

func WithTheme(cfg *theme.RendererConfig) Option {
	return func(o *Options) {
		if cfg != nil {
			o.Theme = cfg
		}
	}
}

// WithTimings sets the live session lifecycle delays.
func WithTimings(timings lifecycle.Timings) Option {
	return func(o *Options) {
		o.Timings = timings
	}
}

func WithFailureMessage(message string) Option {
	return func(o *Options) {
		if message != "" {
			o.FailureMessage = message
		}
	}
}

func WithCSRFKey(key []byte) Option {
	return func(o *Options) {
		if len(key) > 0 {
			o.CSRFKey = append([]byte(nil), key...)
		}
	}
}

// WithLive toggles the websocket session endpoint.
func WithLive(enabled bool) Option {
	return func(o *Options) {
		o.Live = enabled
	}
}

func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(o *Options) {
		o.CheckOrigin = fn
	}
}

// WithMountMetrics toggles /metrics on the main router.
func WithMountMetrics(enabled bool) Option {
	return func(o *Options) {
		o.MountMetrics = enabled
	}
}
