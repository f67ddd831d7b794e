package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/goliatone/go-leadform/components/routing"
	"github.com/goliatone/go-leadform/pkg/catalog"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/openapi"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/vanilla"
	"github.com/goliatone/go-leadform/pkg/submission"
)

// Server serves the catalog forms. Build it with New and mount Handler.
type Server struct {
	opts     Options
	catalog  *catalog.Catalog
	renderer render.Renderer
	pages    render.PageRenderer
	gateway  submission.Gateway
	tokens   *tokens
	metrics  *httpMetrics
	openapi  openapi.Document
	assets   fs.FS
	upgrader websocket.Upgrader
	router   chi.Router

	liveMu sync.Mutex
	live   map[*liveSession]context.CancelFunc
}

// New resolves defaults (embedded catalog, vanilla renderer, simulated
// gateway behind the default retry policy) and builds the router.
func New(options ...Option) (*Server, error) {
	opts := defaultOptions()
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	if opts.Catalog == nil {
		cat, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("server: load catalog: %w", err)
		}
		opts.Catalog = cat
	}
	if opts.Renderer == nil {
		r, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		opts.Renderer = r
	}
	pages, ok := opts.Renderer.(render.PageRenderer)
	if !ok {
		return nil, fmt.Errorf("server: renderer %q cannot draw the contact page", opts.Renderer.Name())
	}
	if opts.Theme == nil {
		opts.Theme = vanilla.DefaultRendererConfig()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	if opts.Gateway == nil {
		simulated := submission.NewSimulated(
			submission.WithLogger(opts.Logger),
			submission.WithDefinitions(opts.Catalog.Lookup),
		)
		opts.Gateway = submission.WithPolicy(
			submission.Instrument(simulated, submission.WithRegistry(opts.Registry)),
			submission.DefaultPolicy(),
		)
	}

	tok, err := newTokens(opts.CSRFKey, opts.Now)
	if err != nil {
		return nil, err
	}
	doc, err := openapi.Build(context.Background(), opts.Catalog.Forms())
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s := &Server{
		opts:     opts,
		catalog:  opts.Catalog,
		renderer: opts.Renderer,
		pages:    pages,
		gateway:  opts.Gateway,
		tokens:   tok,
		metrics:  newHTTPMetrics(opts.Registry),
		openapi:  doc,
		assets:   vanilla.AssetsFS(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     opts.CheckOrigin,
		},
		live: make(map[*liveSession]context.CancelFunc),
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the application router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// MetricsHandler exposes the Prometheus registry, for hosts that serve it on
// a separate listener.
func (s *Server) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{Registry: s.opts.Registry})
}

// OpenAPI returns the API description served at /openapi.json.
func (s *Server) OpenAPI() openapi.Document {
	return s.openapi
}

func (s *Server) routes() error {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(tracing(s.opts.Tracer))
	r.Use(requestLogger(s.opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get("/", s.handleContact)
	r.Get("/contact-us", s.handleContact)
	for _, def := range s.catalog.Forms() {
		id := def.ID
		r.Get(def.Route, s.handleFormPage(id))
		r.Post(def.Route, s.handleFormPost(id))
	}
	if s.opts.Live {
		r.Get("/forms/{id}/live", s.handleLive)
	}

	r.Get("/api/forms", s.handleListForms)
	r.Get("/api/forms/{id}", s.handleGetForm)
	r.Post("/api/forms/{id}/validate", s.handleValidate)
	if _, err := routing.FromCatalog(s.catalog).RegisterRoutes(r, ""); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	r.Get(DefaultOpenAPIPath, s.handleOpenAPI)
	r.Get(DefaultHealthPath, s.handleHealth)
	if s.opts.MountMetrics {
		r.Handle(DefaultMetricsPath, s.MetricsHandler())
	}
	r.Handle(DefaultAssetsPath+"/*", http.StripPrefix(DefaultAssetsPath+"/", http.FileServer(http.FS(s.assets))))

	s.router = r
	return nil
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.openapi.Raw())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) lookup(id string) (model.FormDefinition, error) {
	def, err := s.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrFormNotFound) {
			return model.FormDefinition{}, StatusError{Code: http.StatusNotFound, Err: err}
		}
		return model.FormDefinition{}, err
	}
	return def, nil
}
