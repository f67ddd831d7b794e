package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/goliatone/go-leadform/internal/config"
	"github.com/goliatone/go-leadform/internal/logging"
	"github.com/goliatone/go-leadform/pkg/catalog"
	"github.com/goliatone/go-leadform/pkg/lifecycle"
	"github.com/goliatone/go-leadform/pkg/renderers/vanilla"
	"github.com/goliatone/go-leadform/pkg/submission"
)

// app holds what every command needs once configuration is resolved.
type app struct {
	cfg     config.Config
	logger  zerolog.Logger
	catalog *catalog.Catalog
	stdout  io.Writer
	stderr  io.Writer

	tracer *sdktrace.TracerProvider
}

func newApp(cfg config.Config, stdout, stderr io.Writer) (*app, error) {
	logger, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, catalog: cat, stdout: stdout, stderr: stderr}
	if cfg.Tracing.Enabled {
		// No exporter is attached; sampled spans still put trace IDs into
		// the request logs and propagate to the gateway.
		a.tracer = sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
		otel.SetTracerProvider(a.tracer)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}
	return a, nil
}

func loadCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Dir == "" {
		return catalog.Default()
	}
	cat, err := catalog.LoadFS(os.DirFS(cfg.Dir))
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.Dir, err)
	}
	return cat, nil
}

// gateway builds the delivery stack: the simulated gateway behind the retry
// policy, instrumented when a registry is given.
func (a *app) gateway(registry prometheus.Registerer) submission.Gateway {
	gw := a.cfg.Gateway
	simulated := submission.NewSimulated(
		submission.WithDelay(gw.Delay),
		submission.WithFailureRate(gw.FailureRate, time.Now().UnixNano()),
		submission.WithLogger(a.logger),
		submission.WithDefinitions(a.catalog.Lookup),
	)
	policy := submission.Policy{
		Timeout:         gw.Timeout,
		MaxRetries:      gw.MaxRetries,
		InitialInterval: gw.InitialInterval,
		MaxInterval:     gw.MaxInterval,
		OnRetry: func(err error, wait time.Duration) {
			a.logger.Warn().Err(err).Dur("wait", wait).Msg("retrying submission")
		},
	}
	var attempt submission.Gateway = simulated
	if registry != nil {
		attempt = submission.Instrument(simulated, submission.WithRegistry(registry))
	}
	return submission.WithPolicy(attempt, policy)
}

func (a *app) timings() lifecycle.Timings {
	return lifecycle.Timings{
		NotifyDelay: a.cfg.Lifecycle.NotifyDelay,
		ResetDelay:  a.cfg.Lifecycle.ResetDelay,
	}
}

// theme resolves the configured theme and variant with token overrides.
func (a *app) theme() (*theme.RendererConfig, error) {
	themes, err := vanilla.NewThemes(vanilla.DefaultManifest())
	if err != nil {
		return nil, err
	}
	selection, err := themes.Select(a.cfg.Theme.Name, a.cfg.Theme.Variant)
	if err != nil {
		return nil, err
	}
	return vanilla.RendererConfig(selection, a.cfg.Theme.Tokens), nil
}

func (a *app) close(ctx context.Context) {
	if a.tracer == nil {
		return
	}
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("tracer shutdown")
	}
}
