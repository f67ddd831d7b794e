package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ListenConfig holds the listener settings.
type ListenConfig struct {
	Addr          string
	MetricsAddr   string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	ShutdownGrace time.Duration
}

// ListenAndServe serves the application (and the metrics registry when
// MetricsAddr is set) until ctx is cancelled, then shuts the listeners down
// within ShutdownGrace.
func (s *Server) ListenAndServe(ctx context.Context, cfg ListenConfig) error {
	logger := s.opts.Logger
	servers := []*http.Server{{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return logger.WithContext(context.Background()) },
	}}
	servers[0].RegisterOnShutdown(s.CloseLive)
	if cfg.MetricsAddr != "" {
		servers = append(servers, &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           s.MetricsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			logger.Info().Str("addr", srv.Addr).Msg("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server: listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(logger, cfg.ShutdownGrace, servers)
	})
	return g.Wait()
}

func shutdown(logger zerolog.Logger, grace time.Duration, servers []*http.Server) error {
	if grace <= 0 {
		grace = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	logger.Info().Dur("grace", grace).Msg("shutting down")
	var errs []error
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("server: shutdown %s: %w", srv.Addr, err))
		}
	}
	return errors.Join(errs...)
}
