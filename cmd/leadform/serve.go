package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-leadform/pkg/renderers/vanilla"
	"github.com/goliatone/go-leadform/pkg/server"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the forms, the live sessions and the JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			cfg := a.cfg.Server

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			themeCfg, err := a.theme()
			if err != nil {
				return err
			}

			pages, err := vanilla.New(vanilla.WithSiteName(a.cfg.Theme.SiteName))
			if err != nil {
				return err
			}

			srv, err := server.New(
				server.WithCatalog(a.catalog),
				server.WithRenderer(pages),
				server.WithGateway(a.gateway(registry)),
				server.WithLogger(a.logger),
				server.WithRegistry(registry),
				server.WithTheme(themeCfg),
				server.WithTimings(a.timings()),
				server.WithCSRFKey([]byte(cfg.CSRFKey)),
				server.WithLive(cfg.Live),
				server.WithMountMetrics(cfg.MetricsAddr == ""),
			)
			if err != nil {
				return err
			}

			return srv.ListenAndServe(cmd.Context(), server.ListenConfig{
				Addr:          cfg.Addr,
				MetricsAddr:   cfg.MetricsAddr,
				ReadTimeout:   cfg.ReadTimeout,
				WriteTimeout:  cfg.WriteTimeout,
				ShutdownGrace: cfg.ShutdownGrace,
			})
		},
	}
	cmd.Flags().String("addr", "", "listen address")
	cmd.Flags().String("metrics-addr", "", "separate listener for /metrics")
	cmd.Flags().Bool("live", true, "enable live websocket sessions")
	return cmd
}
