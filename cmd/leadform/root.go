package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-leadform/internal/config"
)

// cli carries the resolved app between the root pre-run hook and the
// subcommands.
type cli struct {
	configFile string
	app        *app
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "leadform",
		Short:         "Serve, fill and inspect the site lead forms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			cfg, err := config.Load(
				config.WithFile(c.configFile),
				config.WithFlag("log.level", flags.Lookup("log-level")),
				config.WithFlag("log.format", flags.Lookup("log-format")),
				config.WithFlag("catalog.dir", flags.Lookup("catalog")),
				config.WithFlag("server.addr", flags.Lookup("addr")),
				config.WithFlag("server.metrics_addr", flags.Lookup("metrics-addr")),
				config.WithFlag("server.live", flags.Lookup("live")),
				config.WithFlag("gateway.delay", flags.Lookup("delay")),
				config.WithFlag("gateway.failure_rate", flags.Lookup("failure-rate")),
				config.WithFlag("theme.variant", flags.Lookup("variant")),
			)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, c.stdout, c.stderr)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if c.app != nil {
				c.app.close(cmd.Context())
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default: leadform.yaml in ., $HOME/.leadform, /etc/leadform)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (json, console)")
	pf.String("catalog", "", "directory of form definitions to use instead of the embedded catalog")
	pf.Duration("delay", 0, "simulated gateway latency")
	pf.Float64("failure-rate", 0, "share of simulated deliveries that fail (0..1)")
	pf.String("variant", "", "theme variant")

	root.AddCommand(
		newServeCmd(c),
		newFillCmd(c),
		newValidateCmd(c),
		newRenderCmd(c),
		newFormsCmd(c),
		newOpenAPICmd(c),
	)
	return root
}
