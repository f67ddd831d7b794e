package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-leadform/pkg/forms"
	"github.com/goliatone/go-leadform/pkg/lifecycle"
	"github.com/goliatone/go-leadform/pkg/notify"
	"github.com/goliatone/go-leadform/pkg/renderers/tui"
)

func newFillCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "fill <form>",
		Short: "Fill a form in the terminal and submit it",
		Long: `Prompts for every field, validating as you go, then runs the same
submission lifecycle as the site: the gateway call, the outcome
notification and the reset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			def, err := a.catalog.Get(args[0])
			if err != nil {
				return err
			}

			r, err := tui.New(
				tui.WithOutput(a.stdout),
				tui.WithLifecycleOptions(
					lifecycle.WithGateway(a.gateway(nil)),
					lifecycle.WithNotifier(notify.Multi(
						notify.NewWriterNotifier(a.stdout),
						notify.NewLogNotifier(a.logger),
					)),
					lifecycle.WithTimings(a.timings()),
					lifecycle.WithLogger(a.logger),
				),
			)
			if err != nil {
				return err
			}

			outcome, err := r.Fill(cmd.Context(), def)
			switch {
			case errors.Is(err, tui.ErrAborted):
				fmt.Fprintln(a.stdout, "Cancelled.")
				return nil
			case errors.Is(err, forms.ErrFormEmpty):
				return fmt.Errorf("%s: nothing to submit", def.ID)
			case err != nil:
				return err
			}
			a.logger.Info().
				Str("form", def.ID).
				Str("submission_id", outcome.Submission.ID).
				Int("attempts", outcome.Receipt.Attempts).
				Msg("submitted from terminal")
			return nil
		},
	}
}
