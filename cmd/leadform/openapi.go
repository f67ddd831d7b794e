package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-leadform/pkg/openapi"
)

func newOpenAPICmd(c *cli) *cobra.Command {
	var serverURL string
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document for the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			var opts []openapi.Option
			if serverURL != "" {
				opts = append(opts, openapi.WithServer(serverURL))
			}
			doc, err := openapi.Build(cmd.Context(), a.catalog.Forms(), opts...)
			if err != nil {
				return err
			}
			if _, err := a.stdout.Write(doc.Raw()); err != nil {
				return err
			}
			_, err = a.stdout.Write([]byte("\n"))
			return err
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "server URL to advertise")
	return cmd
}
