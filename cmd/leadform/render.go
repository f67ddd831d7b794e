package main

import (
	"fmt"
	"os"
	"strings"

	gotemplatepkg "github.com/goliatone/go-template"
	"github.com/spf13/cobra"
	"github.com/yosssi/gohtml"

	"github.com/goliatone/go-leadform/pkg/lifecycle"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-leadform/pkg/renderers/tui"
	"github.com/goliatone/go-leadform/pkg/renderers/vanilla"
)

// contactTarget names the routing page for render.
const contactTarget = "contact"

func newRenderCmd(c *cli) *cobra.Command {
	var (
		rendererName string
		format       string
		pretty       bool
		output       string
	)
	cmd := &cobra.Command{
		Use:   "render <form|contact>",
		Short: "Render a form with one of the registered renderers",
		Long: `The vanilla renderer writes the HTML page (or the contact page).
The tui renderer prompts for every field and prints the collected values
in --format without submitting them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			registry, err := a.renderers(tui.OutputFormat(format), pretty)
			if err != nil {
				return err
			}
			renderer, err := registry.Get(rendererName)
			if err != nil {
				return fmt.Errorf("%w (have %s)", err, strings.Join(registry.List(), ", "))
			}
			themeCfg, err := a.theme()
			if err != nil {
				return err
			}
			opts := render.RenderOptions{Theme: themeCfg}

			var out []byte
			if args[0] == contactTarget {
				pages, ok := renderer.(render.PageRenderer)
				if !ok {
					return fmt.Errorf("renderer %q cannot draw the contact page", renderer.Name())
				}
				out, err = pages.RenderContact(cmd.Context(), a.catalog.Contact(), opts)
			} else {
				def, lookupErr := a.catalog.Get(args[0])
				if lookupErr != nil {
					return lookupErr
				}
				out, err = renderer.Render(cmd.Context(), def, opts)
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}
			if output == "" || output == "-" {
				_, err = a.stdout.Write(out)
				return err
			}
			return os.WriteFile(output, out, 0o644)
		},
	}
	cmd.Flags().StringVarP(&rendererName, "renderer", "r", "vanilla", "renderer to use (vanilla, tui)")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "tui value format (json, form, pretty)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent HTML output")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

// renderers registers the HTML renderer and the terminal renderer.
func (a *app) renderers(format tui.OutputFormat, pretty bool) (*render.Registry, error) {
	registry := render.NewRegistry()

	htmlOpts := []vanilla.Option{vanilla.WithSiteName(a.cfg.Theme.SiteName)}
	if pretty {
		htmlOpts = append(htmlOpts, vanilla.WithEngineOptions(gotemplate.WithPostHooks(indentHTML)))
	}
	html, err := vanilla.New(htmlOpts...)
	if err != nil {
		return nil, err
	}
	terminal, err := tui.New(
		tui.WithOutput(a.stdout),
		tui.WithOutputFormat(format),
		tui.WithLifecycleOptions(lifecycle.WithLogger(a.logger)),
	)
	if err != nil {
		return nil, err
	}
	for _, r := range []render.Renderer{html, terminal} {
		if err := registry.Register(r); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func indentHTML(ctx *gotemplatepkg.HookContext) (string, error) {
	return gohtml.Format(ctx.Output), nil
}
