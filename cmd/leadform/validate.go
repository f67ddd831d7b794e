package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-leadform/pkg/server"
	"github.com/goliatone/go-leadform/pkg/validation"
)

var errValidationFailed = errors.New("validation failed")

func newValidateCmd(c *cli) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate <form> [field=value...]",
		Short: "Run the strict submission rules against a set of values",
		Example: `  leadform validate inquiry name=Ada email=ada@example.com
  leadform validate schedule-tour --file values.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			def, err := a.catalog.Get(args[0])
			if err != nil {
				return err
			}

			values := map[string]string{}
			if file != "" {
				if values, err = readValues(file); err != nil {
					return err
				}
			}
			for _, arg := range args[1:] {
				name, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("expected field=value, got %q", arg)
				}
				values[name] = value
			}

			errs := validation.Validate(def, values, validation.WithMode(validation.ModeStrict))
			result := server.ValidationResult{Message: server.MessageValid, Errors: errs}
			if !errs.Empty() {
				result.Message = server.MessageInvalid
			}

			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			if !errs.Empty() {
				return fmt.Errorf("%s: %w", def.ID, errValidationFailed)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON object of field values")
	return cmd
}

func readValues(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return values, nil
}
