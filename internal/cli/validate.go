package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/gnemet/memgrid"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Schema string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <catalog> [catalog...]",
		Short: "Validate JSON catalogs against the catalog schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "JSON schema file (defaults to the built-in schema)")

	return cmd
}

type validateResult struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions, paths []string) error {
	var schema gojsonschema.JSONLoader
	if opts.Schema != "" {
		abs, err := filepath.Abs(opts.Schema)
		if err != nil {
			return fmt.Errorf("invalid schema path: %w", err)
		}
		schema = gojsonschema.NewReferenceLoader("file://" + abs)
	}

	results := make([]validateResult, 0, len(paths))
	allValid := true
	for _, p := range paths {
		res := validateResult{File: filepath.Base(p), Valid: true}
		data, err := os.ReadFile(p)
		if err == nil {
			if schema != nil {
				err = memgrid.ValidateCatalogWith(schema, data)
			} else {
				err = memgrid.ValidateCatalog(data)
			}
		}
		if err != nil {
			res.Valid = false
			res.Error = err.Error()
			allValid = false
		}
		results = append(results, res)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(out, "✅ %s is valid.\n", r.File)
			} else {
				fmt.Fprintf(out, "❌ %s is invalid!\n   - %s\n", r.File, r.Error)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("%d catalog(s) failed validation", countInvalid(results))
	}
	return nil
}

func countInvalid(results []validateResult) int {
	n := 0
	for _, r := range results {
		if !r.Valid {
			n++
		}
	}
	return n
}
