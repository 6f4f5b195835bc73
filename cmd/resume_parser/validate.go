package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Vigneshm07/resume-parser/internal/observability"
	"github.com/Vigneshm07/resume-parser/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check ResumeDocument JSON files against the schema",
	Long: `Check JSON documents against the built-in ResumeDocument schema, or against the JSON
Schema file given with --schema (looked up from the working directory and its two parents).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return validateFiles(validateInputs, validateSchema, cmd.OutOrStdout())
	},
}

var (
	validateInputs []string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringArrayVarP(&validateInputs, "in", "i", nil, "Path to a JSON document (repeatable)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "JSON Schema file to check against instead of the built-in one")
	_ = validateCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(validateCmd)
}

func validateFiles(paths []string, schemaPath string, out io.Writer) error {
	check := func(_ string, data []byte) error {
		return schemas.ValidateResumeDocumentJSON(data)
	}
	if schemaPath != "" {
		resolved := schemas.ResolveSchemaPath(schemaPath)
		if resolved == "" {
			return fmt.Errorf("schema file not found: %s", schemaPath)
		}
		check = func(path string, _ []byte) error {
			return schemas.ValidateJSON(resolved, path)
		}
	}

	printer := observability.NewPrinter(out)
	invalid := 0

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		err = check(path, data)
		var validationErr *schemas.ValidationError
		switch {
		case err == nil:
		case errors.As(err, &validationErr):
			invalid++
		default:
			// Not JSON at all
			invalid++
			err = fmt.Errorf("could not read document: %w", err)
		}
		printer.PrintValidation(path, err)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d documents are invalid", invalid, len(paths))
	}
	return nil
}
