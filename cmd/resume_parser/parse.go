package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vigneshm07/resume-parser/internal/observability"
	"github.com/Vigneshm07/resume-parser/internal/pipeline"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse PDF or DOCX resumes into ResumeDocument JSON",
	Long: `Validate, extract and parse one or more resume files. Each output validates against the
resume_document schema. A single input is written to --out (or stdout); several inputs
need --out-dir and are processed concurrently.`,
	RunE: runParse,
}

// parseOptions holds the flags of the parse command
type parseOptions struct {
	Inputs            []string
	Output            string
	OutputDir         string
	Concurrency       int
	Verbose           bool
	SkipPDFValidation bool
}

var parseFlags parseOptions

func init() {
	parseCmd.Flags().StringArrayVarP(&parseFlags.Inputs, "in", "i", nil, "Path to a resume file (repeatable)")
	parseCmd.Flags().StringVarP(&parseFlags.Output, "out", "o", "", "Output JSON file (single input only)")
	parseCmd.Flags().StringVar(&parseFlags.OutputDir, "out-dir", "", "Directory for one JSON file per input")
	parseCmd.Flags().IntVar(&parseFlags.Concurrency, "concurrency", 0, "Files parsed in parallel (default from config)")
	parseCmd.Flags().BoolVarP(&parseFlags.Verbose, "verbose", "v", false, "Print a summary of each parsed document")
	parseCmd.Flags().BoolVar(&parseFlags.SkipPDFValidation, "skip-pdf-validation", false, "Read PDFs that fail structural validation")
	_ = parseCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	opts := parseFlags
	if opts.Concurrency == 0 {
		opts.Concurrency = appConfig.Concurrency
	}
	opts.Verbose = opts.Verbose || appConfig.Verbose
	opts.SkipPDFValidation = opts.SkipPDFValidation || appConfig.SkipPDFValidation

	return parseFiles(cmd.Context(), opts, appConfig.MaxUploadBytes, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// parseFiles processes every input and writes one JSON document per success.
// It returns an error when any input failed.
func parseFiles(ctx context.Context, opts parseOptions, maxBytes int64, stdout, stderr io.Writer) error {
	if len(opts.Inputs) == 0 {
		return fmt.Errorf("at least one --in is required")
	}
	if opts.Output != "" && opts.OutputDir != "" {
		return fmt.Errorf("cannot use --out with --out-dir")
	}
	if len(opts.Inputs) > 1 && opts.OutputDir == "" {
		return fmt.Errorf("--out-dir is required with more than one --in")
	}
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	pipelineOpts := pipeline.Options{
		MaxUploadBytes:    maxBytes,
		SkipPDFValidation: opts.SkipPDFValidation,
	}
	if opts.Verbose {
		pipelineOpts.OnProgress = func(e pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(stderr, "[VERBOSE] %s: %s\n", e.Source, e.Message)
		}
	}

	results, err := pipeline.ProcessFiles(ctx, opts.Inputs, opts.Concurrency, pipelineOpts)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(stderr)
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			_, _ = fmt.Fprintf(stderr, "%s: %v\n", res.Path, res.Err)
			continue
		}
		if opts.Verbose {
			printer.PrintDocument(filepath.Base(res.Path), res.Output.Document)
		}

		dest := opts.Output
		if opts.OutputDir != "" {
			dest = filepath.Join(opts.OutputDir, outputName(res.Path))
		}
		if err := writeDocument(dest, res.Output.Document, stdout); err != nil {
			failed++
			_, _ = fmt.Fprintf(stderr, "%s: %v\n", res.Path, err)
			continue
		}
		if dest != "" {
			_, _ = fmt.Fprintf(stderr, "Parsed %s -> %s\n", res.Path, dest)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// outputName maps an input path to "<name>.json"
func outputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

// writeDocument writes v as indented JSON to path, or to stdout when path is empty.
func writeDocument(path string, v any, stdout io.Writer) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonBytes = append(jsonBytes, '\n')

	if path == "" {
		_, err = stdout.Write(jsonBytes)
		return err
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
