package main

import (
	"fmt"
	"io"

	"github.com/Vigneshm07/resume-parser/internal/ingestion"
	"github.com/Vigneshm07/resume-parser/internal/pipeline"
	"github.com/spf13/cobra"
)

var parseTextCmd = &cobra.Command{
	Use:   "parse-text",
	Short: "Parse an already extracted text file into ResumeDocument JSON",
	Long:  "Parse a plain text file holding one resume line per line. Blank lines are ignored.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return parseTextFile(parseTextInput, parseTextOutput, cmd.OutOrStdout())
	},
}

var (
	parseTextInput  string
	parseTextOutput string
)

func init() {
	parseTextCmd.Flags().StringVarP(&parseTextInput, "in", "i", "", "Path to the text file")
	parseTextCmd.Flags().StringVarP(&parseTextOutput, "out", "o", "", "Output JSON file (default stdout)")
	_ = parseTextCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(parseTextCmd)
}

func parseTextFile(in, out string, stdout io.Writer) error {
	lines, err := ingestion.IngestFromFile(in)
	if err != nil {
		return err
	}

	doc, err := pipeline.ParseLines(lines)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", in, err)
	}
	return writeDocument(out, doc, stdout)
}
