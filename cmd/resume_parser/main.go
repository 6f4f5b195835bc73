// Package main provides the resume_parser command: batch parsing of resume files into
// structured JSON and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/Vigneshm07/resume-parser/internal/config"
	"github.com/Vigneshm07/resume-parser/internal/observability"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	// appConfig is the effective configuration, loaded before any subcommand runs
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "resume_parser",
	Short:         "Parse resumes into structured JSON",
	Long:          "resume_parser extracts the text of PDF and DOCX resumes and turns it into a structured document of contact details, experience, projects and skills, from the command line or over a REST API.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if logFormat != "" {
			cfg.LogFormat = logFormat
		}
		if _, err := observability.Setup(os.Stderr, cfg.LogFormat, cfg.LogLevel); err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
