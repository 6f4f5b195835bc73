// Package config provides configuration loading and validation for the CLI and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Session backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config represents settings that can be loaded from a JSON file and overridden from the
// environment. All fields are optional; missing values use Defaults.
type Config struct {
	// Server
	Port           int    `json:"port,omitempty"`
	SessionBackend string `json:"session_backend,omitempty"` // memory, redis or postgres
	SessionTTL     string `json:"session_ttl,omitempty"`     // Go duration, "0" disables expiry
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty"`
	DatabaseURL    string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL       string `json:"redis_url,omitempty"`    // redis:// URL

	// Logging
	LogLevel  string `json:"log_level,omitempty"`  // debug, info, warn, error
	LogFormat string `json:"log_format,omitempty"` // text or json

	// CLI
	Concurrency       int  `json:"concurrency,omitempty"`         // Files parsed in parallel
	SkipPDFValidation bool `json:"skip_pdf_validation,omitempty"` // Read PDFs pdfcpu rejects
	Verbose           bool `json:"verbose,omitempty"`             // Print a summary of each parsed document
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:           8080,
		SessionBackend: BackendMemory,
		SessionTTL:     "24h",
		MaxUploadBytes: 2 << 20,
		LogLevel:       "info",
		LogFormat:      "text",
		Concurrency:    4,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv overlays environment variables onto c: PORT, SESSION_BACKEND, SESSION_TTL,
// MAX_UPLOAD_BYTES, DATABASE_URL, REDIS_URL, LOG_LEVEL and LOG_FORMAT. Unset variables leave
// the field unchanged.
func (c *Config) FromEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_BYTES: %v", err)
		}
		c.MaxUploadBytes = n
	}

	vars := map[string]*string{
		"SESSION_BACKEND": &c.SessionBackend,
		"SESSION_TTL":     &c.SessionTTL,
		"DATABASE_URL":    &c.DatabaseURL,
		"REDIS_URL":       &c.RedisURL,
		"LOG_LEVEL":       &c.LogLevel,
		"LOG_FORMAT":      &c.LogFormat,
	}
	for key, field := range vars {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}

	switch c.SessionBackend {
	case "", BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'redis_url' is required for the redis session backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres session backend")
		}
	default:
		return fmt.Errorf("config error: unknown session backend %q", c.SessionBackend)
	}

	if c.SessionTTL != "" {
		if _, err := c.TTL(); err != nil {
			return err
		}
	}

	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be text or json, got %q", c.LogFormat)
	}

	return nil
}

// TTL parses SessionTTL. An empty value means no expiry.
func (c *Config) TTL() (time.Duration, error) {
	if c.SessionTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid 'session_ttl': %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config error: 'session_ttl' must be non-negative")
	}
	return d, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.SessionBackend == "" {
		result.SessionBackend = defaults.SessionBackend
	}
	if result.SessionTTL == "" {
		result.SessionTTL = defaults.SessionTTL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Load builds the effective configuration: defaults, then the optional JSON file at path,
// then the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.FromEnv(); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
