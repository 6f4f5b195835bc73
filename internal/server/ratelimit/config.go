package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // Buckets unused for this long are dropped
	Allowlist       map[string]bool
	Blocklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the built-in limits.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Allowlist:       map[string]bool{},
		Blocklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Uploads extract and parse a whole document
		{Path: "/resumes", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/resumes/parse", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Session writes
		{Path: "/sessions/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/sessions/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/sessions/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},

		// Reads use the default limit; GET /health is unlimited (see MatchEndpoint)
	}
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom reads RATE_LIMIT_* settings through getenv. Malformed values keep the default.
func LoadConfigFrom(getenv func(string) string) *Config {
	env := envReader(getenv)
	cfg := DefaultConfig()

	cfg.Enabled = env.bool("RATE_LIMIT_ENABLED", cfg.Enabled)
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}

	cfg.DefaultLimit = env.int("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = env.duration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = env.duration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.IdleTTL = env.duration("RATE_LIMIT_IDLE_TTL", cfg.IdleTTL)
	cfg.Allowlist = parseIPList(getenv("RATE_LIMIT_ALLOWLIST"))
	cfg.Blocklist = parseIPList(getenv("RATE_LIMIT_BLOCKLIST"))

	if n := env.int("RATE_LIMIT_UPLOAD_LIMIT", 0); n > 0 {
		for i := range cfg.EndpointConfigs {
			if cfg.EndpointConfigs[i].Path == "/resumes" {
				cfg.EndpointConfigs[i].Limit = n
			}
		}
	}
	return cfg
}

type envReader func(string) string

func (e envReader) int(key string, def int) int {
	if n, err := strconv.Atoi(e(key)); err == nil {
		return n
	}
	return def
}

func (e envReader) bool(key string, def bool) bool {
	if b, err := strconv.ParseBool(e(key)); err == nil {
		return b
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(e(key)); err == nil {
		return d
	}
	return def
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
