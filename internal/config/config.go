// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// Source transports.
const (
	TransportDirect = "direct"
	TransportProxy  = "proxy"
)

// Defaults applied by MergeWithDefaults and FromEnv.
const (
	DefaultPort            = 8080
	DefaultBranch          = "main"
	DefaultCacheTTLMinutes = 10
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment or CLI flags.
type Config struct {
	// Source
	Transport   string `json:"transport,omitempty"`    // "direct" or "proxy"
	ProxyURL    string `json:"proxy_url,omitempty"`    // Base URL of a /browse + /content proxy
	GitHubToken string `json:"github_token,omitempty"` // Bearer token for the contents API
	Branch      string `json:"branch,omitempty"`       // Default branch for repository lookups

	// Server
	Port            int      `json:"port,omitempty"`
	DatabaseURL     string   `json:"database_url,omitempty"`      // PostgreSQL connection URL; template store disabled when empty
	CacheTTLMinutes int      `json:"cache_ttl_minutes,omitempty"` // File content cache lifetime
	AllowedOrigins  []string `json:"allowed_origins,omitempty"`   // CORS origins; empty allows any

	// Preview
	PollIntervalMS int  `json:"poll_interval_ms,omitempty"` // Dynamic preview readiness poll interval
	MaxAttempts    int  `json:"max_attempts,omitempty"`     // Dynamic preview readiness poll ceiling
	UseBrowser     bool `json:"use_browser,omitempty"`      // Allow headless Chrome snapshots
	Verbose        bool `json:"verbose,omitempty"`          // Print detailed debug information
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

// FromEnv reads GITHUB_TOKEN, DATABASE_URL, FRAMECRAFT_TRANSPORT,
// FRAMECRAFT_PROXY_URL and PORT.
func FromEnv() (*Config, error) {
	cfg := &Config{
		GitHubToken: os.Getenv("GITHUB_TOKEN"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Transport:   os.Getenv("FRAMECRAFT_TRANSPORT"),
		ProxyURL:    os.Getenv("FRAMECRAFT_PROXY_URL"),
	}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = p
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Transport {
	case "", TransportDirect:
	case TransportProxy:
		if c.ProxyURL == "" {
			return fmt.Errorf("config error: 'proxy_url' is required for the proxy transport")
		}
	default:
		return fmt.Errorf("config error: unknown transport %q (want %q or %q)", c.Transport, TransportDirect, TransportProxy)
	}

	if c.ProxyURL != "" {
		u, err := url.Parse(c.ProxyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: 'proxy_url' must be an absolute URL: %s", c.ProxyURL)
		}
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.CacheTTLMinutes < 0 {
		return fmt.Errorf("config error: 'cache_ttl_minutes' must be non-negative")
	}
	if c.PollIntervalMS < 0 {
		return fmt.Errorf("config error: 'poll_interval_ms' must be non-negative")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("config error: 'max_attempts' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file and environment values beneath CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Transport == "" {
		result.Transport = defaults.Transport
	}
	if result.ProxyURL == "" {
		result.ProxyURL = defaults.ProxyURL
	}
	if result.GitHubToken == "" {
		result.GitHubToken = defaults.GitHubToken
	}
	if result.Branch == "" {
		result.Branch = defaults.Branch
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.CacheTTLMinutes == 0 {
		result.CacheTTLMinutes = defaults.CacheTTLMinutes
	}
	if result.PollIntervalMS == 0 {
		result.PollIntervalMS = defaults.PollIntervalMS
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// WithFallbacks fills anything still unset with the built-in defaults.
func (c Config) WithFallbacks() Config {
	if c.Transport == "" {
		c.Transport = TransportDirect
	}
	if c.Branch == "" {
		c.Branch = DefaultBranch
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.CacheTTLMinutes == 0 {
		c.CacheTTLMinutes = DefaultCacheTTLMinutes
	}
	return c
}
