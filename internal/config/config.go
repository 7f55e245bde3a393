// Package config provides configuration loading for the yevis CLI.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/fetch"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/githost"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/httpclient"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/telemetry"
)

const (
	// EnvPrefix is the prefix of the environment variables mirrored onto
	// CLI flags (YEVIS_CONFIG and friends).
	EnvPrefix = "YEVIS"

	// DefaultServerAddress is the address the preview server listens on
	// when not configured otherwise.
	DefaultServerAddress = ":8080"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Repository is the default target registry repository as "owner/name".
	// A --repository flag still overrides it.
	Repository string `yaml:"repository,omitempty"`

	// Branch overrides the branch registry documents are published to.
	// Empty means the repository's Pages branch is discovered at publish time.
	Branch string `yaml:"branch,omitempty"`

	// Endpoint overrides the TRS endpoint the previously published registry
	// is loaded from. Empty derives the GitHub Pages URL of the target
	// repository.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Fetch tunes remote content retrieval
	Fetch FetchConfig `yaml:"fetch,omitempty"`

	// Server configures the preview server
	Server ServerConfig `yaml:"server,omitempty"`

	// Telemetry configures optional OpenTelemetry instrumentation
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// FetchConfig tunes remote content retrieval
type FetchConfig struct {
	// Timeout is the per-request timeout as a Go duration string (e.g. "10s")
	Timeout string `yaml:"timeout,omitempty"`

	// MaxTries is the number of attempts per URL, including the first
	MaxTries uint `yaml:"maxTries,omitempty"`
}

// ServerConfig configures the preview server
type ServerConfig struct {
	// Address is the listen address (e.g. ":8080", "127.0.0.1:9090")
	Address string `yaml:"address,omitempty"`
}

// Default returns the configuration used when no config file is supplied.
// Every value falls back to its getter default.
func Default() *Config {
	return &Config{}
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	// As of now, this is required because there's no other options to load
	// configuration. Once we add more options, we can remove this check.
	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetTimeout returns the fetch timeout, using the HTTP client default when
// not configured. Validation guarantees the configured value parses.
func (f *FetchConfig) GetTimeout() time.Duration {
	if f == nil || f.Timeout == "" {
		return httpclient.DefaultTimeout
	}
	timeout, err := time.ParseDuration(f.Timeout)
	if err != nil {
		return httpclient.DefaultTimeout
	}
	return timeout
}

// GetMaxTries returns the fetch attempt count, using the fetcher default
// when not configured
func (f *FetchConfig) GetMaxTries() uint {
	if f == nil || f.MaxTries == 0 {
		return fetch.DefaultMaxTries
	}
	return f.MaxTries
}

// GetAddress returns the preview server address, using the default when not
// configured
func (s *ServerConfig) GetAddress() string {
	if s == nil || s.Address == "" {
		return DefaultServerAddress
	}
	return s.Address
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if c.Repository != "" {
		if _, err := githost.ParseRepository(c.Repository); err != nil {
			return fmt.Errorf("repository: %w", err)
		}
	}

	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("endpoint must be an absolute http(s) URL, got %q", c.Endpoint)
		}
	}

	if c.Fetch.Timeout != "" {
		timeout, err := time.ParseDuration(c.Fetch.Timeout)
		if err != nil {
			return fmt.Errorf("fetch.timeout must be a valid duration (e.g. '10s', '1m'): %w", err)
		}
		if timeout <= 0 {
			return fmt.Errorf("fetch.timeout must be positive, got %s", timeout)
		}
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	return nil
}
