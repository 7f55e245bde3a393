package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/fetch"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/httpclient"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/telemetry"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name             string
		yamlContent      string
		skipFileCreation bool
		wantConfig       *Config
		wantErr          bool
		errMsg           string
	}{
		{
			name: "valid full config",
			yamlContent: `repository: suecharo/yevis-registry
branch: gh-pages
endpoint: https://suecharo.github.io/yevis-registry/
fetch:
  timeout: 30s
  maxTries: 5
server:
  address: 127.0.0.1:9090
telemetry:
  enabled: true
  serviceName: yevis-dev
  tracing:
    enabled: true
    sampling: 0.5
  metrics:
    enabled: true`,
			wantConfig: &Config{
				Repository: "suecharo/yevis-registry",
				Branch:     "gh-pages",
				Endpoint:   "https://suecharo.github.io/yevis-registry/",
				Fetch: FetchConfig{
					Timeout:  "30s",
					MaxTries: 5,
				},
				Server: ServerConfig{
					Address: "127.0.0.1:9090",
				},
				Telemetry: &telemetry.Config{
					Enabled:     true,
					ServiceName: "yevis-dev",
					Tracing: &telemetry.TracingConfig{
						Enabled:  true,
						Sampling: 0.5,
					},
					Metrics: &telemetry.MetricsConfig{
						Enabled: true,
					},
				},
			},
			wantErr: false,
		},
		{
			name:        "empty config falls back to defaults",
			yamlContent: ``,
			wantConfig:  &Config{},
			wantErr:     false,
		},
		{
			name: "repository only",
			yamlContent: `repository: suecharo/yevis-registry
`,
			wantConfig: &Config{
				Repository: "suecharo/yevis-registry",
			},
			wantErr: false,
		},
		{
			name:        "invalid YAML syntax",
			yamlContent: `repository: [unclosed`,
			wantErr:     true,
			errMsg:      "failed to parse YAML config",
		},
		{
			name:        "invalid repository form",
			yamlContent: `repository: not-a-repo`,
			wantErr:     true,
			errMsg:      "expected the form owner/name",
		},
		{
			name:        "relative endpoint",
			yamlContent: `endpoint: /just/a/path`,
			wantErr:     true,
			errMsg:      "endpoint must be an absolute http(s) URL",
		},
		{
			name: "unparseable fetch timeout",
			yamlContent: `fetch:
  timeout: not-a-duration`,
			wantErr: true,
			errMsg:  "fetch.timeout must be a valid duration",
		},
		{
			name: "negative fetch timeout",
			yamlContent: `fetch:
  timeout: -5s`,
			wantErr: true,
			errMsg:  "fetch.timeout must be positive",
		},
		{
			name: "invalid telemetry sampling",
			yamlContent: `telemetry:
  enabled: true
  tracing:
    enabled: true
    sampling: 2.0`,
			wantErr: true,
			errMsg:  "telemetry: tracing: sampling must be between 0.0 and 1.0",
		},
		{
			name:             "missing file",
			skipFileCreation: true,
			wantErr:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath := filepath.Join(t.TempDir(), "config.yml")
			if !tt.skipFileCreation {
				err := os.WriteFile(configPath, []byte(tt.yamlContent), 0600)
				require.NoError(t, err, "failed to write config file")
			}

			cfg, err := LoadConfig(WithConfigPath(configPath))

			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, cfg)
		})
	}
}

func TestLoadConfigRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Empty(t, cfg.Repository)
	assert.Empty(t, cfg.Branch)
	assert.Empty(t, cfg.Endpoint)
	assert.Equal(t, httpclient.DefaultTimeout, cfg.Fetch.GetTimeout())
	assert.Equal(t, uint(fetch.DefaultMaxTries), cfg.Fetch.GetMaxTries())
	assert.Equal(t, DefaultServerAddress, cfg.Server.GetAddress())
	assert.Nil(t, cfg.Telemetry)
}

func TestFetchConfigGetTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   *FetchConfig
		expected time.Duration
	}{
		{
			name:     "nil config returns default",
			config:   nil,
			expected: httpclient.DefaultTimeout,
		},
		{
			name:     "empty timeout returns default",
			config:   &FetchConfig{},
			expected: httpclient.DefaultTimeout,
		},
		{
			name:     "configured timeout",
			config:   &FetchConfig{Timeout: "30s"},
			expected: 30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.config.GetTimeout())
		})
	}
}

func TestFetchConfigGetMaxTries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   *FetchConfig
		expected uint
	}{
		{
			name:     "nil config returns default",
			config:   nil,
			expected: fetch.DefaultMaxTries,
		},
		{
			name:     "zero returns default",
			config:   &FetchConfig{},
			expected: fetch.DefaultMaxTries,
		},
		{
			name:     "configured attempts",
			config:   &FetchConfig{MaxTries: 5},
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.config.GetMaxTries())
		})
	}
}

func TestServerConfigGetAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   *ServerConfig
		expected string
	}{
		{
			name:     "nil config returns default",
			config:   nil,
			expected: DefaultServerAddress,
		},
		{
			name:     "empty address returns default",
			config:   &ServerConfig{},
			expected: DefaultServerAddress,
		},
		{
			name:     "configured address",
			config:   &ServerConfig{Address: "127.0.0.1:9090"},
			expected: "127.0.0.1:9090",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.config.GetAddress())
		})
	}
}

func TestWithConfigPath(t *testing.T) {
	tmpDir := t.TempDir()

	err := os.MkdirAll(filepath.Join(tmpDir, "configs"), 0755)
	require.NoError(t, err, "failed to create subdir")

	configPath := filepath.Join(tmpDir, "config.yaml")
	err = os.WriteFile(configPath, []byte("repository: suecharo/yevis-registry"), 0600)
	require.NoError(t, err, "failed to write config file")

	configPath = filepath.Join(tmpDir, "configs", "app.yaml")
	err = os.WriteFile(configPath, []byte("repository: suecharo/yevis-registry"), 0600)
	require.NoError(t, err, "failed to write config file")

	err = os.Chdir(tmpDir)
	require.NoError(t, err, "failed to change directory")

	tests := []struct {
		name     string
		path     string
		wantPath string
		wantErr  bool
	}{
		{
			name:    "empty path",
			path:    "",
			wantErr: true,
		},
		{
			name:    "path traversal at start",
			path:    "../etc/passwd",
			wantErr: true,
		},
		{
			name:    "path traversal in middle",
			path:    "config/../../etc/passwd",
			wantErr: true,
		},
		{
			name:    "path traversal multiple",
			path:    "a/b/../../../etc/passwd",
			wantErr: true,
		},
		{
			name:     "valid relative path",
			path:     "config.yaml",
			wantPath: "config.yaml",
			wantErr:  false,
		},
		{
			name:     "valid relative path with subdir",
			path:     "configs/app.yaml",
			wantPath: "configs/app.yaml",
			wantErr:  false,
		},
		{
			name:    "absolute path with traversal to missing file",
			path:    "/foo/bar/../../../configs/app.yaml",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := WithConfigPath(tt.path)
			cfg := &loaderConfig{}
			err := opt(cfg)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantPath, cfg.path)
			}
		})
	}
}
