package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"transport": "proxy",
		"proxy_url": "https://proxy.example.com/api/github",
		"port": 9090,
		"allowed_origins": ["https://builder.example.com"],
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, TransportProxy, cfg.Transport)
	assert.Equal(t, "https://proxy.example.com/api/github", cfg.ProxyURL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://builder.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("DATABASE_URL", "postgres://localhost/framecraft")
	t.Setenv("FRAMECRAFT_TRANSPORT", "proxy")
	t.Setenv("FRAMECRAFT_PROXY_URL", "http://localhost:8080")
	t.Setenv("PORT", "3000")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "ghp_test", cfg.GitHubToken)
	assert.Equal(t, "postgres://localhost/framecraft", cfg.DatabaseURL)
	assert.Equal(t, TransportProxy, cfg.Transport)
	assert.Equal(t, "http://localhost:8080", cfg.ProxyURL)
	assert.Equal(t, 3000, cfg.Port)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "invalid PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty config", cfg: Config{}},
		{name: "direct", cfg: Config{Transport: TransportDirect}},
		{name: "proxy with url", cfg: Config{Transport: TransportProxy, ProxyURL: "https://p.example.com"}},
		{name: "proxy without url", cfg: Config{Transport: TransportProxy}, wantErr: "'proxy_url' is required"},
		{name: "relative proxy url", cfg: Config{ProxyURL: "/api"}, wantErr: "must be an absolute URL"},
		{name: "unknown transport", cfg: Config{Transport: "carrier-pigeon"}, wantErr: "unknown transport"},
		{name: "port out of range", cfg: Config{Port: 70000}, wantErr: "'port' out of range"},
		{name: "negative ttl", cfg: Config{CacheTTLMinutes: -1}, wantErr: "cache_ttl_minutes"},
		{name: "negative attempts", cfg: Config{MaxAttempts: -5}, wantErr: "max_attempts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	flags := Config{Port: 9000, Verbose: true}
	fileCfg := Config{
		Port:           8081,
		Transport:      TransportProxy,
		ProxyURL:       "https://p.example.com",
		AllowedOrigins: []string{"https://a.example.com"},
		MaxAttempts:    50,
	}

	merged := flags.MergeWithDefaults(fileCfg)
	assert.Equal(t, 9000, merged.Port, "flag value wins")
	assert.Equal(t, TransportProxy, merged.Transport)
	assert.Equal(t, "https://p.example.com", merged.ProxyURL)
	assert.Equal(t, []string{"https://a.example.com"}, merged.AllowedOrigins)
	assert.Equal(t, 50, merged.MaxAttempts)
	assert.True(t, merged.Verbose)
}

func TestWithFallbacks(t *testing.T) {
	cfg := Config{}.WithFallbacks()
	assert.Equal(t, TransportDirect, cfg.Transport)
	assert.Equal(t, DefaultBranch, cfg.Branch)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultCacheTTLMinutes, cfg.CacheTTLMinutes)

	kept := Config{Port: 1234, Branch: "develop"}.WithFallbacks()
	assert.Equal(t, 1234, kept.Port)
	assert.Equal(t, "develop", kept.Branch)
}
