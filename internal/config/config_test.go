package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Feed.PollInterval)
	assert.Equal(t, 10, cfg.Feed.Limit)
	assert.Equal(t, 20, cfg.Trends.DrillDownLimit)
	assert.Equal(t, DefaultSession, cfg.Session.Name)
}

func TestLoadReadsFileAndEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"api":{"base_url":"https://scamshield.example/"},"feed":{"poll_interval":"30s","limit":5}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("SCAMSHIELD_TRENDS_DRILL_DOWN_LIMIT", "50")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://scamshield.example", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Feed.PollInterval)
	assert.Equal(t, 5, cfg.Feed.Limit)
	assert.Equal(t, 50, cfg.Trends.DrillDownLimit)
}

func TestLoadEnvironmentOverridesBaseURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SCAMSHIELD_API_BASE_URL", "http://10.0.0.5:9000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.API.BaseURL)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SCAMSHIELD_FEED_LIMIT=3\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SCAMSHIELD_FEED_LIMIT") })

	cfg, err := Load(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Feed.Limit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"relative base url", func(c *Config) { c.API.BaseURL = "/api" }, "api.base_url"},
		{"ftp base url", func(c *Config) { c.API.BaseURL = "ftp://host" }, "api.base_url"},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, "api.timeout"},
		{"sub-second poll", func(c *Config) { c.Feed.PollInterval = 500 * time.Millisecond }, "feed.poll_interval"},
		{"zero feed limit", func(c *Config) { c.Feed.Limit = 0 }, "feed.limit"},
		{"zero drill-down limit", func(c *Config) { c.Trends.DrillDownLimit = 0 }, "trends.drill_down_limit"},
		{"blank session", func(c *Config) { c.Session.Name = " " }, "session.name"},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.API.BaseURL = "https://api.scamshield.example"
	cfg.API.Timeout = 15 * time.Second
	cfg.Feed.PollInterval = 20 * time.Second
	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
