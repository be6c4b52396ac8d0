package config

import "time"

// Config is the root configuration structure for scamshield.
// Read from ~/.scamshield/config.json and SCAMSHIELD_* environment variables.
type Config struct {
	API     APIConfig     `mapstructure:"api"     json:"api"     yaml:"api"`
	Feed    FeedConfig    `mapstructure:"feed"    json:"feed"    yaml:"feed"`
	Trends  TrendsConfig  `mapstructure:"trends"  json:"trends"  yaml:"trends"`
	Session SessionConfig `mapstructure:"session" json:"session" yaml:"session"`
}

// APIConfig points the client at the scoring/report backend.
type APIConfig struct {
	// BaseURL is the backend root, e.g. http://127.0.0.1:8000.
	BaseURL string `mapstructure:"base_url" json:"base_url" yaml:"base_url"`
	// Timeout bounds each request. Zero leaves it to the transport.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
}

// FeedConfig controls the live community feed.
type FeedConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" json:"poll_interval" yaml:"poll_interval"`
	Limit        int           `mapstructure:"limit"         json:"limit"         yaml:"limit"`
}

// TrendsConfig controls the trends drill-down.
type TrendsConfig struct {
	DrillDownLimit int `mapstructure:"drill_down_limit" json:"drill_down_limit" yaml:"drill_down_limit"`
}

// SessionConfig names the in-memory session ledger. The ledger lives only as
// long as the process.
type SessionConfig struct {
	Name string `mapstructure:"name" json:"name" yaml:"name"`
}
