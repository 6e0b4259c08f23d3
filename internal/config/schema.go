package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Posture  Posture        `yaml:"posture"`
	Probe    *ProbeOverride `yaml:"probe,omitempty"`
	Network  NetworkConfig  `yaml:"network"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Seed     SeedConfig     `yaml:"seed"`
	Cache    CacheConfig    `yaml:"cache"`
}

// NetworkConfig selects the chain and the API serving it
type NetworkConfig struct {
	// Default is used when a caller names no network
	Default string `yaml:"default"`
	// Endpoints overrides the API base URL per network
	Endpoints map[string]string `yaml:"endpoints,omitempty"`
	// APIKey is sent as x-api-key, usually set through DAOVIEW_API_KEY
	APIKey string `yaml:"api_key,omitempty"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SeedConfig points at the static list of known DAOs
type SeedConfig struct {
	Path  string `yaml:"path,omitempty"`
	Watch bool   `yaml:"watch"`
}

// CacheConfig holds the cache backend and one horizon per data kind
type CacheConfig struct {
	Backend   string   `yaml:"backend"` // memory, redis, none
	RedisURL  string   `yaml:"redis_url,omitempty"`
	Treasury  Duration `yaml:"treasury"`
	Proposals Duration `yaml:"proposals"`
	Details   Duration `yaml:"details"`
}

// ProbeOverride allows overriding posture defaults
type ProbeOverride struct {
	RequestTimeout *Duration `yaml:"request_timeout,omitempty"`
	MaxRetries     *int      `yaml:"max_retries,omitempty"`
	RetryBackoff   *Duration `yaml:"retry_backoff,omitempty"`
	Concurrency    *int      `yaml:"concurrency,omitempty"`
	Trace          bool      `yaml:"trace,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DurationPtr is a helper for building overrides
func DurationPtr(d time.Duration) *Duration {
	v := Duration(d)
	return &v
}
