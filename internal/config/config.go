// Package config provides configuration management for daoview.
//
// Config file locations (priority order):
//  1. $DAOVIEW_CONFIG
//  2. ./daoview.yaml
//  3. <user config dir>/daoview/config.yaml (os.UserConfigDir)
//  4. /etc/daoview/config.yaml
//
// Environment variables, optionally loaded from a .env file, override the
// file. See ApplyEnv.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"daoview/internal/domain"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "DAOVIEW_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "daoview.yaml"
)

// ErrConfigExists is returned by WriteDefault when it would overwrite a file
var ErrConfigExists = errors.New("config file already exists")

// Default cache horizons per data kind
const (
	DefaultTreasuryTTL  = 60 * time.Second
	DefaultProposalsTTL = 30 * time.Second
	DefaultDetailsTTL   = 120 * time.Second
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		cfg.ApplyEnv()
		return cfg, "", nil
	}

	cfg, path, err := LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	cfg.ApplyEnv()
	return cfg, path, nil
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to path, creating its directory
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// WriteDefault saves DefaultConfig to path, or to UserConfigPath when path
// is empty, and returns where it was written. An existing file is kept
// unless force is set.
func WriteDefault(path string, force bool) (string, error) {
	if path == "" {
		path = UserConfigPath()
	}
	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return path, fmt.Errorf("stat config: %w", err)
	}

	if err := DefaultConfig().Save(path); err != nil {
		return path, err
	}
	return path, nil
}

// searchPaths lists candidate config files, most specific first
func searchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, ConfigFileName)
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "daoview", "config.yaml"))
	}
	return append(paths, "/etc/daoview/config.yaml")
}

// FindConfigPath returns the first existing file from the search order in
// the package doc, or "" when there is none
func FindConfigPath() string {
	for _, p := range searchPaths() {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return ""
}

// UserConfigPath is where `daoview config init` writes by default
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ConfigFileName
	}
	return filepath.Join(dir, "daoview", "config.yaml")
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	c.Posture = ParsePosture(string(c.Posture))
	c.Network.Default = string(domain.ParseNetwork(c.Network.Default))
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./daoview.db"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.Treasury == 0 {
		c.Cache.Treasury = Duration(DefaultTreasuryTTL)
	}
	if c.Cache.Proposals == 0 {
		c.Cache.Proposals = Duration(DefaultProposalsTTL)
	}
	if c.Cache.Details == 0 {
		c.Cache.Details = Duration(DefaultDetailsTTL)
	}
}

// DefaultNetwork returns the network used when callers name none
func (c *Config) DefaultNetwork() domain.Network {
	return domain.ParseNetwork(c.Network.Default)
}

// Endpoints returns the API base URL per network, configured entries
// replacing the public defaults
func (c *Config) Endpoints(defaults map[domain.Network]string) map[domain.Network]string {
	endpoints := make(map[domain.Network]string, len(defaults))
	for network, url := range defaults {
		endpoints[network] = url
	}
	for name, url := range c.Network.Endpoints {
		network := domain.Network(name)
		if network.Valid() && url != "" {
			endpoints[network] = url
		}
	}
	return endpoints
}

// EffectiveProbe returns the posture profile with overrides applied
func (c *Config) EffectiveProbe() ProbeProfile {
	base := c.Posture.GetProfile()

	if c.Probe == nil {
		return base
	}

	if c.Probe.RequestTimeout != nil {
		base.RequestTimeout = c.Probe.RequestTimeout.Duration()
	}
	if c.Probe.MaxRetries != nil {
		base.MaxRetries = *c.Probe.MaxRetries
	}
	if c.Probe.RetryBackoff != nil {
		base.RetryBackoff = c.Probe.RetryBackoff.Duration()
	}
	if c.Probe.Concurrency != nil {
		base.Concurrency = *c.Probe.Concurrency
	}
	base.Trace = c.Probe.Trace

	return base
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	probe := c.EffectiveProbe()

	summary := fmt.Sprintf("Network: %s, Posture: %s\n", c.DefaultNetwork(), c.Posture)
	summary += fmt.Sprintf("Timeout: %s, Retries: %d, Concurrency: %d\n",
		probe.RequestTimeout, probe.MaxRetries, probe.Concurrency)
	summary += fmt.Sprintf("Cache: %s (treasury %s, proposals %s, details %s)",
		c.Cache.Backend, c.Cache.Treasury.Duration(), c.Cache.Proposals.Duration(), c.Cache.Details.Duration())

	return summary
}
