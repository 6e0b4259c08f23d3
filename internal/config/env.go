package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"daoview/internal/domain"
)

// Environment overrides
const (
	EnvDefaultNetwork = "DAOVIEW_DEFAULT_NETWORK"
	EnvRedisURL       = "DAOVIEW_REDIS_URL"
	EnvAPIKey         = "DAOVIEW_API_KEY"
	EnvDatabasePath   = "DAOVIEW_DB_PATH"
	EnvSeedPath       = "DAOVIEW_SEED_FILE"
)

// LoadDotEnv loads variables from the given .env files (default ./.env)
// without overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv applies environment overrides. DAOVIEW_DEFAULT_NETWORK accepts
// mainnet or testnet, anything else selects mainnet. Setting DAOVIEW_REDIS_URL
// switches the cache to the redis backend.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvDefaultNetwork); ok {
		c.Network.Default = string(domain.ParseNetwork(v))
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.Backend = "redis"
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Network.APIKey = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvSeedPath); v != "" {
		c.Seed.Path = v
	}
}
