package cache

import "time"

// Config represents cache configuration
type Config struct {
	GoCache GoCacheConfig `yaml:"go_cache"`
}

// GoCacheConfig configuration for the in-memory go-cache backend
type GoCacheConfig struct {
	// DefaultExpiration applies to entries stored with ttl 0
	DefaultExpiration time.Duration `yaml:"default_expiration"`

	// CleanupInterval is how often expired entries are evicted
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultCacheConfig returns default cache configuration. Both upstream
// APIs serve immutable historical facts, so entries live a full day.
func DefaultCacheConfig() Config {
	return Config{
		GoCache: GoCacheConfig{
			DefaultExpiration: 24 * time.Hour,
			CleanupInterval:   1 * time.Hour,
		},
	}
}
