package cache

import "time"

// LoaderFunc loads payloads for keys that were not found in the cache.
// It returns a key->payload map; keys it cannot resolve are simply
// omitted from the result and stay uncached, so the next lookup retries.
type LoaderFunc func(missingKeys []string) (map[string][]byte, error)

// Cache is a time-expiring key-value store fronting the upstream APIs.
type Cache interface {
	// GetOrLoad returns cached payloads for keys, invoking loader for the
	// keys that are missing or expired. Loaded payloads are stored with
	// the given ttl; empty loader results are never cached.
	GetOrLoad(keys []string, loader LoaderFunc, ttl time.Duration) (map[string][]byte, error)

	// Get returns cached payloads and the list of keys not found
	Get(keys []string) (map[string][]byte, []string, error)

	// Set stores payloads with the given ttl; ttl 0 uses the default expiration
	Set(data map[string][]byte, ttl time.Duration) error
}
