package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// GoCache is an in-memory TTL cache backed by patrickmn/go-cache.
// go-cache is safe for concurrent use, so no extra locking is needed here.
type GoCache struct {
	cache *cache.Cache
}

// NewGoCache creates a new GoCache instance
func NewGoCache(defaultExpiration, cleanupInterval time.Duration) *GoCache {
	return &GoCache{
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

// GetResult represents the result of a Get operation
type GetResult struct {
	Found       map[string][]byte
	MissingKeys []string
}

// Get retrieves values for the given keys, splitting them into found
// payloads and missing keys. Expired entries count as missing.
func (gc *GoCache) Get(keys []string) GetResult {
	result := GetResult{
		Found:       make(map[string][]byte),
		MissingKeys: make([]string, 0),
	}

	for _, key := range keys {
		value, found := gc.cache.Get(key)
		if !found {
			result.MissingKeys = append(result.MissingKeys, key)
			continue
		}
		if data, ok := value.([]byte); ok {
			result.Found[key] = data
		} else {
			result.MissingKeys = append(result.MissingKeys, key)
		}
	}

	return result
}

// Set stores key-value pairs with the specified ttl.
// A ttl of 0 uses the cache's default expiration.
func (gc *GoCache) Set(data map[string][]byte, ttl time.Duration) {
	for key, value := range data {
		gc.cache.Set(key, value, ttl)
	}
}

// Delete removes entries by key
func (gc *GoCache) Delete(keys []string) {
	for _, key := range keys {
		gc.cache.Delete(key)
	}
}

// Clear removes all entries
func (gc *GoCache) Clear() {
	gc.cache.Flush()
}

// ItemCount returns the number of entries, including not-yet-evicted expired ones
func (gc *GoCache) ItemCount() int {
	return gc.cache.ItemCount()
}
