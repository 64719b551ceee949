package cache

import (
	"context"
	"fmt"
	"time"
)

// Service implements the Cache interface over GoCache
type Service struct {
	goCache *GoCache
	config  Config
}

// NewService creates a new cache service with the given configuration
func NewService(config Config) *Service {
	return &Service{
		goCache: NewGoCache(config.GoCache.DefaultExpiration, config.GoCache.CleanupInterval),
		config:  config,
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.goCache == nil {
		return fmt.Errorf("cache service not properly initialized")
	}
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {
	if s.goCache != nil {
		s.goCache.Clear()
	}
}

// GetOrLoad retrieves payloads from the cache, loading only the missing
// keys. Loader failures are returned as-is and nothing is cached for
// them, so a later call retries instead of freezing on a stale absence.
func (s *Service) GetOrLoad(keys []string, loader LoaderFunc, ttl time.Duration) (map[string][]byte, error) {
	if len(keys) == 0 {
		return make(map[string][]byte), nil
	}

	result := s.goCache.Get(keys)
	if len(result.MissingKeys) == 0 {
		return result.Found, nil
	}

	loaded, err := loader(result.MissingKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	if len(loaded) > 0 {
		s.goCache.Set(loaded, ttl)
	}

	for key, value := range loaded {
		result.Found[key] = value
	}
	return result.Found, nil
}

// Get returns cached payloads and the list of missing keys
func (s *Service) Get(keys []string) (map[string][]byte, []string, error) {
	result := s.goCache.Get(keys)
	return result.Found, result.MissingKeys, nil
}

// Set stores payloads with the given ttl
func (s *Service) Set(data map[string][]byte, ttl time.Duration) error {
	s.goCache.Set(data, ttl)
	return nil
}

// Delete removes entries by key
func (s *Service) Delete(keys []string) {
	s.goCache.Delete(keys)
}

// Clear removes all entries
func (s *Service) Clear() {
	s.goCache.Clear()
}

// ItemCount returns the number of cached entries
func (s *Service) ItemCount() int {
	return s.goCache.ItemCount()
}
