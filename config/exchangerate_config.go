package config

import (
	"time"
)

// ExchangeRateFetcher defines configuration for the USD/EUR rate fetcher
type ExchangeRateFetcher struct {
	// TTL is the cache lifetime for a fetched yearly rate series
	TTL time.Duration `yaml:"ttl"`

	// RefreshInterval controls the background refresh of the current
	// year's rate series. Zero disables the refresh.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// PerDateFallback enables one-call-per-date fetching when the bulk
	// ranged request fails. Slow, kept as a last resort.
	PerDateFallback bool `yaml:"per_date_fallback"`
}

// GetDefaultExchangeRateConfig returns default configuration for the rate fetcher
func GetDefaultExchangeRateConfig() ExchangeRateFetcher {
	return ExchangeRateFetcher{
		TTL:             24 * time.Hour,
		RefreshInterval: 12 * time.Hour,
		PerDateFallback: true,
	}
}
