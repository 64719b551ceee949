package config

import (
	"time"
)

// CoingeckoFetcher defines configuration for the CoinGecko historical price fetcher
type CoingeckoFetcher struct {
	// ChunkDays is the maximum span of a single market_chart/range request.
	// CoinGecko returns daily granularity above 90 days, so a full year is
	// fetched in consecutive windows of at most this many days.
	ChunkDays int `yaml:"chunk_days"`

	// RequestDelay is the minimum pause between consecutive window requests
	RequestDelay time.Duration `yaml:"request_delay"`

	// TTL is the cache lifetime for a fetched yearly price series.
	// Historical data is immutable, the TTL only bounds memory usage.
	TTL time.Duration `yaml:"ttl"`
}

// GetDefaultCoingeckoConfig returns default configuration for the price fetcher
func GetDefaultCoingeckoConfig() CoingeckoFetcher {
	return CoingeckoFetcher{
		ChunkDays:    90,
		RequestDelay: 1500 * time.Millisecond,
		TTL:          24 * time.Hour,
	}
}
