package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/cryptotax/price-exporter/cache"
	"github.com/cryptotax/price-exporter/config"
	"github.com/cryptotax/price-exporter/metrics"
)

const (
	// Cache key prefix for yearly price series
	PRICE_SERIES_CACHE_PREFIX = "market_chart"
)

// Service provides yearly price series with caching in front of the
// chunked fetcher.
type Service struct {
	cache         cache.Cache
	config        *config.Config
	metricsWriter *metrics.MetricsWriter
	apiClient     APIClient
	fetcher       *ChunksFetcher
}

// NewService creates a new price series service
func NewService(cacheService cache.Cache, cfg *config.Config, apiClient APIClient) *Service {
	fetcher := NewChunksFetcher(apiClient, cfg.Coingecko.ChunkDays,
		int(cfg.Coingecko.RequestDelay/time.Millisecond))

	return &Service{
		cache:         cacheService,
		config:        cfg,
		metricsWriter: metrics.NewMetricsWriter(metrics.ServicePrices),
		apiClient:     apiClient,
		fetcher:       fetcher,
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.cache == nil {
		return fmt.Errorf("cache dependency not provided")
	}
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {}

// Healthy reports whether the upstream client has fetched successfully
func (s *Service) Healthy() bool {
	if s.apiClient != nil {
		return s.apiClient.Healthy()
	}
	return false
}

// YearlyPrices returns all price samples for a token's year, from cache
// when possible. Series fetched with window failures are returned but
// not cached, so a later request retries the failed windows.
func (s *Service) YearlyPrices(ctx context.Context, platform, contract string, year int) ([]PriceSample, []string, error) {
	cacheKey := priceSeriesCacheKey(platform, contract, year)

	cached, _, err := s.cache.Get([]string{cacheKey})
	if err == nil {
		if data, exists := cached[cacheKey]; exists {
			samples, err := decodeSamples(data)
			if err == nil {
				log.Printf("CoingeckoPrices: Returning cached series for %s", cacheKey)
				return samples, nil, nil
			}
			log.Printf("CoingeckoPrices: Failed to decode cached series: %v", err)
		}
	}

	fetchStart := time.Now()
	samples, warnings, err := s.fetcher.FetchYear(ctx, platform, contract, year)
	if err != nil {
		return nil, warnings, err
	}
	s.metricsWriter.RecordFetchCycle(fetchStart)

	if len(warnings) == 0 {
		if err := s.cache.Set(map[string][]byte{cacheKey: encodeSamples(samples)}, s.config.Coingecko.TTL); err != nil {
			log.Printf("CoingeckoPrices: Failed to cache series: %v", err)
		}
	} else {
		log.Printf("CoingeckoPrices: Skipping cache for partial series (%d warnings)", len(warnings))
	}

	return samples, warnings, nil
}

func priceSeriesCacheKey(platform, contract string, year int) string {
	return fmt.Sprintf("%s:%s:%s:%d", PRICE_SERIES_CACHE_PREFIX, platform, contract, year)
}

// Samples are cached in the upstream wire shape, [epoch_ms, price] pairs
func encodeSamples(samples []PriceSample) []byte {
	response := MarketChartResponse{Prices: make([][2]float64, 0, len(samples))}
	for _, sample := range samples {
		response.Prices = append(response.Prices, [2]float64{
			float64(sample.Timestamp.UnixMilli()),
			sample.Price.InexactFloat64(),
		})
	}
	data, _ := json.Marshal(response)
	return data
}

func decodeSamples(data []byte) ([]PriceSample, error) {
	var response MarketChartResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, err
	}
	return response.Samples(), nil
}
