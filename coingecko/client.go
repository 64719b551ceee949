package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/cryptotax/price-exporter/config"
	"github.com/cryptotax/price-exporter/metrics"
	"github.com/cryptotax/price-exporter/upstream"
)

// APIClient abstracts the market chart API for the chunked fetcher
type APIClient interface {
	// FetchRange returns the raw price samples for one bounded window
	FetchRange(ctx context.Context, params RangeParams) ([]PriceSample, error)
	Healthy() bool
}

// CoinGeckoClient implements APIClient against the real API with key
// rotation, retries and rate limiting.
type CoinGeckoClient struct {
	config          *config.Config
	keyManager      *upstream.KeyManager
	httpClient      *upstream.HTTPClientWithRetries
	successfulFetch atomic.Bool
}

func NewCoinGeckoClient(cfg *config.Config, limiters *upstream.RateLimiters) *CoinGeckoClient {
	retryOpts := upstream.DefaultRetryOptions()
	retryOpts.LogPrefix = "CoinGecko-MarketChart"

	metricsWriter := metrics.NewMetricsWriter(metrics.ServicePrices)

	return &CoinGeckoClient{
		config:     cfg,
		keyManager: upstream.NewKeyManager(cfg.APITokens),
		httpClient: upstream.NewHTTPClientWithRetries(retryOpts, metricsWriter, limiters),
	}
}

func (c *CoinGeckoClient) Healthy() bool {
	return c.successfulFetch.Load()
}

// FetchRange fetches one window of price samples. Keys are tried in
// order; a malformed payload fails the window like any fetch error.
func (c *CoinGeckoClient) FetchRange(ctx context.Context, params RangeParams) ([]PriceSample, error) {
	if params.Platform == "" || params.Contract == "" {
		return nil, fmt.Errorf("platform and contract are required")
	}

	executor := func(apiKey upstream.APIKey) (interface{}, bool, error) {
		baseURL := GetApiBaseUrl(c.config, apiKey.Type)

		request, err := NewMarketChartRangeRequestBuilder(baseURL, params.Platform, params.Contract).
			WithCurrency(params.Currency).
			WithTimeRange(params.From, params.To).
			WithApiKey(apiKey.Key, apiKey.Type).
			Build()
		if err != nil {
			log.Printf("CoinGecko-MarketChart: Error building request with key type %v: %v", apiKey.Type, err)
			return nil, false, err
		}

		_, body, _, err := c.httpClient.ExecuteRequest(request.WithContext(ctx))
		if err != nil {
			return nil, false, err
		}

		return body, true, nil
	}

	onFailed := upstream.CreateFailCallback(c.keyManager)

	result, err := upstream.TryWithKeys(c.keyManager.GetAvailableKeys(), "CoinGecko-MarketChart", executor, onFailed)
	if err != nil {
		return nil, err
	}

	var response MarketChartResponse
	if err := json.Unmarshal(result.([]byte), &response); err != nil {
		log.Printf("CoinGecko-MarketChart: Error parsing JSON response: %v", err)
		return nil, err
	}

	c.successfulFetch.Store(true)

	return response.Samples(), nil
}
