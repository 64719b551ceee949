package coingecko

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cryptotax/price-exporter/config"
	"github.com/cryptotax/price-exporter/upstream"
)

const (
	// Base URL for public API
	COINGECKO_PUBLIC_URL = "https://api.coingecko.com"
	// Base URL for Pro API
	COINGECKO_PRO_URL = "https://pro-api.coingecko.com"

	MARKET_CHART_RANGE_PATH_TEMPLATE = "/api/v3/coins/%s/contract/%s/market_chart/range"
)

// MarketChartRangeRequestBuilder builds market_chart/range requests for
// a token contract on an asset platform.
type MarketChartRangeRequestBuilder struct {
	builder *upstream.RequestBuilder
}

func NewMarketChartRangeRequestBuilder(baseURL, platform, contract string) *MarketChartRangeRequestBuilder {
	apiPath := fmt.Sprintf(MARKET_CHART_RANGE_PATH_TEMPLATE, platform, contract)

	rb := &MarketChartRangeRequestBuilder{
		builder: upstream.NewRequestBuilder(baseURL, apiPath),
	}

	rb.WithCurrency("usd")

	return rb
}

func (rb *MarketChartRangeRequestBuilder) WithCurrency(currency string) *MarketChartRangeRequestBuilder {
	if currency != "" {
		rb.builder.With("vs_currency", currency)
	}
	return rb
}

// WithTimeRange sets the window bounds, encoded as epoch seconds
func (rb *MarketChartRangeRequestBuilder) WithTimeRange(from, to time.Time) *MarketChartRangeRequestBuilder {
	rb.builder.With("from", strconv.FormatInt(from.Unix(), 10))
	rb.builder.With("to", strconv.FormatInt(to.Unix(), 10))
	return rb
}

func (rb *MarketChartRangeRequestBuilder) WithApiKey(apiKey string, keyType upstream.KeyType) *MarketChartRangeRequestBuilder {
	rb.builder.WithApiKey(apiKey, keyType)
	return rb
}

func (rb *MarketChartRangeRequestBuilder) Build() (*http.Request, error) {
	return rb.builder.Build()
}

// GetApiBaseUrl returns the API base URL matching the key type,
// honoring test overrides from config.
func GetApiBaseUrl(cfg *config.Config, keyType upstream.KeyType) string {
	if keyType == upstream.ProKey {
		if cfg.OverrideCoingeckoProURL != "" {
			return cfg.OverrideCoingeckoProURL
		}
		return COINGECKO_PRO_URL
	}
	if cfg.OverrideCoingeckoPublicURL != "" {
		return cfg.OverrideCoingeckoPublicURL
	}
	return COINGECKO_PUBLIC_URL
}
