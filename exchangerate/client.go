package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/cryptotax/price-exporter/calendar"
	"github.com/cryptotax/price-exporter/config"
	"github.com/cryptotax/price-exporter/metrics"
	"github.com/cryptotax/price-exporter/upstream"
)

const (
	// Default base URL of the rate API
	EXCHANGERATE_URL = "https://api.frankfurter.dev"

	baseCurrency   = "USD"
	symbolCurrency = "EUR"
)

// APIClient abstracts the rate API for the rates service
type APIClient interface {
	// FetchRange returns all published daily rates in [from, to]
	FetchRange(ctx context.Context, from, to calendar.Date) ([]RateSample, error)
	// FetchDate returns the rate published for a single date
	FetchDate(ctx context.Context, date calendar.Date) (RateSample, error)
	Healthy() bool
}

// Client implements APIClient against a frankfurter-style API
type Client struct {
	config          *config.Config
	httpClient      *upstream.HTTPClientWithRetries
	successfulFetch atomic.Bool
}

func NewClient(cfg *config.Config, limiters *upstream.RateLimiters) *Client {
	retryOpts := upstream.DefaultRetryOptions()
	retryOpts.LogPrefix = "ExchangeRate"

	metricsWriter := metrics.NewMetricsWriter(metrics.ServiceRates)

	return &Client{
		config:     cfg,
		httpClient: upstream.NewHTTPClientWithRetries(retryOpts, metricsWriter, limiters),
	}
}

func (c *Client) Healthy() bool {
	return c.successfulFetch.Load()
}

func (c *Client) baseURL() string {
	if c.config.OverrideExchangeRateURL != "" {
		return c.config.OverrideExchangeRateURL
	}
	return EXCHANGERATE_URL
}

// FetchRange issues one bulk ranged request for [from, to]. Dates the
// upstream does not publish (weekends, holidays) are simply absent from
// the result.
func (c *Client) FetchRange(ctx context.Context, from, to calendar.Date) ([]RateSample, error) {
	apiPath := fmt.Sprintf("/v1/%s..%s", from, to)

	request, err := upstream.NewRequestBuilder(c.baseURL(), apiPath).
		With("base", baseCurrency).
		With("symbols", symbolCurrency).
		Build()
	if err != nil {
		return nil, err
	}

	_, body, _, err := c.httpClient.ExecuteRequest(request.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	var response TimeSeriesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		log.Printf("ExchangeRate: Error parsing JSON response: %v", err)
		return nil, err
	}

	samples := make([]RateSample, 0, len(response.Rates))
	for dateStr, rates := range response.Rates {
		date, err := calendar.Parse(dateStr)
		if err != nil {
			log.Printf("ExchangeRate: Skipping unparseable date %q", dateStr)
			continue
		}
		rate, ok := rates[symbolCurrency]
		if !ok {
			continue
		}
		samples = append(samples, RateSample{Date: date, Rate: decimal.NewFromFloat(rate)})
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("no %s rates in response for %s..%s", symbolCurrency, from, to)
	}

	c.successfulFetch.Store(true)

	return samples, nil
}

// FetchDate looks up the rate for one date. The upstream answers with
// the most recent published date, which may differ from the requested
// one around weekends; the response date wins.
func (c *Client) FetchDate(ctx context.Context, date calendar.Date) (RateSample, error) {
	apiPath := fmt.Sprintf("/v1/%s", date)

	request, err := upstream.NewRequestBuilder(c.baseURL(), apiPath).
		With("base", baseCurrency).
		With("symbols", symbolCurrency).
		Build()
	if err != nil {
		return RateSample{}, err
	}

	_, body, _, err := c.httpClient.ExecuteRequest(request.WithContext(ctx))
	if err != nil {
		return RateSample{}, err
	}

	var response SingleDayResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return RateSample{}, err
	}

	rate, ok := response.Rates[symbolCurrency]
	if !ok {
		return RateSample{}, fmt.Errorf("no %s rate in response for %s", symbolCurrency, date)
	}

	sampleDate := date
	if parsed, err := calendar.Parse(response.Date); err == nil {
		sampleDate = parsed
	}

	c.successfulFetch.Store(true)

	return RateSample{Date: sampleDate, Rate: decimal.NewFromFloat(rate)}, nil
}
