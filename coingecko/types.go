// Package coingecko fetches a token's historical daily USD prices from
// the CoinGecko market chart API, one bounded time window at a time.
package coingecko

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoData is returned when no window of the requested year produced
// any price sample.
var ErrNoData = errors.New("no price data found")

// PriceSample is one raw price observation. CoinGecko may return
// several samples per calendar day or none at all for sparse tokens.
type PriceSample struct {
	Timestamp time.Time
	Price     decimal.Decimal
}

// RangeParams identifies one market_chart/range request
type RangeParams struct {
	// Platform is the CoinGecko asset platform id (e.g. "ethereum")
	Platform string

	// Contract is the token contract address on that platform
	Contract string

	// Currency to quote prices in
	Currency string

	// From and To bound the requested window, sent as epoch seconds
	From time.Time
	To   time.Time
}

// MarketChartResponse mirrors the market_chart/range payload:
// {"prices": [[epoch_ms, price], ...]}
type MarketChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// Samples converts the raw [epoch_ms, price] pairs into PriceSamples
func (r *MarketChartResponse) Samples() []PriceSample {
	samples := make([]PriceSample, 0, len(r.Prices))
	for _, pair := range r.Prices {
		samples = append(samples, PriceSample{
			Timestamp: time.UnixMilli(int64(pair[0])).UTC(),
			Price:     decimal.NewFromFloat(pair[1]),
		})
	}
	return samples
}
