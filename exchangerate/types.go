// Package exchangerate fetches the historical USD/EUR daily reference
// rate series. The upstream publishes ECB rates, which skip weekends
// and holidays; gap handling belongs to the aligner, not this package.
package exchangerate

import (
	"github.com/shopspring/decimal"

	"github.com/cryptotax/price-exporter/calendar"
)

// RateSample is one daily USD/EUR observation. Rate is EUR per 1 USD.
type RateSample struct {
	Date calendar.Date
	Rate decimal.Decimal
}

// TimeSeriesResponse mirrors the bulk ranged endpoint payload:
// {"base": "USD", "rates": {"2023-01-02": {"EUR": 0.9355}, ...}}
type TimeSeriesResponse struct {
	Base  string                        `json:"base"`
	Rates map[string]map[string]float64 `json:"rates"`
}

// SingleDayResponse mirrors the single-date endpoint payload:
// {"base": "USD", "date": "2023-06-01", "rates": {"EUR": 0.9312}}
type SingleDayResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}
