// Package align maps the raw, irregular price and rate series onto the
// canonical daily calendar: one representative price per day, rate gaps
// filled per policy, one row per calendar date.
package align

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptotax/price-exporter/calendar"
	"github.com/cryptotax/price-exporter/coingecko"
	"github.com/cryptotax/price-exporter/config"
)

// FillPolicy selects how missing exchange-rate dates are resolved
type FillPolicy int

const (
	// FillForward carries the most recent prior rate into gaps. Dates
	// before the first published rate stay absent.
	FillForward FillPolicy = iota
	// FillNone leaves missing dates absent
	FillNone
)

// ParseFillPolicy maps a configuration name to a FillPolicy
func ParseFillPolicy(name string) (FillPolicy, error) {
	switch name {
	case config.FillPolicyForward:
		return FillForward, nil
	case config.FillPolicyNone:
		return FillNone, nil
	default:
		return FillForward, fmt.Errorf("unknown fill policy %q", name)
	}
}

// Row is one calendar date's combined, possibly-partial record.
// EURPrice is set iff both USDPrice and Rate are set.
type Row struct {
	Date     calendar.Date    `json:"date"`
	USDPrice *decimal.Decimal `json:"usd_price"`
	Rate     *decimal.Decimal `json:"eur_usd_rate"`
	EURPrice *decimal.Decimal `json:"eur_price"`
}

// SelectDaily reduces the raw samples to at most one price per calendar
// date: the sample whose timestamp is closest to 12:00 UTC of its day.
// Ties go to the earlier sample. Duplicate timestamps from adjacent
// fetch windows collapse here for free.
func SelectDaily(samples []coingecko.PriceSample) map[calendar.Date]decimal.Decimal {
	type candidate struct {
		timestamp time.Time
		distance  time.Duration
		price     decimal.Decimal
	}

	best := make(map[calendar.Date]candidate)
	for _, sample := range samples {
		date := calendar.DateOf(sample.Timestamp)

		distance := sample.Timestamp.Sub(date.Noon())
		if distance < 0 {
			distance = -distance
		}

		current, exists := best[date]
		if !exists || distance < current.distance ||
			(distance == current.distance && sample.Timestamp.Before(current.timestamp)) {
			best[date] = candidate{
				timestamp: sample.Timestamp,
				distance:  distance,
				price:     sample.Price,
			}
		}
	}

	selected := make(map[calendar.Date]decimal.Decimal, len(best))
	for date, c := range best {
		selected[date] = c.price
	}
	return selected
}

// FillRates resolves a rate for every calendar date per the policy.
// The dates must be in calendar order for the forward carry to work.
func FillRates(dates []calendar.Date, rates map[calendar.Date]decimal.Decimal, policy FillPolicy) map[calendar.Date]decimal.Decimal {
	if policy == FillNone {
		return rates
	}

	filled := make(map[calendar.Date]decimal.Decimal, len(dates))
	var carried *decimal.Decimal
	for _, date := range dates {
		if rate, ok := rates[date]; ok {
			r := rate
			carried = &r
		}
		if carried != nil {
			filled[date] = *carried
		}
	}
	return filled
}

// Align produces exactly one Row per calendar date, combining the
// selected daily price with the (possibly filled) rate. Absent values
// stay absent; nothing at this layer retries or errors.
func Align(dates []calendar.Date, samples []coingecko.PriceSample, rates map[calendar.Date]decimal.Decimal, policy FillPolicy) []Row {
	prices := SelectDaily(samples)
	resolved := FillRates(dates, rates, policy)

	rows := make([]Row, 0, len(dates))
	for _, date := range dates {
		row := Row{Date: date}
		if price, ok := prices[date]; ok {
			p := price
			row.USDPrice = &p
		}
		if rate, ok := resolved[date]; ok {
			r := rate
			row.Rate = &r
		}
		rows = append(rows, row)
	}
	return rows
}
