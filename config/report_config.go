package config

import (
	"fmt"
)

// Fill policy names accepted in configuration
const (
	FillPolicyForward = "forward"
	FillPolicyNone    = "none"
)

// ReportSettings defines configuration for report generation
type ReportSettings struct {
	// MinYear and MaxYear bound the requestable report year
	MinYear int `yaml:"min_year"`
	MaxYear int `yaml:"max_year"`

	// PricePrecision is the number of fractional digits for usd_price and
	// eur_price columns. RatePrecision applies to the eur_usd_rate column.
	PricePrecision int32 `yaml:"price_precision"`
	RatePrecision  int32 `yaml:"rate_precision"`

	// FillPolicy selects how missing exchange-rate dates are handled:
	// "forward" carries the most recent prior rate, "none" leaves gaps.
	FillPolicy string `yaml:"fill_policy"`
}

// GetDefaultReportSettings returns default report generation settings
func GetDefaultReportSettings() ReportSettings {
	return ReportSettings{
		MinYear:        2000,
		MaxYear:        2100,
		PricePrecision: 4,
		RatePrecision:  4,
		FillPolicy:     FillPolicyForward,
	}
}

// Validate checks that the settings are usable
func (r ReportSettings) Validate() error {
	if r.MinYear > r.MaxYear {
		return fmt.Errorf("min_year %d greater than max_year %d", r.MinYear, r.MaxYear)
	}
	if r.PricePrecision < 0 || r.RatePrecision < 0 {
		return fmt.Errorf("precision must not be negative")
	}
	switch r.FillPolicy {
	case FillPolicyForward, FillPolicyNone:
	default:
		return fmt.Errorf("unknown fill_policy %q, expected %q or %q",
			r.FillPolicy, FillPolicyForward, FillPolicyNone)
	}
	return nil
}
