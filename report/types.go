// Package report runs the full pipeline for one request: calendar,
// chunked price fetch, rate fetch, alignment, conversion, assembly.
package report

import (
	"fmt"
	"strings"

	"github.com/cryptotax/price-exporter/align"
)

// Params are the validated inputs of one report request
type Params struct {
	// TokenAddress is the token contract address on the chain
	TokenAddress string `json:"token_address"`

	// Chain is the user-facing chain name (see config Chains)
	Chain string `json:"chain"`

	// Year is the report year
	Year int `json:"year"`
}

// Validate checks the non-year inputs; year bounds are the calendar
// generator's concern.
func (p Params) Validate() error {
	if strings.TrimSpace(p.TokenAddress) == "" {
		return fmt.Errorf("token address is required")
	}
	if strings.TrimSpace(p.Chain) == "" {
		return fmt.Errorf("chain is required")
	}
	return nil
}

// Result is a finished report. Warnings carry the partial-failure
// details (skipped fetch windows, failed rate lookups); an empty slice
// means every upstream call succeeded.
type Result struct {
	Params   Params      `json:"params"`
	Rows     []align.Row `json:"rows"`
	Warnings []string    `json:"warnings,omitempty"`
}

// Partial reports whether the result was produced with upstream
// failures absorbed along the way.
func (r *Result) Partial() bool {
	return len(r.Warnings) > 0
}
