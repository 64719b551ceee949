package coingecko

import (
	"context"
	"fmt"
	"log"
	"time"
)

const (
	// Default window span; CoinGecko serves daily granularity above 90 days
	DEFAULT_CHUNK_DAYS = 90
	// Default delay between window requests in milliseconds
	DEFAULT_REQUEST_DELAY = 1500
)

// Window is one bounded sub-range of a year, [From, To) in UTC
type Window struct {
	From time.Time
	To   time.Time
}

// YearWindows partitions Jan 1 through Dec 31 of a year into
// consecutive non-overlapping windows of at most chunkDays days.
// A 365-day year with 90-day windows yields 5 of them (4x90 + 5).
func YearWindows(year, chunkDays int) []Window {
	if chunkDays <= 0 {
		chunkDays = DEFAULT_CHUNK_DAYS
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	totalDays := int(yearEnd.Sub(yearStart).Hours() / 24)

	var windows []Window
	for fromDay := 0; fromDay < totalDays; fromDay += chunkDays {
		toDay := fromDay + chunkDays
		if toDay > totalDays {
			toDay = totalDays
		}
		windows = append(windows, Window{
			From: yearStart.AddDate(0, 0, fromDay),
			To:   yearStart.AddDate(0, 0, toDay),
		})
	}
	return windows
}

// ChunksFetcher retrieves a full year of price samples window by
// window, sequentially, pausing between requests.
type ChunksFetcher struct {
	apiClient    APIClient
	chunkDays    int
	requestDelay time.Duration
}

// NewChunksFetcher creates a new chunks fetcher. A negative delay
// selects the default; zero disables the pause (used in tests).
func NewChunksFetcher(apiClient APIClient, chunkDays int, requestDelayMs int) *ChunksFetcher {
	var requestDelay time.Duration
	if requestDelayMs >= 0 {
		requestDelay = time.Duration(requestDelayMs) * time.Millisecond
	} else {
		requestDelay = DEFAULT_REQUEST_DELAY * time.Millisecond
	}

	if chunkDays <= 0 {
		chunkDays = DEFAULT_CHUNK_DAYS
	}

	return &ChunksFetcher{
		apiClient:    apiClient,
		chunkDays:    chunkDays,
		requestDelay: requestDelay,
	}
}

// FetchYear fetches all price samples for the year. A failed window is
// recorded as a warning and skipped; samples from the remaining windows
// still make up the result. Only when every window comes back empty or
// failed does the fetch report ErrNoData. Duplicate samples at window
// boundaries are kept, the aligner collapses them later.
func (f *ChunksFetcher) FetchYear(ctx context.Context, platform, contract string, year int) ([]PriceSample, []string, error) {
	startTime := time.Now()

	windows := YearWindows(year, f.chunkDays)
	log.Printf("CoingeckoPrices: Fetching %d for %s/%s in %d windows", year, platform, contract, len(windows))

	var samples []PriceSample
	var warnings []string

	for i, window := range windows {
		if i > 0 && f.requestDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, warnings, ctx.Err()
			case <-time.After(f.requestDelay):
			}
		}

		windowStart := time.Now()
		windowSamples, err := f.apiClient.FetchRange(ctx, RangeParams{
			Platform: platform,
			Contract: contract,
			Currency: "usd",
			From:     window.From,
			To:       window.To,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, warnings, ctx.Err()
			}
			warning := fmt.Sprintf("window %d/%d (%s to %s) failed: %v",
				i+1, len(windows),
				window.From.Format("2006-01-02"), window.To.Format("2006-01-02"), err)
			log.Printf("CoingeckoPrices: Warning: %s", warning)
			warnings = append(warnings, warning)
			continue
		}

		log.Printf("CoingeckoPrices: Completed window %d/%d with %d samples in %.2fs",
			i+1, len(windows), len(windowSamples), time.Since(windowStart).Seconds())
		samples = append(samples, windowSamples...)
	}

	if len(samples) == 0 {
		return nil, warnings, ErrNoData
	}

	log.Printf("CoingeckoPrices: Fetched %d samples for %d in %.2fs (%d window warnings)",
		len(samples), year, time.Since(startTime).Seconds(), len(warnings))

	return samples, warnings, nil
}
