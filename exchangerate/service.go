package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptotax/price-exporter/cache"
	"github.com/cryptotax/price-exporter/calendar"
	"github.com/cryptotax/price-exporter/config"
	"github.com/cryptotax/price-exporter/scheduler"
)

const (
	// Cache key prefix for yearly rate series
	RATE_SERIES_CACHE_PREFIX = "fx_daily"
)

// Service provides per-date USD/EUR rates with caching in front of the
// rate API. The bulk ranged request is the primary path; the one-call-
// per-date fallback only runs when the bulk request fails and the
// fallback is enabled.
type Service struct {
	cache     cache.Cache
	config    *config.Config
	apiClient APIClient
	refresher *scheduler.Scheduler
	calGen    *calendar.Generator
}

// NewService creates a new rates service
func NewService(cacheService cache.Cache, cfg *config.Config, apiClient APIClient) *Service {
	return &Service{
		cache:     cacheService,
		config:    cfg,
		apiClient: apiClient,
		calGen:    calendar.NewGenerator(cfg.Report.MinYear, cfg.Report.MaxYear),
	}
}

// Start implements core.Interface. It launches the background refresh
// of the current year's series when a refresh interval is configured.
func (s *Service) Start(ctx context.Context) error {
	if s.cache == nil {
		return fmt.Errorf("cache dependency not provided")
	}

	if interval := s.config.ExchangeRate.RefreshInterval; interval > 0 {
		s.refresher = scheduler.New(interval, func(taskCtx context.Context) {
			s.refreshCurrentYear(taskCtx)
		})
		s.refresher.Start(ctx, false)
	}

	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {
	if s.refresher != nil {
		s.refresher.Stop()
	}
}

// Healthy reports whether the upstream client has fetched successfully
func (s *Service) Healthy() bool {
	if s.apiClient != nil {
		return s.apiClient.Healthy()
	}
	return false
}

// RatesForYear returns the published USD/EUR rates for the year, keyed
// by date. Gaps stay absent. Failures degrade to warnings and a
// smaller (possibly empty) map, never an error: a report without rates
// still has full calendar coverage.
func (s *Service) RatesForYear(ctx context.Context, year int) (map[calendar.Date]decimal.Decimal, []string, error) {
	cacheKey := rateSeriesCacheKey(year)

	cached, _, err := s.cache.Get([]string{cacheKey})
	if err == nil {
		if data, exists := cached[cacheKey]; exists {
			rates, err := decodeRates(data)
			if err == nil {
				log.Printf("ExchangeRate: Returning cached series for %s", cacheKey)
				return rates, nil, nil
			}
			log.Printf("ExchangeRate: Failed to decode cached series: %v", err)
		}
	}

	rates, warnings := s.fetchYear(ctx, year)

	if len(rates) > 0 && len(warnings) == 0 {
		if err := s.cache.Set(map[string][]byte{cacheKey: encodeRates(rates)}, s.config.ExchangeRate.TTL); err != nil {
			log.Printf("ExchangeRate: Failed to cache series: %v", err)
		}
	}

	return rates, warnings, nil
}

func (s *Service) fetchYear(ctx context.Context, year int) (map[calendar.Date]decimal.Decimal, []string) {
	from := calendar.Date{Year: year, Month: time.January, Day: 1}
	to := calendar.Date{Year: year, Month: time.December, Day: 31}

	samples, err := s.apiClient.FetchRange(ctx, from, to)
	if err == nil {
		rates := make(map[calendar.Date]decimal.Decimal, len(samples))
		for _, sample := range samples {
			rates[sample.Date] = sample.Rate
		}
		return rates, nil
	}

	warnings := []string{fmt.Sprintf("bulk rate fetch for %d failed: %v", year, err)}
	log.Printf("ExchangeRate: Warning: %s", warnings[0])

	if !s.config.ExchangeRate.PerDateFallback || ctx.Err() != nil {
		return map[calendar.Date]decimal.Decimal{}, warnings
	}

	return s.fetchYearPerDate(ctx, year, warnings)
}

// fetchYearPerDate is the slow path: one request per calendar day.
// Individual failures leave that date absent and are summarized in a
// single warning instead of one per day.
func (s *Service) fetchYearPerDate(ctx context.Context, year int, warnings []string) (map[calendar.Date]decimal.Decimal, []string) {
	dates, err := s.calGen.Dates(year)
	if err != nil {
		return map[calendar.Date]decimal.Decimal{}, append(warnings, err.Error())
	}

	rates := make(map[calendar.Date]decimal.Decimal)
	failed := 0
	for _, date := range dates {
		if ctx.Err() != nil {
			warnings = append(warnings, fmt.Sprintf("per-date rate fetch aborted: %v", ctx.Err()))
			break
		}
		sample, err := s.apiClient.FetchDate(ctx, date)
		if err != nil {
			failed++
			continue
		}
		rates[sample.Date] = sample.Rate
	}

	if failed > 0 {
		warnings = append(warnings, fmt.Sprintf("%d per-date rate lookups failed for %d", failed, year))
	}

	return rates, warnings
}

// refreshCurrentYear re-fetches the running year so a warm cache never
// serves day-old gaps near the calendar edge.
func (s *Service) refreshCurrentYear(ctx context.Context) {
	year := time.Now().UTC().Year()
	if s.calGen.Validate(year) != nil {
		return
	}

	rates, warnings := s.fetchYear(ctx, year)
	if len(rates) == 0 || len(warnings) > 0 {
		log.Printf("ExchangeRate: Skipping refresh of %d series (%d warnings)", year, len(warnings))
		return
	}

	cacheKey := rateSeriesCacheKey(year)
	if err := s.cache.Set(map[string][]byte{cacheKey: encodeRates(rates)}, s.config.ExchangeRate.TTL); err != nil {
		log.Printf("ExchangeRate: Failed to refresh cached series: %v", err)
	}
}

func rateSeriesCacheKey(year int) string {
	return fmt.Sprintf("%s:%s:%s:%d", RATE_SERIES_CACHE_PREFIX, baseCurrency, symbolCurrency, year)
}

func encodeRates(rates map[calendar.Date]decimal.Decimal) []byte {
	payload := make(map[string]float64, len(rates))
	for date, rate := range rates {
		payload[date.String()] = rate.InexactFloat64()
	}
	data, _ := json.Marshal(payload)
	return data
}

func decodeRates(data []byte) (map[calendar.Date]decimal.Decimal, error) {
	var payload map[string]float64
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	rates := make(map[calendar.Date]decimal.Decimal, len(payload))
	for dateStr, rate := range payload {
		date, err := calendar.Parse(dateStr)
		if err != nil {
			return nil, err
		}
		rates[date] = decimal.NewFromFloat(rate)
	}
	return rates, nil
}
