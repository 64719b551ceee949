package report

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/cryptotax/price-exporter/align"
	"github.com/cryptotax/price-exporter/calendar"
	"github.com/cryptotax/price-exporter/coingecko"
	"github.com/cryptotax/price-exporter/config"
	"github.com/cryptotax/price-exporter/metrics"
)

// PriceProvider supplies the raw yearly price samples
type PriceProvider interface {
	YearlyPrices(ctx context.Context, platform, contract string, year int) ([]coingecko.PriceSample, []string, error)
}

// RateProvider supplies the published USD/EUR rates of a year
type RateProvider interface {
	RatesForYear(ctx context.Context, year int) (map[calendar.Date]decimal.Decimal, []string, error)
}

// Service generates reports. Generate is idempotent: repeating a
// request against warm provider caches issues no upstream calls and
// yields identical output.
type Service struct {
	config     *config.Config
	prices     PriceProvider
	rates      RateProvider
	calGen     *calendar.Generator
	fillPolicy align.FillPolicy
}

// NewService creates a new report service
func NewService(cfg *config.Config, prices PriceProvider, rates RateProvider) (*Service, error) {
	fillPolicy, err := align.ParseFillPolicy(cfg.Report.FillPolicy)
	if err != nil {
		return nil, err
	}

	return &Service{
		config:     cfg,
		prices:     prices,
		rates:      rates,
		calGen:     calendar.NewGenerator(cfg.Report.MinYear, cfg.Report.MaxYear),
		fillPolicy: fillPolicy,
	}, nil
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.prices == nil || s.rates == nil {
		return fmt.Errorf("price and rate providers are required")
	}
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {}

// Generate runs the full pipeline for one request. Errors with no
// partial remedy (calendar.ErrInvalidYear, config.ErrUnsupportedChain,
// coingecko.ErrNoData) abort before any report is assembled; unit-
// scoped upstream failures surface only as Result warnings.
func (s *Service) Generate(ctx context.Context, params Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		metrics.RecordReportOutcome("error")
		return nil, err
	}

	dates, err := s.calGen.Dates(params.Year)
	if err != nil {
		metrics.RecordReportOutcome("error")
		return nil, err
	}

	platform, err := s.config.PlatformForChain(params.Chain)
	if err != nil {
		metrics.RecordReportOutcome("error")
		return nil, err
	}

	samples, priceWarnings, err := s.prices.YearlyPrices(ctx, platform, params.TokenAddress, params.Year)
	if err != nil {
		metrics.RecordReportOutcome("error")
		return nil, err
	}

	rates, rateWarnings, err := s.rates.RatesForYear(ctx, params.Year)
	if err != nil {
		metrics.RecordReportOutcome("error")
		return nil, err
	}

	rows := align.Align(dates, samples, rates, s.fillPolicy)
	rows = align.Convert(rows, align.ConversionConfig{
		PricePrecision: s.config.Report.PricePrecision,
		RatePrecision:  s.config.Report.RatePrecision,
	})

	result := &Result{
		Params:   params,
		Rows:     rows,
		Warnings: append(priceWarnings, rateWarnings...),
	}

	if result.Partial() {
		metrics.RecordReportOutcome("partial")
		log.Printf("Report: Generated partial report for %s/%s %d with %d warnings",
			params.Chain, params.TokenAddress, params.Year, len(result.Warnings))
	} else {
		metrics.RecordReportOutcome("ok")
		log.Printf("Report: Generated report for %s/%s %d (%d rows)",
			params.Chain, params.TokenAddress, params.Year, len(result.Rows))
	}

	return result, nil
}
