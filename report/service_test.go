package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cryptotax/price-exporter/calendar"
	"github.com/cryptotax/price-exporter/coingecko"
	"github.com/cryptotax/price-exporter/config"
)

// MockPriceProvider implements PriceProvider for testing
type MockPriceProvider struct {
	mock.Mock
}

func (m *MockPriceProvider) YearlyPrices(ctx context.Context, platform, contract string, year int) ([]coingecko.PriceSample, []string, error) {
	args := m.Called(ctx, platform, contract, year)
	var samples []coingecko.PriceSample
	if args.Get(0) != nil {
		samples = args.Get(0).([]coingecko.PriceSample)
	}
	var warnings []string
	if args.Get(1) != nil {
		warnings = args.Get(1).([]string)
	}
	return samples, warnings, args.Error(2)
}

// MockRateProvider implements RateProvider for testing
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) RatesForYear(ctx context.Context, year int) (map[calendar.Date]decimal.Decimal, []string, error) {
	args := m.Called(ctx, year)
	var rates map[calendar.Date]decimal.Decimal
	if args.Get(0) != nil {
		rates = args.Get(0).(map[calendar.Date]decimal.Decimal)
	}
	var warnings []string
	if args.Get(1) != nil {
		warnings = args.Get(1).([]string)
	}
	return rates, warnings, args.Error(2)
}

func testConfig() *config.Config {
	return &config.Config{
		Report: config.GetDefaultReportSettings(),
		Chains: config.DefaultChains(),
	}
}

func testParams() Params {
	return Params{
		TokenAddress: "0xdac17f958d2ee523a2206206994597c13d831ec7",
		Chain:        "ethereum",
		Year:         2023,
	}
}

func TestService_Generate(t *testing.T) {
	prices := new(MockPriceProvider)
	rates := new(MockRateProvider)

	samples := []coingecko.PriceSample{
		{Timestamp: time.Date(2023, time.June, 1, 11, 0, 0, 0, time.UTC), Price: decimal.NewFromFloat(1850.25)},
	}
	prices.On("YearlyPrices", mock.Anything, "ethereum", testParams().TokenAddress, 2023).
		Return(samples, nil, nil)

	rateMap := map[calendar.Date]decimal.Decimal{
		{Year: 2023, Month: time.June, Day: 1}: decimal.NewFromFloat(0.9312),
	}
	rates.On("RatesForYear", mock.Anything, 2023).Return(rateMap, nil, nil)

	service, err := NewService(testConfig(), prices, rates)
	require.NoError(t, err)
	require.NoError(t, service.Start(context.Background()))

	result, err := service.Generate(context.Background(), testParams())
	require.NoError(t, err)
	assert.False(t, result.Partial())

	// One row per calendar day regardless of coverage
	require.Len(t, result.Rows, 365)

	var found bool
	for _, row := range result.Rows {
		if row.Date == (calendar.Date{Year: 2023, Month: time.June, Day: 1}) {
			found = true
			require.NotNil(t, row.USDPrice)
			require.NotNil(t, row.EURPrice)
			assert.Equal(t, "1850.25", row.USDPrice.String())
			assert.Equal(t, "1722.9528", row.EURPrice.String())
		}
	}
	assert.True(t, found)
}

func TestService_Generate_WarningsMerged(t *testing.T) {
	prices := new(MockPriceProvider)
	rates := new(MockRateProvider)

	prices.On("YearlyPrices", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]coingecko.PriceSample{
			{Timestamp: time.Date(2023, time.June, 1, 11, 0, 0, 0, time.UTC), Price: decimal.NewFromFloat(1850.25)},
		}, []string{"window 3 failed"}, nil)
	rates.On("RatesForYear", mock.Anything, 2023).
		Return(map[calendar.Date]decimal.Decimal{}, []string{"bulk rate fetch failed"}, nil)

	service, err := NewService(testConfig(), prices, rates)
	require.NoError(t, err)

	result, err := service.Generate(context.Background(), testParams())
	require.NoError(t, err)

	assert.True(t, result.Partial())
	assert.Equal(t, []string{"window 3 failed", "bulk rate fetch failed"}, result.Warnings)
	assert.Len(t, result.Rows, 365)
}

func TestService_Generate_InvalidYear(t *testing.T) {
	service, err := NewService(testConfig(), new(MockPriceProvider), new(MockRateProvider))
	require.NoError(t, err)

	params := testParams()
	params.Year = 1999

	_, err = service.Generate(context.Background(), params)
	assert.ErrorIs(t, err, calendar.ErrInvalidYear)
}

func TestService_Generate_UnsupportedChain(t *testing.T) {
	service, err := NewService(testConfig(), new(MockPriceProvider), new(MockRateProvider))
	require.NoError(t, err)

	params := testParams()
	params.Chain = "solana"

	_, err = service.Generate(context.Background(), params)
	assert.ErrorIs(t, err, config.ErrUnsupportedChain)
}

func TestService_Generate_NoData(t *testing.T) {
	prices := new(MockPriceProvider)
	prices.On("YearlyPrices", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, coingecko.ErrNoData)

	service, err := NewService(testConfig(), prices, new(MockRateProvider))
	require.NoError(t, err)

	_, err = service.Generate(context.Background(), testParams())
	assert.ErrorIs(t, err, coingecko.ErrNoData)
}

func TestService_Generate_MissingInputs(t *testing.T) {
	service, err := NewService(testConfig(), new(MockPriceProvider), new(MockRateProvider))
	require.NoError(t, err)

	_, err = service.Generate(context.Background(), Params{Chain: "ethereum", Year: 2023})
	assert.Error(t, err)

	_, err = service.Generate(context.Background(), Params{TokenAddress: "0xabc", Year: 2023})
	assert.Error(t, err)
}

func TestNewService_RejectsBadFillPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Report.FillPolicy = "interpolate"

	_, err := NewService(cfg, new(MockPriceProvider), new(MockRateProvider))
	assert.Error(t, err)
}
