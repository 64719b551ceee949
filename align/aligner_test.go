package align

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptotax/price-exporter/calendar"
	"github.com/cryptotax/price-exporter/coingecko"
)

func sampleAt(t time.Time, price float64) coingecko.PriceSample {
	return coingecko.PriceSample{Timestamp: t, Price: decimal.NewFromFloat(price)}
}

func date(year int, month time.Month, day int) calendar.Date {
	return calendar.Date{Year: year, Month: month, Day: day}
}

func TestSelectDaily_NearestToNoon(t *testing.T) {
	day := time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		samples  []coingecko.PriceSample
		expected float64
	}{
		{
			name: "10:00 beats 15:00",
			samples: []coingecko.PriceSample{
				sampleAt(day.Add(10*time.Hour), 100),
				sampleAt(day.Add(15*time.Hour), 110),
			},
			expected: 100,
		},
		{
			name: "18:00 beats 03:00",
			samples: []coingecko.PriceSample{
				sampleAt(day.Add(3*time.Hour), 100),
				sampleAt(day.Add(18*time.Hour), 110),
			},
			expected: 110,
		},
		{
			name: "equidistant tie goes to the earlier sample",
			samples: []coingecko.PriceSample{
				sampleAt(day.Add(14*time.Hour), 110),
				sampleAt(day.Add(10*time.Hour), 100),
			},
			expected: 100,
		},
		{
			name: "single sample wins regardless of distance",
			samples: []coingecko.PriceSample{
				sampleAt(day.Add(23*time.Hour+59*time.Minute), 42),
			},
			expected: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected := SelectDaily(tt.samples)
			require.Len(t, selected, 1)
			price, ok := selected[date(2023, time.March, 10)]
			require.True(t, ok)
			assert.True(t, decimal.NewFromFloat(tt.expected).Equal(price),
				"expected %v, got %v", tt.expected, price)
		})
	}
}

func TestSelectDaily_MultipleDaysAndDuplicates(t *testing.T) {
	day1 := time.Date(2023, time.March, 10, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2023, time.March, 11, 12, 0, 0, 0, time.UTC)

	// Duplicate timestamps across adjacent fetch windows collapse to one
	samples := []coingecko.PriceSample{
		sampleAt(day1, 100),
		sampleAt(day1, 100),
		sampleAt(day2, 200),
	}

	selected := SelectDaily(samples)
	assert.Len(t, selected, 2)
	assert.True(t, decimal.NewFromInt(100).Equal(selected[date(2023, time.March, 10)]))
	assert.True(t, decimal.NewFromInt(200).Equal(selected[date(2023, time.March, 11)]))
}

func TestSelectDaily_Empty(t *testing.T) {
	assert.Empty(t, SelectDaily(nil))
}

func fiveDayWindow() []calendar.Date {
	dates := make([]calendar.Date, 0, 5)
	for day := 1; day <= 5; day++ {
		dates = append(dates, date(2023, time.May, day))
	}
	return dates
}

func TestFillRates_Forward(t *testing.T) {
	dates := fiveDayWindow()
	rates := map[calendar.Date]decimal.Decimal{
		dates[0]: decimal.NewFromFloat(1.10),
		dates[4]: decimal.NewFromFloat(1.20),
	}

	filled := FillRates(dates, rates, FillForward)

	require.Len(t, filled, 5)
	// Days 2-4 inherit day 1's rate, never day 5's
	for _, d := range dates[1:4] {
		assert.True(t, decimal.NewFromFloat(1.10).Equal(filled[d]), "date %s", d)
	}
	assert.True(t, decimal.NewFromFloat(1.20).Equal(filled[dates[4]]))
}

func TestFillRates_None(t *testing.T) {
	dates := fiveDayWindow()
	rates := map[calendar.Date]decimal.Decimal{
		dates[0]: decimal.NewFromFloat(1.10),
		dates[4]: decimal.NewFromFloat(1.20),
	}

	filled := FillRates(dates, rates, FillNone)

	assert.Len(t, filled, 2)
	for _, d := range dates[1:4] {
		_, ok := filled[d]
		assert.False(t, ok, "date %s must stay absent", d)
	}
}

func TestFillRates_NoRateBeforeFirstObservation(t *testing.T) {
	dates := fiveDayWindow()
	rates := map[calendar.Date]decimal.Decimal{
		dates[2]: decimal.NewFromFloat(0.95),
	}

	filled := FillRates(dates, rates, FillForward)

	require.Len(t, filled, 3)
	for _, d := range dates[:2] {
		_, ok := filled[d]
		assert.False(t, ok, "date %s precedes the first rate and must stay absent", d)
	}
	for _, d := range dates[2:] {
		assert.True(t, decimal.NewFromFloat(0.95).Equal(filled[d]), "date %s", d)
	}
}

func TestAlign_OneRowPerDate(t *testing.T) {
	dates := fiveDayWindow()

	samples := []coingecko.PriceSample{
		sampleAt(time.Date(2023, time.May, 2, 11, 0, 0, 0, time.UTC), 1500),
	}
	rates := map[calendar.Date]decimal.Decimal{
		dates[0]: decimal.NewFromFloat(0.92),
	}

	rows := Align(dates, samples, rates, FillForward)

	require.Len(t, rows, len(dates))
	for i, row := range rows {
		assert.Equal(t, dates[i], row.Date, "row order must match calendar order")
	}

	// Day 1: rate only
	assert.Nil(t, rows[0].USDPrice)
	assert.NotNil(t, rows[0].Rate)

	// Day 2: price plus carried rate
	require.NotNil(t, rows[1].USDPrice)
	assert.True(t, decimal.NewFromInt(1500).Equal(*rows[1].USDPrice))
	assert.NotNil(t, rows[1].Rate)

	// EUR prices are the converter's job, absent here
	for _, row := range rows {
		assert.Nil(t, row.EURPrice)
	}
}

func TestParseFillPolicy(t *testing.T) {
	policy, err := ParseFillPolicy("forward")
	require.NoError(t, err)
	assert.Equal(t, FillForward, policy)

	policy, err = ParseFillPolicy("none")
	require.NoError(t, err)
	assert.Equal(t, FillNone, policy)

	_, err = ParseFillPolicy("interpolate")
	assert.Error(t, err)
}
