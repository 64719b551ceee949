package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Dates_YearLengths(t *testing.T) {
	gen := NewGenerator(2000, 2100)

	tests := []struct {
		name     string
		year     int
		expected int
	}{
		{"regular year", 2023, 365},
		{"leap year divisible by 4", 2024, 366},
		{"century leap year divisible by 400", 2000, 366},
		{"century non-leap year", 2100, 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates, err := gen.Dates(tt.year)
			require.NoError(t, err)
			assert.Len(t, dates, tt.expected)
		})
	}
}

func TestGenerator_Dates_Contiguous(t *testing.T) {
	gen := NewGenerator(2000, 2100)

	dates, err := gen.Dates(2024)
	require.NoError(t, err)

	assert.Equal(t, Date{Year: 2024, Month: time.January, Day: 1}, dates[0])
	assert.Equal(t, Date{Year: 2024, Month: time.December, Day: 31}, dates[len(dates)-1])

	for i := 1; i < len(dates); i++ {
		assert.Equal(t, dates[i-1].Time().AddDate(0, 0, 1), dates[i].Time(),
			"dates must be contiguous and strictly increasing at index %d", i)
	}
}

func TestGenerator_Dates_OutOfBounds(t *testing.T) {
	gen := NewGenerator(2000, 2100)

	for _, year := range []int{1999, 2101, 0, -5} {
		dates, err := gen.Dates(year)
		assert.Nil(t, dates)
		assert.ErrorIs(t, err, ErrInvalidYear)
	}
}

func TestDate_Formatting(t *testing.T) {
	date := Date{Year: 2023, Month: time.June, Day: 5}

	assert.Equal(t, "2023-06-05", date.String())
	assert.Equal(t, time.Date(2023, time.June, 5, 0, 0, 0, 0, time.UTC), date.Time())
	assert.Equal(t, time.Date(2023, time.June, 5, 12, 0, 0, 0, time.UTC), date.Noon())
}

func TestDateOf_TruncatesToUTC(t *testing.T) {
	// 23:30 in UTC+2 is 21:30 UTC on the same day
	loc := time.FixedZone("CEST", 2*60*60)
	instant := time.Date(2023, time.June, 5, 23, 30, 0, 0, loc)

	assert.Equal(t, Date{Year: 2023, Month: time.June, Day: 5}, DateOf(instant))

	// 00:30 in UTC+2 is still the previous day in UTC
	instant = time.Date(2023, time.June, 5, 0, 30, 0, 0, loc)
	assert.Equal(t, Date{Year: 2023, Month: time.June, Day: 4}, DateOf(instant))
}

func TestParse(t *testing.T) {
	date, err := Parse("2023-02-28")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2023, Month: time.February, Day: 28}, date)

	_, err = Parse("2023-13-01")
	assert.Error(t, err)

	_, err = Parse("not-a-date")
	assert.Error(t, err)
}

func TestDate_JSONRoundTrip(t *testing.T) {
	date := Date{Year: 2023, Month: time.June, Day: 1}

	data, err := json.Marshal(date)
	require.NoError(t, err)
	assert.Equal(t, `"2023-06-01"`, string(data))

	var decoded Date
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, date, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"13/01/2023"`), &decoded))
}
