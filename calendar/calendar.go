// Package calendar produces the canonical daily date sequence a report
// is aligned against.
package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidYear is returned when a requested year is outside the
// generator's supported bounds.
var ErrInvalidYear = errors.New("year outside supported bounds")

// DateLayout is the ISO-8601 date format used throughout the report
const DateLayout = "2006-01-02"

// Date is a plain calendar day without a time component. It is
// comparable and usable as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates an instant to its UTC calendar date
func DateOf(t time.Time) Date {
	utc := t.UTC()
	return Date{Year: utc.Year(), Month: utc.Month(), Day: utc.Day()}
}

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Noon returns 12:00:00 UTC of the date, the reference instant used to
// pick one representative sample out of several same-day observations.
func (d Date) Noon() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// MarshalJSON renders the date as a YYYY-MM-DD string
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses a YYYY-MM-DD string
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Parse parses a YYYY-MM-DD string into a Date
func Parse(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Generator produces the full daily sequence for a year within
// configured bounds.
type Generator struct {
	minYear int
	maxYear int
}

// NewGenerator creates a generator accepting years in [minYear, maxYear]
func NewGenerator(minYear, maxYear int) *Generator {
	return &Generator{minYear: minYear, maxYear: maxYear}
}

// Validate checks that a year is within the supported bounds
func (g *Generator) Validate(year int) error {
	if year < g.minYear || year > g.maxYear {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidYear, year, g.minYear, g.maxYear)
	}
	return nil
}

// Dates returns every calendar day from Jan 1 to Dec 31 of the year,
// in order. 366 entries for leap years, 365 otherwise.
func (g *Generator) Dates(year int) ([]Date, error) {
	if err := g.Validate(year); err != nil {
		return nil, err
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	dates := make([]Date, 0, 366)
	for t := start; t.Before(end); t = t.AddDate(0, 0, 1) {
		dates = append(dates, DateOf(t))
	}
	return dates, nil
}
