package series

import (
	"fmt"
	"time"
)

// =============================================================================
// OBSERVATION POINT
// =============================================================================

// DateLayout is the calendar-day format shared by the store and the
// provider wire format.
const DateLayout = "2006-01-02"

// Point is a single observation: a calendar day and its numeric value.
// Values carrying the provider's missing-value token never become
// Points; they are dropped before storage.
type Point struct {
	Date  time.Time
	Value float64
}

// =============================================================================
// DISPLAY FORMAT
// =============================================================================

// Format selects how an indicator's values render and how its changes
// are computed: percentage-formatted series use point differences,
// everything else uses relative percentage change.
type Format string

const (
	FormatPercentage Format = "percentage"
	FormatNumber     Format = "number"
	FormatCurrency   Format = "currency"
)

// ParseFormat validates a format label from external configuration.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPercentage, FormatNumber, FormatCurrency:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// =============================================================================
// QUERY PERIODS
// =============================================================================

// Period names a history window for series queries. Fixed-lag periods
// also drive windowed change lookups; YTD and MAX have no fixed lag and
// fall back to first/last comparison for changes.
type Period string

const (
	Period3M  Period = "3M"
	Period6M  Period = "6M"
	PeriodYTD Period = "YTD"
	Period1Y  Period = "1Y"
	Period5Y  Period = "5Y"
	Period10Y Period = "10Y"
	PeriodMax Period = "MAX"
)

var periodLags = map[Period]int{
	Period3M:  90,
	Period6M:  180,
	Period1Y:  365,
	Period5Y:  1825,
	Period10Y: 3650,
}

// ParsePeriod validates a period label from a query parameter.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case Period3M, Period6M, PeriodYTD, Period1Y, Period5Y, Period10Y, PeriodMax:
		return Period(s), true
	}
	return "", false
}

// LagDays returns the fixed day-count lag for windowed change lookups.
// ok is false for YTD and MAX.
func (p Period) LagDays() (int, bool) {
	lag, ok := periodLags[p]
	return lag, ok
}

// DaysBack resolves the period to a history cutoff in days as of now.
// ok is false for MAX, meaning the full stored range.
func (p Period) DaysBack(now time.Time) (int, bool) {
	switch p {
	case PeriodMax:
		return 0, false
	case PeriodYTD:
		return DaysBetween(NewDay(now.Year(), time.January, 1), Day(now)), true
	default:
		lag, ok := periodLags[p]
		return lag, ok
	}
}

// =============================================================================
// CALENDAR MATH
// =============================================================================

// Day truncates t to calendar-day granularity in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewDay builds a day-granularity UTC time.
func NewDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD calendar day.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDay renders a calendar day as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the whole days from a to b (negative when b is
// earlier). Both arguments are normalized to day granularity first.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// YearEarlier returns the date exactly one calendar year before d,
// clamping to the last valid day of the month when the day does not
// exist in the earlier year (Feb 29 -> Feb 28).
func YearEarlier(d time.Time) time.Time {
	year, month, day := d.Year()-1, d.Month(), d.Day()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return NewDay(year, month, day)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
