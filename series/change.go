/*
change.go - Windowed nearest-date matching and change computation

PURPOSE:
  The analytical heart of the engine. Economic series are published on
  irregular schedules (daily, monthly, quarterly), so a change over a
  lag is never "the value exactly N days ago". It is the stored
  observation closest to the lagged target date within a tolerance
  window. This file defines the tolerance windows, the nearest-match
  rules, and the format-dependent change arithmetic.

TOLERANCE WINDOWS:
  Store-backed lookups use a fixed ±15-day band for every lag length,
  including the year lag. The recent-updates sweep, which matches
  in-memory against a freshly fetched observation list, widens its
  year-over-year band to ±30 days while keeping ±15 for quarters. The
  two bands are distinct and tied to their call sites.

CHANGE RULES:
  percentage-formatted series -> point difference (current - historical)
  all other formats           -> (current - historical) / |historical| * 100,
                                 undefined when historical is zero
  No match in the window      -> undefined (nil), never zero, never an error.

SEE ALSO:
  - store/sqlite: the NearestFinder implementation
  - format.go: rendering of changes ("+2.35%", "-0.40pp", "N/A")
*/
package series

import (
	"context"
	"math"
	"time"
)

// Tolerance windows for nearest-date matching, in days.
const (
	StoreWindowDays    = 15
	SweepYoYWindowDays = 30
	SweepQoQWindowDays = 15
)

// QuarterLagDays is the fixed day-count lag for quarter-over-quarter.
const QuarterLagDays = 90

// NearestFinder locates the stored observation closest to target within
// ±windowDays, or nil when no observation falls in the window.
type NearestFinder interface {
	Nearest(ctx context.Context, seriesID string, target time.Time, windowDays int) (*Point, error)
}

// Calculator computes year-over-year, quarter-over-quarter, and fixed
// period changes against stored history.
type Calculator struct {
	Finder NearestFinder
}

func NewCalculator(f NearestFinder) *Calculator {
	return &Calculator{Finder: f}
}

// YearOverYear computes the change from one calendar year before the
// current point (leap days clamp to Feb 28), matching within ±15 days.
// Returns nil when the series id is empty or no observation matches.
func (c *Calculator) YearOverYear(ctx context.Context, seriesID string, current Point, format Format) (*float64, error) {
	if seriesID == "" {
		return nil, nil
	}
	target := YearEarlier(current.Date)
	hist, err := c.Finder.Nearest(ctx, seriesID, target, StoreWindowDays)
	if err != nil {
		return nil, err
	}
	if hist == nil {
		return nil, nil
	}
	return ChangeBetween(current.Value, hist.Value, format), nil
}

// QuarterOverQuarter computes the change from 90 days before the
// current point, matching within ±15 days.
func (c *Calculator) QuarterOverQuarter(ctx context.Context, seriesID string, current Point, format Format) (*float64, error) {
	if seriesID == "" {
		return nil, nil
	}
	target := Day(current.Date).AddDate(0, 0, -QuarterLagDays)
	hist, err := c.Finder.Nearest(ctx, seriesID, target, StoreWindowDays)
	if err != nil {
		return nil, err
	}
	if hist == nil {
		return nil, nil
	}
	return ChangeBetween(current.Value, hist.Value, format), nil
}

// PeriodChange computes the change over a named period for the given
// ascending data range. Fixed-lag periods look up the store within ±15
// days of (latest date - lag) and return nil on a window miss. YTD and
// MAX carry no fixed lag, and an empty series id means there is no
// store to consult; both cases compare the first and last points of the
// range directly.
func (c *Calculator) PeriodChange(ctx context.Context, seriesID string, data []Point, format Format, period Period) (*float64, error) {
	if len(data) == 0 {
		return nil, nil
	}
	latest := data[len(data)-1]
	if lag, ok := period.LagDays(); ok && seriesID != "" {
		target := Day(latest.Date).AddDate(0, 0, -lag)
		hist, err := c.Finder.Nearest(ctx, seriesID, target, StoreWindowDays)
		if err != nil {
			return nil, err
		}
		if hist == nil {
			return nil, nil
		}
		return ChangeBetween(latest.Value, hist.Value, format), nil
	}
	return FirstLastChange(data, format), nil
}

// FirstLastChange compares the last point of a range against the first.
func FirstLastChange(data []Point, format Format) *float64 {
	if len(data) == 0 {
		return nil
	}
	return ChangeBetween(data[len(data)-1].Value, data[0].Value, format)
}

// ChangeBetween applies the format-dependent change rule. The result is
// nil when the historical value is zero and the rule is relative.
func ChangeBetween(current, historical float64, format Format) *float64 {
	if format == FormatPercentage {
		diff := current - historical
		return &diff
	}
	if historical == 0 {
		return nil
	}
	pct := (current - historical) / math.Abs(historical) * 100
	return &pct
}

// NearestInSlice returns the point closest to target within ±windowDays,
// scanning in order; a strictly closer point replaces the current best,
// so the earliest point wins ties. Used by the recent-updates sweep
// against freshly fetched lists that never touch the store.
func NearestInSlice(points []Point, target time.Time, windowDays int) *Point {
	var best *Point
	bestDiff := math.MaxInt32
	for i := range points {
		diff := DaysBetween(target, points[i].Date)
		if diff < 0 {
			diff = -diff
		}
		if diff <= windowDays && diff < bestDiff {
			best = &points[i]
			bestDiff = diff
		}
	}
	return best
}
