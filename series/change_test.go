package series_test

import (
	"context"
	"testing"
	"time"

	"github.com/macroview/indicator-engine/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// stubFinder records the lookup it received and returns a canned point.
type stubFinder struct {
	gotSeries string
	gotTarget time.Time
	gotWindow int
	point     *series.Point
	err       error
}

func (s *stubFinder) Nearest(ctx context.Context, seriesID string, target time.Time, windowDays int) (*series.Point, error) {
	s.gotSeries = seriesID
	s.gotTarget = target
	s.gotWindow = windowDays
	return s.point, s.err
}

func day(year int, month time.Month, d int) time.Time {
	return series.NewDay(year, month, d)
}

func pt(year int, month time.Month, d int, value float64) series.Point {
	return series.Point{Date: day(year, month, d), Value: value}
}

// =============================================================================
// CHANGE ARITHMETIC
// =============================================================================

func TestChangeBetween_PercentageIsPointDifference(t *testing.T) {
	change := series.ChangeBetween(3.9, 4.4, series.FormatPercentage)
	require.NotNil(t, change)
	assert.InDelta(t, -0.5, *change, 1e-9)
}

func TestChangeBetween_RelativePercent(t *testing.T) {
	change := series.ChangeBetween(110, 100, series.FormatNumber)
	require.NotNil(t, change)
	assert.InDelta(t, 10.0, *change, 1e-9)

	// Negative historical values divide by magnitude, not signed value.
	change = series.ChangeBetween(-50, -100, series.FormatCurrency)
	require.NotNil(t, change)
	assert.InDelta(t, 50.0, *change, 1e-9)
}

func TestChangeBetween_ZeroHistoricalIsUndefined(t *testing.T) {
	assert.Nil(t, series.ChangeBetween(5, 0, series.FormatNumber))

	// Point differences stay defined at zero.
	change := series.ChangeBetween(5, 0, series.FormatPercentage)
	require.NotNil(t, change)
	assert.InDelta(t, 5.0, *change, 1e-9)
}

// =============================================================================
// CALCULATOR LOOKUP TARGETS
// =============================================================================

func TestYearOverYear_TargetsCalendarYearEarlier(t *testing.T) {
	finder := &stubFinder{point: &series.Point{Date: day(2022, time.June, 1), Value: 100}}
	calc := series.NewCalculator(finder)

	change, err := calc.YearOverYear(context.Background(), "UNRATE", pt(2023, time.June, 1, 110), series.FormatNumber)
	require.NoError(t, err)
	require.NotNil(t, change)

	assert.Equal(t, day(2022, time.June, 1), finder.gotTarget)
	assert.Equal(t, series.StoreWindowDays, finder.gotWindow)
	assert.InDelta(t, 10.0, *change, 1e-9)
}

func TestYearOverYear_LeapDayClampsToFeb28(t *testing.T) {
	finder := &stubFinder{point: &series.Point{Date: day(2023, time.February, 28), Value: 100}}
	calc := series.NewCalculator(finder)

	_, err := calc.YearOverYear(context.Background(), "GDPC1", pt(2024, time.February, 29, 103), series.FormatNumber)
	require.NoError(t, err)

	assert.Equal(t, day(2023, time.February, 28), finder.gotTarget)
}

func TestYearOverYear_WindowMissIsNilNotError(t *testing.T) {
	finder := &stubFinder{point: nil}
	calc := series.NewCalculator(finder)

	change, err := calc.YearOverYear(context.Background(), "UNRATE", pt(2023, time.June, 1, 4.0), series.FormatPercentage)
	require.NoError(t, err)
	assert.Nil(t, change)
}

func TestYearOverYear_EmptySeriesIDIsNil(t *testing.T) {
	finder := &stubFinder{point: &series.Point{Date: day(2022, time.June, 1), Value: 100}}
	calc := series.NewCalculator(finder)

	change, err := calc.YearOverYear(context.Background(), "", pt(2023, time.June, 1, 110), series.FormatNumber)
	require.NoError(t, err)
	assert.Nil(t, change)
	assert.Empty(t, finder.gotSeries, "no lookup should have been issued")
}

func TestQuarterOverQuarter_Targets90DaysBack(t *testing.T) {
	finder := &stubFinder{point: &series.Point{Date: day(2023, time.March, 3), Value: 4.0}}
	calc := series.NewCalculator(finder)

	change, err := calc.QuarterOverQuarter(context.Background(), "UNRATE", pt(2023, time.June, 1, 4.5), series.FormatPercentage)
	require.NoError(t, err)
	require.NotNil(t, change)

	assert.Equal(t, day(2023, time.June, 1).AddDate(0, 0, -90), finder.gotTarget)
	assert.Equal(t, series.StoreWindowDays, finder.gotWindow)
	assert.InDelta(t, 0.5, *change, 1e-9)
}

// =============================================================================
// PERIOD CHANGE
// =============================================================================

func TestPeriodChange_FixedLagUsesWindowedLookup(t *testing.T) {
	finder := &stubFinder{point: &series.Point{Date: day(2022, time.June, 3), Value: 200}}
	calc := series.NewCalculator(finder)

	data := []series.Point{pt(2023, time.January, 1, 210), pt(2023, time.June, 1, 220)}
	change, err := calc.PeriodChange(context.Background(), "RSAFS", data, series.FormatCurrency, series.Period1Y)
	require.NoError(t, err)
	require.NotNil(t, change)

	assert.Equal(t, day(2023, time.June, 1).AddDate(0, 0, -365), finder.gotTarget)
	assert.InDelta(t, 10.0, *change, 1e-9)
}

func TestPeriodChange_FixedLagWindowMissIsNil(t *testing.T) {
	finder := &stubFinder{point: nil}
	calc := series.NewCalculator(finder)

	data := []series.Point{pt(2023, time.January, 1, 210), pt(2023, time.June, 1, 220)}
	change, err := calc.PeriodChange(context.Background(), "RSAFS", data, series.FormatCurrency, series.Period5Y)
	require.NoError(t, err)
	assert.Nil(t, change)
}

func TestPeriodChange_MaxComparesFirstAndLast(t *testing.T) {
	finder := &stubFinder{}
	calc := series.NewCalculator(finder)

	data := []series.Point{pt(2000, time.January, 1, 100), pt(2010, time.January, 1, 150), pt(2023, time.June, 1, 300)}
	change, err := calc.PeriodChange(context.Background(), "RSAFS", data, series.FormatNumber, series.PeriodMax)
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.InDelta(t, 200.0, *change, 1e-9)
	assert.Empty(t, finder.gotSeries, "MAX must not consult the store")
}

func TestPeriodChange_EmptySeriesIDFallsBack(t *testing.T) {
	calc := series.NewCalculator(&stubFinder{})

	data := []series.Point{pt(2023, time.January, 1, 4.0), pt(2023, time.June, 1, 3.5)}
	change, err := calc.PeriodChange(context.Background(), "", data, series.FormatPercentage, series.Period1Y)
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.InDelta(t, -0.5, *change, 1e-9)
}

func TestPeriodChange_EmptyDataIsNil(t *testing.T) {
	calc := series.NewCalculator(&stubFinder{})

	change, err := calc.PeriodChange(context.Background(), "UNRATE", nil, series.FormatPercentage, series.Period1Y)
	require.NoError(t, err)
	assert.Nil(t, change)
}

// =============================================================================
// IN-MEMORY NEAREST MATCH
// =============================================================================

func TestNearestInSlice_ClosestWins(t *testing.T) {
	points := []series.Point{pt(2023, time.January, 1, 100), pt(2023, time.January, 20, 110)}

	// 9 days to Jan 1 beats 10 days to Jan 20.
	got := series.NearestInSlice(points, day(2023, time.January, 10), 15)
	require.NotNil(t, got)
	assert.Equal(t, day(2023, time.January, 1), got.Date)
	assert.Equal(t, 100.0, got.Value)
}

func TestNearestInSlice_OutsideWindowIsNil(t *testing.T) {
	points := []series.Point{pt(2023, time.January, 1, 100), pt(2023, time.January, 20, 110)}
	assert.Nil(t, series.NearestInSlice(points, day(2023, time.February, 20), 15))
}

func TestNearestInSlice_TieBreaksToEarlierDate(t *testing.T) {
	points := []series.Point{pt(2023, time.January, 1, 100), pt(2023, time.January, 11, 110)}

	got := series.NearestInSlice(points, day(2023, time.January, 6), 15)
	require.NotNil(t, got)
	assert.Equal(t, day(2023, time.January, 1), got.Date)
}

// =============================================================================
// CALENDAR MATH
// =============================================================================

func TestYearEarlier(t *testing.T) {
	assert.Equal(t, day(2022, time.June, 15), series.YearEarlier(day(2023, time.June, 15)))
	assert.Equal(t, day(2023, time.February, 28), series.YearEarlier(day(2024, time.February, 29)))
	assert.Equal(t, day(2023, time.March, 1), series.YearEarlier(day(2024, time.March, 1)))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 9, series.DaysBetween(day(2023, time.January, 1), day(2023, time.January, 10)))
	assert.Equal(t, -10, series.DaysBetween(day(2023, time.January, 20), day(2023, time.January, 10)))
}

func TestPeriodDaysBack(t *testing.T) {
	now := day(2023, time.March, 1)

	back, ok := series.Period1Y.DaysBack(now)
	require.True(t, ok)
	assert.Equal(t, 365, back)

	back, ok = series.PeriodYTD.DaysBack(now)
	require.True(t, ok)
	assert.Equal(t, 59, back, "Jan 1 to Mar 1 2023")

	_, ok = series.PeriodMax.DaysBack(now)
	assert.False(t, ok)
}

func TestParsePeriod(t *testing.T) {
	p, ok := series.ParsePeriod("10Y")
	require.True(t, ok)
	assert.Equal(t, series.Period10Y, p)

	_, ok = series.ParsePeriod("2W")
	assert.False(t, ok)
}
