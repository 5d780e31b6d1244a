package health_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macroview/indicator-engine/catalog"
	"github.com/macroview/indicator-engine/health"
	"github.com/macroview/indicator-engine/series"
	"github.com/macroview/indicator-engine/store/sqlite"
)

func newTestAnalyzer(t *testing.T) (*sqlite.Store, *health.Analyzer) {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, health.New(st, catalog.Default())
}

func seedSeries(t *testing.T, st *sqlite.Store, seriesID string, pts []series.Point) {
	t.Helper()
	require.NoError(t, st.UpsertObservations(context.Background(), seriesID, pts))
}

// monthlyPoints builds a series ending today: twelve monthly points
// plus the latest value, with the year-ago point placed exactly where
// the year-over-year lookup targets it.
func monthlyPoints(yearAgo, mid, latest float64) []series.Point {
	base := series.Day(time.Now())
	pts := []series.Point{{Date: series.YearEarlier(base), Value: yearAgo}}
	for i := 11; i >= 1; i-- {
		pts = append(pts, series.Point{Date: base.AddDate(0, -i, 0), Value: mid})
	}
	return append(pts, series.Point{Date: base, Value: latest})
}

func ptr(v float64) *float64 { return &v }

// ===== SCORING =====

func TestScore_UnemploymentLevelBands(t *testing.T) {
	assert.Equal(t, 0.9, health.Score("UNRATE", 3.9, nil, 0))
	assert.Equal(t, 0.9, health.Score("UNRATE", 4.0, nil, 0))
	assert.Equal(t, 0.6, health.Score("UNRATE", 5.0, nil, 0))
	assert.Equal(t, 0.6, health.Score("UNRATE", 6.0, nil, 0))
	assert.Equal(t, 0.2, health.Score("UNRATE", 7.0, nil, 0))
}

func TestScore_PayrollGrowthBands(t *testing.T) {
	assert.Equal(t, 0.8, health.Score("PAYEMS", 158000, ptr(2.5), 0))
	assert.Equal(t, 0.6, health.Score("PAYEMS", 158000, ptr(0.5), 0))
	assert.Equal(t, 0.3, health.Score("PAYEMS", 158000, ptr(0), 0))
	assert.Equal(t, 0.3, health.Score("PAYEMS", 158000, ptr(-1.0), 0))
	assert.Equal(t, 0.3, health.Score("PAYEMS", 158000, nil, 0))
	assert.Equal(t, 0.8, health.Score("JTSJOL", 8000, ptr(3.0), 0))
}

func TestScore_InflationTargetBands(t *testing.T) {
	assert.Equal(t, 0.9, health.Score("CPIAUCSL", 310, ptr(2.0), 0))
	assert.Equal(t, 0.9, health.Score("CPIAUCSL", 310, ptr(1.5), 0))
	assert.Equal(t, 0.9, health.Score("CPIAUCSL", 310, ptr(2.5), 0))
	assert.Equal(t, 0.7, health.Score("CPIAUCSL", 310, ptr(1.2), 0))
	assert.Equal(t, 0.7, health.Score("CPIAUCSL", 310, ptr(3.0), 0))
	assert.Equal(t, 0.2, health.Score("CPIAUCSL", 310, ptr(-1.0), 0))
	assert.Equal(t, 0.4, health.Score("CPIAUCSL", 310, ptr(4.0), 0))

	// No comparable year-ago reading and a perfectly flat one rate the same.
	assert.Equal(t, 0.5, health.Score("CPILFESL", 310, nil, 0))
	assert.Equal(t, 0.5, health.Score("PCEPI", 120, ptr(0), 0))
}

func TestScore_GDPGrowthBands(t *testing.T) {
	assert.Equal(t, 0.9, health.Score("GDPC1", 22000, ptr(3.5), 0))
	assert.Equal(t, 0.7, health.Score("GDPC1", 22000, ptr(2.0), 0))
	assert.Equal(t, 0.5, health.Score("GDPC1", 22000, ptr(0.5), 0))
	assert.Equal(t, 0.2, health.Score("GDPC1", 22000, ptr(0), 0))
	assert.Equal(t, 0.2, health.Score("GDPC1", 22000, ptr(-2.0), 0))
	assert.Equal(t, 0.2, health.Score("GDPC1", 22000, nil, 0))
}

func TestScore_DefaultsToTenYearAverageBands(t *testing.T) {
	assert.Equal(t, 0.7, health.Score("INDPRO", 111, nil, 100))
	assert.Equal(t, 0.6, health.Score("INDPRO", 110, nil, 100))
	assert.Equal(t, 0.6, health.Score("INDPRO", 100, nil, 100))
	assert.Equal(t, 0.4, health.Score("INDPRO", 85, nil, 100))
}

// ===== SECTION ANALYSIS =====

func TestAnalyzeSection_HealthyLaborMarket(t *testing.T) {
	// GIVEN a year of unemployment readings ending at 3.9, down from 4.5
	st, analyzer := newTestAnalyzer(t)
	seedSeries(t, st, "UNRATE", monthlyPoints(4.5, 4.1, 3.9))

	// WHEN the labor market section is analyzed
	got := analyzer.AnalyzeSection(context.Background(), "LABOR MARKET")

	// THEN the section is healthy and the decline reads as good news
	assert.Equal(t, health.StatusHealthy, got.Status)
	assert.Equal(t, "LABOR MARKET", got.Section)
	assert.Equal(t,
		"The LABOR MARKET data demonstrates strong economic performance with positive underlying trends. "+
			"Notably, Unemployment Rate declined by 0.6 percentage points year-over-year. "+
			"This robust labor market performance typically supports consumer spending and broader economic growth.",
		got.Analysis)
}

func TestAnalyzeSection_UnhealthyLaborMarket(t *testing.T) {
	// GIVEN unemployment at 7.0, up a full point from a year earlier
	st, analyzer := newTestAnalyzer(t)
	seedSeries(t, st, "UNRATE", monthlyPoints(6.0, 6.9, 7.0))

	got := analyzer.AnalyzeSection(context.Background(), "LABOR MARKET")

	assert.Equal(t, health.StatusUnhealthy, got.Status)
	assert.Equal(t,
		"LABOR MARKET data points to significant challenges with multiple indicators showing weakness. "+
			"However, Unemployment Rate increased by 1.0 percentage points year-over-year, which warrants attention. "+
			"Weakness in labor markets often signals broader economic challenges and may impact consumer confidence.",
		got.Analysis)
}

func TestAnalyzeSection_ModerateWithoutTrendClauses(t *testing.T) {
	// GIVEN a flat unemployment series at 5.0
	st, analyzer := newTestAnalyzer(t)
	seedSeries(t, st, "UNRATE", monthlyPoints(4.9, 5.0, 5.0))

	got := analyzer.AnalyzeSection(context.Background(), "LABOR MARKET")

	// THEN no trend clears its threshold and only intro plus closing remain
	assert.Equal(t, health.StatusModerate, got.Status)
	assert.Equal(t,
		"LABOR MARKET data shows mixed signals with both encouraging and concerning developments. "+
			"Mixed labor market signals suggest the economy is in a transitional phase requiring careful monitoring.",
		got.Analysis)
}

func TestAnalyzeSection_GrowthAndAverageInsight(t *testing.T) {
	// GIVEN industrial production jumping to 115 after a flat year at 100
	st, analyzer := newTestAnalyzer(t)
	seedSeries(t, st, "INDPRO", monthlyPoints(100, 100, 115))

	got := analyzer.AnalyzeSection(context.Background(), "OUTPUT & GROWTH")

	// THEN the jump shows up both as growth and as an above-average insight
	assert.Equal(t, health.StatusHealthy, got.Status)
	assert.Equal(t,
		"The OUTPUT & GROWTH data demonstrates strong economic performance with positive underlying trends. "+
			"Notably, Industrial Production Index grew 15.0% year-over-year. "+
			"Additionally, Industrial Production Index is running 14% above its 3-year average. "+
			"Strong output growth indicates healthy business investment and productivity gains across the economy.",
		got.Analysis)
}

func TestAnalyzeSection_InflationNearTarget(t *testing.T) {
	// GIVEN CPI up 2% year-over-year
	st, analyzer := newTestAnalyzer(t)
	seedSeries(t, st, "CPIAUCSL", monthlyPoints(300, 303, 306))

	got := analyzer.AnalyzeSection(context.Background(), "INFLATION")

	assert.Equal(t, health.StatusHealthy, got.Status)
	assert.Equal(t,
		"The INFLATION data demonstrates strong economic performance with positive underlying trends. "+
			"Stable inflation near target levels provides a supportive environment for monetary policy and economic planning.",
		got.Analysis)
}

func TestAnalyzeSection_TooFewObservations(t *testing.T) {
	// GIVEN only five readings inside the three-year window
	st, analyzer := newTestAnalyzer(t)
	base := series.Day(time.Now())
	var pts []series.Point
	for i := 4; i >= 0; i-- {
		pts = append(pts, series.Point{Date: base.AddDate(0, -i, 0), Value: 4.0})
	}
	seedSeries(t, st, "UNRATE", pts)

	got := analyzer.AnalyzeSection(context.Background(), "LABOR MARKET")

	assert.Equal(t, health.StatusModerate, got.Status)
	assert.Equal(t, "Insufficient data available for comprehensive analysis of this economic section.", got.Analysis)
}

func TestAnalyzeSection_UnknownSection(t *testing.T) {
	_, analyzer := newTestAnalyzer(t)

	got := analyzer.AnalyzeSection(context.Background(), "DERIVATIVES")

	assert.Equal(t, health.StatusModerate, got.Status)
	assert.Equal(t, "Insufficient data available for comprehensive analysis of this economic section.", got.Analysis)
}

func TestAnalyzeSection_StoreFailureDegrades(t *testing.T) {
	// GIVEN a store that can no longer serve reads
	st, analyzer := newTestAnalyzer(t)
	require.NoError(t, st.Close())

	got := analyzer.AnalyzeSection(context.Background(), "LABOR MARKET")

	// THEN the assessment still carries text instead of failing
	assert.Equal(t, health.StatusModerate, got.Status)
	assert.Equal(t,
		"Analysis temporarily unavailable for LABOR MARKET due to data processing issues. Please try refreshing the page.",
		got.Analysis)
}

// ===== TRENDS NARRATIVE =====

func TestTrendsNarrative_FreshPositiveBatch(t *testing.T) {
	trends := []health.UpdateTrend{
		{SeriesID: "UNRATE", Name: "Unemployment Rate", YoY: ptr(-0.5), DaysAgo: 2},
		{SeriesID: "PAYEMS", Name: "Nonfarm Payrolls", YoY: ptr(2.5), DaysAgo: 3},
		{SeriesID: "CPIAUCSL", Name: "Consumer Price Index (CPI)", YoY: ptr(2.6), DaysAgo: 5},
		{SeriesID: "GDPC1", Name: "Real Gross Domestic Product (GDP)", YoY: ptr(1.0), DaysAgo: 10},
	}

	got := health.TrendsNarrative(trends)

	assert.Equal(t,
		"Current Federal Reserve data shows 4 key economic indicators have been updated, with 3 showing data from the past week, providing a fresh view of economic conditions. "+
			"The latest data suggests economic resilience with more indicators showing positive momentum than negative trends. "+
			"Encouraging developments include declining unemployment, strong employment growth, indicating underlying economic strength. "+
			"The high proportion of recently updated data provides confidence in the current economic assessment and near-term outlook. "+
			"With updates spanning employment, growth, and inflation metrics, the data provides a solid foundation for understanding current economic trajectory and policy implications.",
		got)
}

func TestTrendsNarrative_StaleNegativeBatch(t *testing.T) {
	trends := []health.UpdateTrend{
		{SeriesID: "UNRATE", Name: "Unemployment Rate", YoY: ptr(0.5), DaysAgo: 40},
		{SeriesID: "HOUST", Name: "Housing Starts", YoY: ptr(-3.0), DaysAgo: 50},
	}

	got := health.TrendsNarrative(trends)

	assert.Equal(t,
		"Analysis of 2 current economic indicators from Federal Reserve data reveals the latest trends across major economic sectors. "+
			"Recent indicators point to emerging economic headwinds with several key metrics showing concerning developments. "+
			"Areas of concern include rising unemployment, weakening housing starts, suggesting potential economic challenges ahead. "+
			"While some indicators reflect recent conditions, a fuller economic picture will emerge as additional data becomes available. "+
			"Continued monitoring of core economic indicators will be essential for assessing the durability and direction of current trends.",
		got)
}

func TestTrendsNarrative_NoSignals(t *testing.T) {
	trends := []health.UpdateTrend{
		{SeriesID: "ICSA", Name: "Initial Jobless Claims", YoY: nil, DaysAgo: 1},
	}

	got := health.TrendsNarrative(trends)

	assert.Contains(t, got, "Economic indicators present a mixed picture with positive developments balanced by areas of concern.")
	assert.Contains(t, got, "Economic indicators are showing moderate changes across sectors without clear directional momentum.")
	assert.Contains(t, got, "Continued monitoring of core economic indicators")
}

func TestTrendsNarrative_Empty(t *testing.T) {
	assert.Equal(t,
		"Unable to retrieve current economic data from Federal Reserve sources for analysis.",
		health.TrendsNarrative(nil))
}
