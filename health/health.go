/*
Package health scores economic indicators and rolls the scores up into
a per-section assessment with a generated narrative.

PURPOSE:
- Rate each indicator on a 0-1 scale from rule bands keyed by series ID
  (unemployment level, payroll growth, inflation target bands, GDP
  growth, or deviation from the ten-year average for everything else).
- Average the scores across a section and label it healthy (>= 0.7),
  moderate (>= 0.4), or unhealthy.
- Render the assessment as a short narrative paragraph built from fixed
  sentence templates, so the same inputs always produce the same text.

DATA REQUIREMENTS:
- An indicator participates only when the last three years hold at
  least twelve observations. Sections where no indicator qualifies get
  an insufficient-data sentence and a moderate label.
- Store failures degrade to a fallback sentence with a moderate label;
  the section endpoint always has text to serve.

SEE ALSO:
- health/score.go for the scoring bands
- health/narrative.go for the sentence templates
*/
package health

import (
	"context"
	"fmt"
	"log"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/macroview/indicator-engine/catalog"
	"github.com/macroview/indicator-engine/series"
)

// ===== STATUS LABELS =====

const (
	StatusHealthy   = "healthy"
	StatusModerate  = "moderate"
	StatusUnhealthy = "unhealthy"
)

// ===== LOOKBACK WINDOWS =====

const (
	threeYearDays = 1095
	tenYearDays   = 3650

	// minObservations is the floor below which an indicator is left out
	// of its section's assessment entirely.
	minObservations = 12
)

const insufficientData = "Insufficient data available for comprehensive analysis of this economic section."

// ===== ANALYZER =====

// SeriesReader is the slice of the store the analyzer reads from.
type SeriesReader interface {
	ObservationsSince(ctx context.Context, seriesID string, cutoff time.Time) ([]series.Point, error)
	series.NearestFinder
}

// Assessment is the result of analyzing one section.
type Assessment struct {
	Section  string `json:"section_name"`
	Analysis string `json:"analysis"`
	Status   string `json:"health_status"`
}

// Analyzer reads stored observations and produces section assessments.
type Analyzer struct {
	store SeriesReader
	calc  *series.Calculator
	reg   *catalog.Registry
}

func New(store SeriesReader, reg *catalog.Registry) *Analyzer {
	return &Analyzer{
		store: store,
		calc:  series.NewCalculator(store),
		reg:   reg,
	}
}

// indicatorReport carries the per-indicator figures the narrative
// builder works from, in catalog order.
type indicatorReport struct {
	ind   catalog.Indicator
	yoy   *float64
	vs3yr float64
}

// AnalyzeSection scores every qualifying indicator in the section and
// returns the narrative plus the averaged status label. It never
// returns an error: read failures and thin data degrade to fallback
// sentences with a moderate label.
func (a *Analyzer) AnalyzeSection(ctx context.Context, sectionName string) Assessment {
	sec, ok := a.reg.Section(sectionName)
	if !ok {
		return Assessment{Section: sectionName, Analysis: insufficientData, Status: StatusModerate}
	}

	now := time.Now()
	var reports []indicatorReport
	var scores []float64

	for _, ind := range sec.Indicators {
		recent, err := a.store.ObservationsSince(ctx, ind.ID, series.Day(now).AddDate(0, 0, -threeYearDays))
		if err != nil {
			log.Printf("[health] section %s: reading %s: %v", sectionName, ind.ID, err)
			return a.unavailable(sectionName)
		}
		if len(recent) < minObservations {
			continue
		}
		latest := recent[len(recent)-1]

		yoy, err := a.calc.YearOverYear(ctx, ind.ID, latest, ind.Format)
		if err != nil {
			log.Printf("[health] section %s: yoy for %s: %v", sectionName, ind.ID, err)
			yoy = nil
		}

		threeYearValues := values(recent)
		tenYearValues := threeYearValues
		tenYear, err := a.store.ObservationsSince(ctx, ind.ID, series.Day(now).AddDate(0, 0, -tenYearDays))
		if err != nil {
			log.Printf("[health] section %s: reading %s history: %v", sectionName, ind.ID, err)
			return a.unavailable(sectionName)
		}
		if len(tenYear) > 0 {
			tenYearValues = values(tenYear)
		}

		threeYearAvg := stat.Mean(threeYearValues, nil)
		tenYearAvg := stat.Mean(tenYearValues, nil)

		vs3yr := 0.0
		if threeYearAvg != 0 {
			vs3yr = (latest.Value - threeYearAvg) / threeYearAvg * 100
		}

		scores = append(scores, Score(ind.ID, latest.Value, yoy, tenYearAvg))
		reports = append(reports, indicatorReport{ind: ind, yoy: yoy, vs3yr: vs3yr})
	}

	if len(scores) == 0 {
		return Assessment{Section: sectionName, Analysis: insufficientData, Status: StatusModerate}
	}

	status := StatusUnhealthy
	switch avg := stat.Mean(scores, nil); {
	case avg >= 0.7:
		status = StatusHealthy
	case avg >= 0.4:
		status = StatusModerate
	}

	return Assessment{
		Section:  sectionName,
		Analysis: sectionNarrative(sectionName, reports, status),
		Status:   status,
	}
}

func (a *Analyzer) unavailable(sectionName string) Assessment {
	return Assessment{
		Section:  sectionName,
		Analysis: fmt.Sprintf("Analysis temporarily unavailable for %s due to data processing issues. Please try refreshing the page.", sectionName),
		Status:   StatusModerate,
	}
}

func values(points []series.Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
