/*
Sentence templates for section assessments and the recent-updates
trend summary. The wording is fixed: given the same figures the
builders always emit the same paragraph, so responses stay stable
across refreshes and the text is safe to snapshot in tests.
*/
package health

import (
	"fmt"
	"math"
	"strings"

	"github.com/macroview/indicator-engine/series"
)

// ===== SECTION NARRATIVE =====

// sectionNarrative assembles the assessment paragraph: an intro keyed
// to the status label, up to two positive and two concerning trend
// clauses, the first above-average insight, and a closing sentence for
// sections that have one.
func sectionNarrative(section string, reports []indicatorReport, status string) string {
	if len(reports) == 0 {
		return fmt.Sprintf("The %s section currently lacks sufficient data for comprehensive analysis.", section)
	}

	var parts []string
	switch status {
	case StatusHealthy:
		parts = append(parts, fmt.Sprintf("The %s data demonstrates strong economic performance with positive underlying trends.", section))
	case StatusUnhealthy:
		parts = append(parts, fmt.Sprintf("%s data points to significant challenges with multiple indicators showing weakness.", section))
	default:
		parts = append(parts, fmt.Sprintf("%s data shows mixed signals with both encouraging and concerning developments.", section))
	}

	var positive, concerning, insights []string
	for _, r := range reports {
		name := r.ind.Name

		if r.yoy != nil {
			yoy := *r.yoy
			if r.ind.Format == series.FormatPercentage {
				// Rate-style indicators move in percentage points, and
				// a rising unemployment rate reads as bad news.
				if math.Abs(yoy) > 0.5 {
					switch {
					case yoy > 0 && r.ind.ID == "UNRATE":
						concerning = append(concerning, fmt.Sprintf("%s increased by %.1f percentage points year-over-year", name, math.Abs(yoy)))
					case yoy > 0:
						positive = append(positive, fmt.Sprintf("%s rose %.1f percentage points year-over-year", name, yoy))
					case r.ind.ID == "UNRATE":
						positive = append(positive, fmt.Sprintf("%s declined by %.1f percentage points year-over-year", name, math.Abs(yoy)))
					default:
						concerning = append(concerning, fmt.Sprintf("%s fell %.1f percentage points year-over-year", name, math.Abs(yoy)))
					}
				}
			} else if math.Abs(yoy) > 5 {
				if yoy > 0 {
					positive = append(positive, fmt.Sprintf("%s grew %.1f%% year-over-year", name, yoy))
				} else {
					concerning = append(concerning, fmt.Sprintf("%s declined %.1f%% year-over-year", name, math.Abs(yoy)))
				}
			}
		}

		if math.Abs(r.vs3yr) > 10 {
			badWhenHigh := r.ind.ID == "UNRATE" ||
				strings.Contains(r.ind.ID, "DELINQ") ||
				strings.Contains(r.ind.ID, "CLAIM")
			switch {
			case r.vs3yr > 0 && badWhenHigh:
				concerning = append(concerning, fmt.Sprintf("%s is %.0f%% above its 3-year average", name, math.Abs(r.vs3yr)))
			case r.vs3yr > 0:
				insights = append(insights, fmt.Sprintf("%s is running %.0f%% above its 3-year average", name, r.vs3yr))
			case badWhenHigh:
				positive = append(positive, fmt.Sprintf("%s is %.0f%% below its 3-year average", name, math.Abs(r.vs3yr)))
			default:
				concerning = append(concerning, fmt.Sprintf("%s is %.0f%% below its 3-year average", name, math.Abs(r.vs3yr)))
			}
		}
	}

	switch {
	case len(positive) == 1:
		parts = append(parts, fmt.Sprintf("Notably, %s.", positive[0]))
	case len(positive) > 1:
		parts = append(parts, fmt.Sprintf("Positive developments include: %s.", strings.Join(firstTwo(positive), ", ")))
	}
	switch {
	case len(concerning) == 1:
		parts = append(parts, fmt.Sprintf("However, %s, which warrants attention.", concerning[0]))
	case len(concerning) > 1:
		parts = append(parts, fmt.Sprintf("Areas of concern include: %s, suggesting caution is warranted.", strings.Join(firstTwo(concerning), ", ")))
	}
	if len(insights) > 0 {
		parts = append(parts, fmt.Sprintf("Additionally, %s.", insights[0]))
	}

	if closing := sectionClosings[section][status]; closing != "" {
		parts = append(parts, closing)
	}

	return strings.Join(parts, " ")
}

// sectionClosings holds the closing sentence per section and status.
// Sections without an entry end on the trend clauses.
var sectionClosings = map[string]map[string]string{
	"LABOR MARKET": {
		StatusHealthy:   "This robust labor market performance typically supports consumer spending and broader economic growth.",
		StatusUnhealthy: "Weakness in labor markets often signals broader economic challenges and may impact consumer confidence.",
		StatusModerate:  "Mixed labor market signals suggest the economy is in a transitional phase requiring careful monitoring.",
	},
	"INFLATION": {
		StatusHealthy:   "Stable inflation near target levels provides a supportive environment for monetary policy and economic planning.",
		StatusUnhealthy: "Inflation pressures may constrain Federal Reserve policy flexibility and impact consumer purchasing power.",
		StatusModerate:  "Evolving inflation dynamics require careful monitoring as they influence monetary policy decisions.",
	},
	"OUTPUT & GROWTH": {
		StatusHealthy:   "Strong output growth indicates healthy business investment and productivity gains across the economy.",
		StatusUnhealthy: "Weakening output suggests potential economic slowdown and reduced business confidence.",
		StatusModerate:  "Mixed growth signals indicate an economy navigating various crosscurrents and uncertainties.",
	},
	"HOUSING & CONSTRUCTION": {
		StatusHealthy:   "A robust housing market typically reflects healthy household formation and supports related industries.",
		StatusUnhealthy: "Housing market weakness can have broad economic implications given its role in wealth creation and consumer spending.",
		StatusModerate:  "Housing market conditions are showing divergent trends that reflect changing demographics and financing conditions.",
	},
	"MONETARY POLICY & BANKING": {
		StatusHealthy:   "Stable monetary conditions support predictable financing costs and encourage long-term economic planning.",
		StatusUnhealthy: "Financial market stress can constrain credit availability and impact broader economic activity.",
		StatusModerate:  "Evolving monetary conditions reflect the Federal Reserve's ongoing efforts to balance growth and stability objectives.",
	},
}

// ===== RECENT-UPDATES TRENDS =====

// keyIndicators maps headline series to the plain nouns used in trend
// clauses. Membership also decides the forward-looking sentence.
var keyIndicators = map[string]string{
	"UNRATE":   "unemployment",
	"GDPC1":    "economic growth",
	"CPIAUCSL": "inflation",
	"PAYEMS":   "employment",
	"FEDFUNDS": "interest rates",
}

// UpdateTrend is one recently updated indicator as seen by the trends
// narrative: identity, raw year-over-year change, and data age.
type UpdateTrend struct {
	SeriesID string
	Name     string
	YoY      *float64
	DaysAgo  int
}

// TrendsNarrative summarizes a batch of recent updates as a fixed
// five-sentence paragraph covering data freshness, the balance of
// positive and negative signals, the top signals themselves, data
// coverage, and a forward-looking close.
func TrendsNarrative(trends []UpdateTrend) string {
	if len(trends) == 0 {
		return "Unable to retrieve current economic data from Federal Reserve sources for analysis."
	}

	veryRecent, recent := 0, 0
	for _, t := range trends {
		if t.DaysAgo <= 7 {
			veryRecent++
		}
		if t.DaysAgo <= 30 {
			recent++
		}
	}

	var positive, negative []string
	for _, t := range trends {
		if t.YoY == nil {
			continue
		}
		yoy := *t.YoY
		name, ok := keyIndicators[t.SeriesID]
		if !ok {
			name = strings.ToLower(t.Name)
		}

		// Unemployment is inverted: a falling rate is the good signal.
		if t.SeriesID == "UNRATE" {
			switch {
			case yoy < -0.3:
				positive = append(positive, "declining "+name)
			case yoy > 0.3:
				negative = append(negative, "rising "+name)
			}
			continue
		}
		switch {
		case yoy > 2:
			positive = append(positive, fmt.Sprintf("strong %s growth", name))
		case yoy < -2:
			negative = append(negative, "weakening "+name)
		}
	}

	sentences := make([]string, 0, 5)

	if veryRecent >= 3 {
		sentences = append(sentences, fmt.Sprintf("Current Federal Reserve data shows %d key economic indicators have been updated, with %d showing data from the past week, providing a fresh view of economic conditions.", len(trends), veryRecent))
	} else {
		sentences = append(sentences, fmt.Sprintf("Analysis of %d current economic indicators from Federal Reserve data reveals the latest trends across major economic sectors.", len(trends)))
	}

	switch {
	case len(positive) > len(negative):
		sentences = append(sentences, "The latest data suggests economic resilience with more indicators showing positive momentum than negative trends.")
	case len(negative) > len(positive):
		sentences = append(sentences, "Recent indicators point to emerging economic headwinds with several key metrics showing concerning developments.")
	default:
		sentences = append(sentences, "Economic indicators present a mixed picture with positive developments balanced by areas of concern.")
	}

	switch {
	case len(positive) > 0:
		sentences = append(sentences, fmt.Sprintf("Encouraging developments include %s, indicating underlying economic strength.", strings.Join(firstTwo(positive), ", ")))
	case len(negative) > 0:
		sentences = append(sentences, fmt.Sprintf("Areas of concern include %s, suggesting potential economic challenges ahead.", strings.Join(firstTwo(negative), ", ")))
	default:
		sentences = append(sentences, "Economic indicators are showing moderate changes across sectors without clear directional momentum.")
	}

	if float64(recent) >= float64(len(trends))*0.7 {
		sentences = append(sentences, "The high proportion of recently updated data provides confidence in the current economic assessment and near-term outlook.")
	} else {
		sentences = append(sentences, "While some indicators reflect recent conditions, a fuller economic picture will emerge as additional data becomes available.")
	}

	headline := 0
	for _, t := range trends {
		if _, ok := keyIndicators[t.SeriesID]; ok {
			headline++
		}
	}
	if headline >= 3 {
		sentences = append(sentences, "With updates spanning employment, growth, and inflation metrics, the data provides a solid foundation for understanding current economic trajectory and policy implications.")
	} else {
		sentences = append(sentences, "Continued monitoring of core economic indicators will be essential for assessing the durability and direction of current trends.")
	}

	return strings.Join(sentences, " ")
}

func firstTwo(items []string) []string {
	if len(items) > 2 {
		return items[:2]
	}
	return items
}
