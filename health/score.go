package health

// Score rates one indicator on a 0-1 scale. The bands are keyed by
// series ID: unemployment is judged on its level, payrolls and job
// openings on year-over-year growth, the inflation gauges against the
// 2% target band, real GDP on growth rate, and everything else on how
// far the current value sits from its ten-year average.
//
// A nil yoy means no year-earlier observation landed inside the
// comparison window; each band has an explicit rating for that case.
func Score(seriesID string, current float64, yoy *float64, tenYearAvg float64) float64 {
	switch seriesID {
	case "UNRATE":
		switch {
		case current <= 4.0:
			return 0.9
		case current <= 6.0:
			return 0.6
		default:
			return 0.2
		}

	case "PAYEMS", "JTSJOL":
		switch {
		case yoy != nil && *yoy > 2:
			return 0.8
		case yoy != nil && *yoy > 0:
			return 0.6
		default:
			return 0.3
		}

	case "CPIAUCSL", "CPILFESL", "PCEPI", "PCEPILFE":
		// Flat inflation reads the same as an unknown one.
		if yoy == nil || *yoy == 0 {
			return 0.5
		}
		switch {
		case *yoy >= 1.5 && *yoy <= 2.5:
			return 0.9
		case *yoy >= 1.0 && *yoy <= 3.0:
			return 0.7
		case *yoy < 0:
			return 0.2
		default:
			return 0.4
		}

	case "GDPC1":
		switch {
		case yoy != nil && *yoy > 3:
			return 0.9
		case yoy != nil && *yoy > 1:
			return 0.7
		case yoy != nil && *yoy > 0:
			return 0.5
		default:
			return 0.2
		}

	default:
		switch {
		case current > tenYearAvg*1.1:
			return 0.7
		case current > tenYearAvg*0.9:
			return 0.6
		default:
			return 0.4
		}
	}
}
