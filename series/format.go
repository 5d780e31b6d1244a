/*
format.go - Human-readable rendering of values and changes

PURPOSE:
  Renders raw observation values and computed changes for display.
  Provider series arrive pre-scaled (a value of 159000 in a "thousands"
  unit is 159 million), so scaling is unit-aware: known units only step
  up to the next magnitude when the pre-scaled value crosses it, while
  unit-less values auto-scale by absolute magnitude.

ROUNDING:
  Display rounding is half-away-from-zero (1.25 -> "1.3"), done in
  decimal space so boundary readings round the way a human expects
  rather than by float tie-breaking.
*/
package series

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// NotAvailable is the sentinel rendered for undefined values and changes.
const NotAvailable = "N/A"

// FormatValue renders a raw value per the indicator's display format
// and provider unit label.
func FormatValue(v float64, format Format, unit string) string {
	switch format {
	case FormatPercentage:
		return fixed(v, 1) + "%"
	case FormatCurrency:
		scaled, suffix := scaleCurrency(v, unit)
		return "$" + grouped(scaled, 1) + suffix
	case FormatNumber:
		scaled, suffix := scaleNumber(v, unit)
		return grouped(scaled, 1) + suffix
	default:
		return grouped(v, 1)
	}
}

// FormatChange renders a change with an explicit sign for positive
// moves: a percentage-point suffix for rate-like indicators, a percent
// suffix for everything else. nil renders as NotAvailable.
func FormatChange(change *float64, format Format) string {
	if change == nil {
		return NotAvailable
	}
	sign := ""
	if *change > 0 {
		sign = "+"
	}
	if format == FormatPercentage {
		return sign + fixed(*change, 2) + "pp"
	}
	return sign + fixed(*change, 2) + "%"
}

func scaleCurrency(v float64, unit string) (float64, string) {
	abs := math.Abs(v)
	switch unit {
	case "billions":
		if abs >= 1e3 {
			return v / 1e3, "T"
		}
		return v, "B"
	case "millions":
		switch {
		case abs >= 1e6:
			return v / 1e6, "T"
		case abs >= 1e3:
			return v / 1e3, "B"
		default:
			return v, "M"
		}
	default:
		return autoScale(v)
	}
}

func scaleNumber(v float64, unit string) (float64, string) {
	abs := math.Abs(v)
	switch unit {
	case "thousands":
		switch {
		case abs >= 1e6:
			return v / 1e6, "B"
		case abs >= 1e3:
			return v / 1e3, "M"
		default:
			return v, "K"
		}
	case "millions":
		switch {
		case abs >= 1e6:
			return v / 1e6, "T"
		case abs >= 1e3:
			return v / 1e3, "B"
		default:
			return v, "M"
		}
	case "billions":
		if abs >= 1e3 {
			return v / 1e3, "T"
		}
		return v, "B"
	default:
		return autoScale(v)
	}
}

func autoScale(v float64) (float64, string) {
	switch abs := math.Abs(v); {
	case abs >= 1e12:
		return v / 1e12, "T"
	case abs >= 1e9:
		return v / 1e9, "B"
	case abs >= 1e6:
		return v / 1e6, "M"
	case abs >= 1e3:
		return v / 1e3, "K"
	default:
		return v, ""
	}
}

// fixed renders v with the given decimals, rounding halves away from zero.
func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// grouped is fixed with thousands separators in the integer part.
func grouped(v float64, places int32) string {
	return groupThousands(fixed(v, places))
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}
	if neg {
		return "-" + intPart + frac
	}
	return intPart + frac
}
