package fred

import (
	"strconv"

	"github.com/macroview/indicator-engine/series"
)

// MissingValue is the provider's token for an observation with no
// reading. It is distinct from zero and must never be stored.
const MissingValue = "."

// Metadata mirrors one entry of the series endpoint's "seriess" array.
type Metadata struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Frequency   string `json:"frequency"`
	Units       string `json:"units"`
	LastUpdated string `json:"last_updated"`
}

// Observation mirrors one entry of the observations endpoint. Value
// stays a string on the wire: it may be the missing-value token.
type Observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// Missing reports whether the observation carries no reading.
func (o Observation) Missing() bool {
	return o.Value == MissingValue
}

// Parse converts a wire observation into a dated point.
func (o Observation) Parse() (series.Point, error) {
	date, err := series.ParseDay(o.Date)
	if err != nil {
		return series.Point{}, err
	}
	value, err := strconv.ParseFloat(o.Value, 64)
	if err != nil {
		return series.Point{}, err
	}
	return series.Point{Date: date, Value: value}, nil
}

// Series is the result of one FetchSeries call: provider metadata plus
// the raw observation list, oldest first as the provider returns it.
type Series struct {
	SeriesID     string
	Metadata     Metadata
	Observations []Observation
}

// errorEnvelope detects provider-reported failures. FRED signals them
// with an error_code field inside an otherwise-200 response, so the
// field's presence, not its value, marks the failure.
type errorEnvelope struct {
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type metadataResponse struct {
	Seriess []Metadata `json:"seriess"`
}

type observationsResponse struct {
	Observations []Observation `json:"observations"`
}
