package service_test

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/macroview/indicator-engine/catalog"
	"github.com/macroview/indicator-engine/fred"
	"github.com/macroview/indicator-engine/series"
	"github.com/macroview/indicator-engine/store/sqlite"
)

// fakeFetcher serves canned FRED responses and records every call.
type fetchCall struct {
	seriesID string
	start    *time.Time
}

type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]*fred.Series
	errs      map[string]error
	calls     []fetchCall
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: map[string]*fred.Series{},
		errs:      map[string]error{},
	}
}

func (f *fakeFetcher) FetchSeries(_ context.Context, seriesID string, start *time.Time) (*fred.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fetchCall{seriesID: seriesID, start: start})
	if err := f.errs[seriesID]; err != nil {
		return nil, err
	}
	if s, ok := f.responses[seriesID]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("no fixture for %s", seriesID)
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) lastCall(t *testing.T) fetchCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func fredSeries(id, title string, obs ...fred.Observation) *fred.Series {
	return &fred.Series{
		SeriesID: id,
		Metadata: fred.Metadata{
			ID:        id,
			Title:     title,
			Frequency: "Monthly",
			Units:     "Percent",
		},
		Observations: obs,
	}
}

func obsAt(d time.Time, value string) fred.Observation {
	return fred.Observation{Date: series.FormatDay(d), Value: value}
}

func toObs(pts []series.Point) []fred.Observation {
	obs := make([]fred.Observation, len(pts))
	for i, p := range pts {
		obs[i] = fred.Observation{
			Date:  series.FormatDay(p.Date),
			Value: strconv.FormatFloat(p.Value, 'f', -1, 64),
		}
	}
	return obs
}

// testRegistry is a small catalog so sweeps stay cheap in tests.
func testRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	reg, err := catalog.New([]catalog.Section{
		{Name: "LABOR MARKET", Indicators: []catalog.Indicator{
			{ID: "UNRATE", Name: "Unemployment Rate", Description: "Share of the labor force out of work.", Unit: "percent", Format: series.FormatPercentage},
			{ID: "PAYEMS", Name: "Nonfarm Payrolls", Description: "Total nonfarm employees.", Unit: "thousands", Format: series.FormatNumber},
		}},
		{Name: "OUTPUT & GROWTH", Indicators: []catalog.Indicator{
			{ID: "GDPC1", Name: "Real Gross Domestic Product (GDP)", Description: "Inflation-adjusted output.", Unit: "billions", Format: series.FormatCurrency},
		}},
	}, []string{"UNRATE", "GDPC1"})
	require.NoError(t, err)
	return reg
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}
