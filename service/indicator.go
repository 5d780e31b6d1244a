package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/macroview/indicator-engine/catalog"
	"github.com/macroview/indicator-engine/series"
	"github.com/macroview/indicator-engine/store/sqlite"
)

var (
	ErrUnknownSeries = errors.New("unknown series")
	ErrNoData        = errors.New("no data available")
)

// IndicatorInfo is the catalog entry as it appears in responses.
type IndicatorInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Format      string `json:"format"`
}

func indicatorInfo(ind catalog.Indicator) IndicatorInfo {
	return IndicatorInfo{
		Name:        ind.Name,
		Description: ind.Description,
		Unit:        ind.Unit,
		Format:      string(ind.Format),
	}
}

// FormattedPoint is one observation with its display strings and the
// year-over-year change measured at that point.
type FormattedPoint struct {
	Date               string   `json:"date"`
	Value              float64  `json:"value"`
	FormattedValue     string   `json:"formatted_value"`
	YoYChange          *float64 `json:"yoy_change"`
	FormattedYoYChange string   `json:"formatted_yoy_change"`
}

// IndicatorDetail is the full answer to a single-indicator query.
type IndicatorDetail struct {
	Data         []FormattedPoint `json:"data"`
	LatestValue  string           `json:"latest_value"`
	PeriodChange string           `json:"period_change"`
	Metadata     IndicatorInfo    `json:"metadata"`
}

// IndicatorService answers single-indicator queries from the store,
// refreshing stale series on the way in.
type IndicatorService struct {
	store *sqlite.Store
	sync  *SyncService
	reg   *catalog.Registry
	calc  *series.Calculator
}

func NewIndicatorService(st *sqlite.Store, syncer *SyncService, reg *catalog.Registry) *IndicatorService {
	return &IndicatorService{
		store: st,
		sync:  syncer,
		reg:   reg,
		calc:  series.NewCalculator(st),
	}
}

// Detail returns the observations for the requested window with
// formatted values, per-point year-over-year changes, and the change
// across the window. The series is refreshed first when its freshness
// gate allows; refresh failures are logged and stored data is served.
func (s *IndicatorService) Detail(ctx context.Context, seriesID string, period series.Period) (IndicatorDetail, error) {
	ind, ok := s.reg.Indicator(seriesID)
	if !ok {
		return IndicatorDetail{}, fmt.Errorf("%w: %s", ErrUnknownSeries, seriesID)
	}

	if _, err := s.sync.SyncSeries(ctx, seriesID, false); err != nil {
		log.Printf("[indicator] refreshing %s before read: %v", seriesID, err)
	}

	now := time.Now()
	var (
		data []series.Point
		err  error
	)
	if days, ok := period.DaysBack(now); ok {
		data, err = s.store.ObservationsSince(ctx, seriesID, series.Day(now).AddDate(0, 0, -days))
	} else {
		data, err = s.store.Observations(ctx, seriesID)
	}
	if err != nil {
		return IndicatorDetail{}, fmt.Errorf("failed to read %s: %w", seriesID, err)
	}
	if len(data) == 0 {
		return IndicatorDetail{}, fmt.Errorf("%w: %s", ErrNoData, seriesID)
	}

	periodChange, err := s.calc.PeriodChange(ctx, seriesID, data, ind.Format, period)
	if err != nil {
		return IndicatorDetail{}, fmt.Errorf("failed to compute period change for %s: %w", seriesID, err)
	}

	points := make([]FormattedPoint, len(data))
	for i, p := range data {
		yoy, err := s.calc.YearOverYear(ctx, seriesID, p, ind.Format)
		if err != nil {
			return IndicatorDetail{}, fmt.Errorf("failed to compute yoy for %s: %w", seriesID, err)
		}
		points[i] = FormattedPoint{
			Date:               series.FormatDay(p.Date),
			Value:              p.Value,
			FormattedValue:     series.FormatValue(p.Value, ind.Format, ind.Unit),
			YoYChange:          yoy,
			FormattedYoYChange: series.FormatChange(yoy, ind.Format),
		}
	}

	latest := data[len(data)-1]
	return IndicatorDetail{
		Data:         points,
		LatestValue:  series.FormatValue(latest.Value, ind.Format, ind.Unit),
		PeriodChange: series.FormatChange(periodChange, ind.Format),
		Metadata:     indicatorInfo(ind),
	}, nil
}
