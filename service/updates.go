package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/macroview/indicator-engine/catalog"
	"github.com/macroview/indicator-engine/health"
	"github.com/macroview/indicator-engine/series"
	"github.com/macroview/indicator-engine/store/sqlite"
)

const (
	// snapshotTTL is how long a stored recent-updates snapshot is served
	// before the feed is rebuilt from FRED.
	snapshotTTL = 12 * time.Hour

	// maxDataAge drops indicators whose newest observation is older than
	// this many days from the feed.
	maxDataAge = 90

	// sweepPause spaces consecutive FRED fetches during a rebuild.
	sweepPause = 100 * time.Millisecond

	DefaultMaxUpdates = 10
)

// UpdateSummary is one indicator in the recent-updates feed, with both
// display strings and the raw changes the trends narrative reads.
type UpdateSummary struct {
	SeriesID        string        `json:"series_id"`
	Name            string        `json:"name"`
	LatestValue     string        `json:"latest_value"`
	YoYChange       string        `json:"yoy_change"`
	QoQChange       string        `json:"qoq_change"`
	YoYChangeRaw    *float64      `json:"yoy_change_raw"`
	QoQChangeRaw    *float64      `json:"qoq_change_raw"`
	DaysAgo         int           `json:"days_ago"`
	LastUpdatedDate string        `json:"last_updated_date"`
	DataDate        string        `json:"data_date"`
	Config          IndicatorInfo `json:"config"`
	IsPriority      bool          `json:"is_priority"`
}

// UpdatesPage is the recent-updates feed plus its generated analysis.
type UpdatesPage struct {
	Updates    []UpdateSummary `json:"updates"`
	Narrative  string          `json:"economic_analysis"`
	Total      int             `json:"total_updates"`
	DataSource string          `json:"data_source"`
	Cached     bool            `json:"is_cached"`
	FetchedAt  time.Time       `json:"fetch_time"`
}

// UpdatesService maintains the recent-updates snapshot.
type UpdatesService struct {
	store *sqlite.Store
	fred  Fetcher
	reg   *catalog.Registry
	pacer *rate.Limiter
}

func NewUpdatesService(st *sqlite.Store, f Fetcher, reg *catalog.Registry) *UpdatesService {
	return &UpdatesService{
		store: st,
		fred:  f,
		reg:   reg,
		pacer: rate.NewLimiter(rate.Every(sweepPause), 1),
	}
}

// RecentUpdates returns the feed. A snapshot younger than the TTL is
// served as is; otherwise the feed is rebuilt from FRED, snapshotted
// when non-empty, and served fresh. If the rebuild produces nothing
// because every fetch failed, the newest snapshot is served even when
// expired.
func (u *UpdatesService) RecentUpdates(ctx context.Context, max int) (UpdatesPage, error) {
	if max <= 0 {
		max = DefaultMaxUpdates
	}
	now := time.Now()

	if cached, ok := u.snapshot(ctx, func(created time.Time) bool { return now.Sub(created) < snapshotTTL }); ok {
		log.Printf("[updates] serving %d updates from snapshot", len(cached))
		return u.page(cached, true, now), nil
	}

	log.Printf("[updates] snapshot missing or expired, rebuilding from FRED")
	fresh, failures, err := u.sweep(ctx, max)
	if err != nil {
		return UpdatesPage{}, err
	}

	if len(fresh) == 0 && failures > 0 {
		if cached, ok := u.snapshot(ctx, nil); ok {
			log.Printf("[updates] rebuild failed for all series, serving stale snapshot")
			return u.page(cached, true, now), nil
		}
	}

	if len(fresh) > 0 {
		if payload, err := json.Marshal(fresh); err != nil {
			log.Printf("[updates] encoding snapshot: %v", err)
		} else if err := u.store.SaveSnapshot(ctx, payload, now); err != nil {
			log.Printf("[updates] saving snapshot: %v", err)
		}
	}
	return u.page(fresh, false, now), nil
}

// snapshot loads the newest stored feed. A nil accept takes any age.
// Empty or undecodable payloads count as missing.
func (u *UpdatesService) snapshot(ctx context.Context, accept func(created time.Time) bool) ([]UpdateSummary, bool) {
	payload, created, err := u.store.LatestSnapshot(ctx)
	if err != nil {
		log.Printf("[updates] reading snapshot: %v", err)
		return nil, false
	}
	if payload == nil || (accept != nil && !accept(created)) {
		return nil, false
	}
	var cached []UpdateSummary
	if err := json.Unmarshal(payload, &cached); err != nil {
		log.Printf("[updates] corrupt snapshot: %v", err)
		return nil, false
	}
	if len(cached) == 0 {
		return nil, false
	}
	return cached, true
}

// sweep fetches every cataloged series and keeps the ones with a
// reasonably recent observation, sorted most recent first with
// priority series winning ties, truncated to max.
func (u *UpdatesService) sweep(ctx context.Context, max int) ([]UpdateSummary, int, error) {
	var updates []UpdateSummary
	failures := 0
	today := series.Day(time.Now())

	for _, id := range u.reg.IDs() {
		ind, ok := u.reg.Indicator(id)
		if !ok {
			continue
		}

		fetched, err := u.fred.FetchSeries(ctx, id, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil, failures, ctx.Err()
			}
			failures++
			log.Printf("[updates] fetching %s: %v", id, err)
			continue
		}

		valid := validPoints(fetched.Observations)
		if len(valid) < 2 {
			continue
		}
		latest := valid[len(valid)-1]

		daysAgo := series.DaysBetween(latest.Date, today)
		if daysAgo > maxDataAge {
			continue
		}

		var yoy, qoq *float64
		if p := series.NearestInSlice(valid, series.YearEarlier(latest.Date), series.SweepYoYWindowDays); p != nil {
			yoy = series.ChangeBetween(latest.Value, p.Value, ind.Format)
		}
		if p := series.NearestInSlice(valid, latest.Date.AddDate(0, 0, -series.QuarterLagDays), series.SweepQoQWindowDays); p != nil {
			qoq = series.ChangeBetween(latest.Value, p.Value, ind.Format)
		}

		dataDate := series.FormatDay(latest.Date)
		updates = append(updates, UpdateSummary{
			SeriesID:        id,
			Name:            ind.Name,
			LatestValue:     series.FormatValue(latest.Value, ind.Format, ind.Unit),
			YoYChange:       series.FormatChange(yoy, ind.Format),
			QoQChange:       series.FormatChange(qoq, ind.Format),
			YoYChangeRaw:    yoy,
			QoQChangeRaw:    qoq,
			DaysAgo:         daysAgo,
			LastUpdatedDate: dataDate,
			DataDate:        dataDate,
			Config:          indicatorInfo(ind),
			IsPriority:      u.reg.IsPriority(id),
		})

		if err := u.pacer.Wait(ctx); err != nil {
			return nil, failures, err
		}
	}

	sort.SliceStable(updates, func(i, j int) bool {
		if updates[i].DaysAgo != updates[j].DaysAgo {
			return updates[i].DaysAgo < updates[j].DaysAgo
		}
		return updates[i].IsPriority && !updates[j].IsPriority
	})
	if len(updates) > max {
		updates = updates[:max]
	}
	return updates, failures, nil
}

func (u *UpdatesService) page(updates []UpdateSummary, cached bool, now time.Time) UpdatesPage {
	if updates == nil {
		updates = []UpdateSummary{}
	}
	source := "FRED API"
	if cached {
		source = "Cache"
	}
	return UpdatesPage{
		Updates:    updates,
		Narrative:  health.TrendsNarrative(trendsOf(updates)),
		Total:      len(updates),
		DataSource: source,
		Cached:     cached,
		FetchedAt:  now,
	}
}

func trendsOf(updates []UpdateSummary) []health.UpdateTrend {
	trends := make([]health.UpdateTrend, len(updates))
	for i, u := range updates {
		trends[i] = health.UpdateTrend{
			SeriesID: u.SeriesID,
			Name:     u.Name,
			YoY:      u.YoYChangeRaw,
			DaysAgo:  u.DaysAgo,
		}
	}
	return trends
}
