package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macroview/indicator-engine/series"
	"github.com/macroview/indicator-engine/service"
	"github.com/macroview/indicator-engine/store/sqlite"
)

func newTestSync(t *testing.T) (*sqlite.Store, *fakeFetcher, *service.SyncService) {
	t.Helper()
	st := newTestStore(t)
	fetcher := newFakeFetcher()
	return st, fetcher, service.NewSyncService(st, fetcher, testRegistry(t))
}

func TestSyncSeries_FirstSyncFetchesFullHistory(t *testing.T) {
	// GIVEN a series never synced before, with one missing and one
	// malformed observation in the feed
	st, fetcher, syncer := newTestSync(t)
	base := series.Day(time.Now())
	fetcher.responses["UNRATE"] = fredSeries("UNRATE", "Unemployment Rate",
		obsAt(base.AddDate(0, 0, -3), "4.2"),
		obsAt(base.AddDate(0, 0, -2), "."),
		obsAt(base.AddDate(0, 0, -1), "not-a-number"),
		obsAt(base, "4.1"),
	)

	// WHEN the series is synced
	run, err := syncer.SyncSeries(context.Background(), "UNRATE", false)
	require.NoError(t, err)

	// THEN the full history was requested and only parseable points stored
	assert.Equal(t, sqlite.RunCompleted, run.Status)
	assert.Equal(t, 2, run.Observations)
	call := fetcher.lastCall(t)
	assert.Nil(t, call.start)

	pts, err := st.Observations(context.Background(), "UNRATE")
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, 4.2, pts[0].Value)
	assert.Equal(t, 4.1, pts[1].Value)

	md, err := st.Metadata(context.Background(), "UNRATE")
	require.NoError(t, err)
	require.NotNil(t, md)
	assert.Equal(t, "Unemployment Rate", md.Title)
	assert.Equal(t, "Monthly", md.Frequency)

	runs, err := st.RecentSyncRuns(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, sqlite.RunCompleted, runs[0].Status)
}

func TestSyncSeries_SkipsWithinFreshnessWindow(t *testing.T) {
	// GIVEN a series synced an hour ago
	st, fetcher, syncer := newTestSync(t)
	require.NoError(t, st.UpsertMetadata(context.Background(), sqlite.Metadata{
		SeriesID:   "UNRATE",
		Title:      "Unemployment Rate",
		LastSynced: time.Now().Add(-time.Hour),
	}))

	run, err := syncer.SyncSeries(context.Background(), "UNRATE", false)
	require.NoError(t, err)

	// THEN nothing was fetched and the skip is not persisted
	assert.Equal(t, sqlite.RunSkipped, run.Status)
	assert.Zero(t, fetcher.callCount())

	runs, err := st.RecentSyncRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSyncSeries_StaleSeriesFetchesIncrementally(t *testing.T) {
	// GIVEN a series last synced thirteen hours ago
	st, fetcher, syncer := newTestSync(t)
	lastSynced := time.Now().Add(-13 * time.Hour)
	require.NoError(t, st.UpsertMetadata(context.Background(), sqlite.Metadata{
		SeriesID:   "UNRATE",
		LastSynced: lastSynced,
	}))
	base := series.Day(time.Now())
	fetcher.responses["UNRATE"] = fredSeries("UNRATE", "Unemployment Rate",
		obsAt(base.AddDate(0, 0, -1), "4.0"),
		obsAt(base, "4.1"),
	)

	_, err := syncer.SyncSeries(context.Background(), "UNRATE", false)
	require.NoError(t, err)

	// THEN the fetch started seven days before the previous sync
	call := fetcher.lastCall(t)
	require.NotNil(t, call.start)
	assert.Equal(t, series.Day(lastSynced.UTC()).AddDate(0, 0, -7), *call.start)
}

func TestSyncSeries_ExactlyAtTheGateRefetches(t *testing.T) {
	// GIVEN a series whose last sync is exactly twelve hours old
	st, fetcher, syncer := newTestSync(t)
	require.NoError(t, st.UpsertMetadata(context.Background(), sqlite.Metadata{
		SeriesID:   "UNRATE",
		LastSynced: time.Now().Add(-12 * time.Hour),
	}))
	fetcher.responses["UNRATE"] = fredSeries("UNRATE", "Unemployment Rate",
		obsAt(series.Day(time.Now()), "4.1"),
	)

	run, err := syncer.SyncSeries(context.Background(), "UNRATE", false)
	require.NoError(t, err)

	assert.Equal(t, sqlite.RunCompleted, run.Status)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestSyncSeries_ForceBypassesGateAndFetchesFullHistory(t *testing.T) {
	// GIVEN a series synced minutes ago
	st, fetcher, syncer := newTestSync(t)
	require.NoError(t, st.UpsertMetadata(context.Background(), sqlite.Metadata{
		SeriesID:   "UNRATE",
		LastSynced: time.Now().Add(-5 * time.Minute),
	}))
	fetcher.responses["UNRATE"] = fredSeries("UNRATE", "Unemployment Rate",
		obsAt(series.Day(time.Now()), "4.1"),
	)

	run, err := syncer.SyncSeries(context.Background(), "UNRATE", true)
	require.NoError(t, err)

	// THEN force refetches from the beginning of the series
	assert.Equal(t, sqlite.RunCompleted, run.Status)
	call := fetcher.lastCall(t)
	assert.Nil(t, call.start)
}

func TestSyncSeries_FetchFailureRecordsFailedRun(t *testing.T) {
	st, fetcher, syncer := newTestSync(t)
	fetcher.errs["UNRATE"] = errors.New("connection refused")

	run, err := syncer.SyncSeries(context.Background(), "UNRATE", false)

	require.Error(t, err)
	assert.Equal(t, sqlite.RunFailed, run.Status)

	runs, dberr := st.RecentSyncRuns(context.Background(), 5)
	require.NoError(t, dberr)
	require.Len(t, runs, 1)
	assert.Equal(t, sqlite.RunFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "connection refused")

	md, dberr := st.Metadata(context.Background(), "UNRATE")
	require.NoError(t, dberr)
	assert.Nil(t, md)
}

func TestSyncSeries_IncrementalUpsertMergesHistory(t *testing.T) {
	// GIVEN stored history and a stale sync marker
	st, fetcher, syncer := newTestSync(t)
	ctx := context.Background()
	base := series.Day(time.Now())
	require.NoError(t, st.UpsertObservations(ctx, "UNRATE", []series.Point{
		{Date: base.AddDate(0, 0, -60), Value: 4.4},
		{Date: base.AddDate(0, 0, -30), Value: 4.3},
	}))
	require.NoError(t, st.UpsertMetadata(ctx, sqlite.Metadata{
		SeriesID:   "UNRATE",
		LastSynced: time.Now().Add(-14 * time.Hour),
	}))

	// WHEN the fetch revises the newest stored point and adds another
	fetcher.responses["UNRATE"] = fredSeries("UNRATE", "Unemployment Rate",
		obsAt(base.AddDate(0, 0, -30), "4.25"),
		obsAt(base, "4.2"),
	)
	_, err := syncer.SyncSeries(ctx, "UNRATE", false)
	require.NoError(t, err)

	// THEN old history survives and the overlap carries the revision
	pts, err := st.Observations(ctx, "UNRATE")
	require.NoError(t, err)
	require.Len(t, pts, 3)
	assert.Equal(t, 4.4, pts[0].Value)
	assert.Equal(t, 4.25, pts[1].Value)
	assert.Equal(t, 4.2, pts[2].Value)
}

func TestSyncAll_CountsOutcomes(t *testing.T) {
	// GIVEN one fresh series, one stale, and one that fails to fetch
	st, fetcher, syncer := newTestSync(t)
	ctx := context.Background()
	require.NoError(t, st.UpsertMetadata(ctx, sqlite.Metadata{
		SeriesID:   "UNRATE",
		LastSynced: time.Now().Add(-time.Hour),
	}))
	fetcher.responses["PAYEMS"] = fredSeries("PAYEMS", "Nonfarm Payrolls",
		obsAt(series.Day(time.Now()), "159000"),
	)
	fetcher.errs["GDPC1"] = errors.New("boom")

	sum, err := syncer.SyncAll(ctx, false)

	assert.Equal(t, service.Summary{Total: 3, Synced: 1, Skipped: 1, Failed: 1}, sum)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GDPC1")
}

func TestSyncAll_NoFailuresReturnsNilError(t *testing.T) {
	st, _, syncer := newTestSync(t)
	ctx := context.Background()
	now := time.Now()
	for _, id := range []string{"UNRATE", "PAYEMS", "GDPC1"} {
		require.NoError(t, st.UpsertMetadata(ctx, sqlite.Metadata{SeriesID: id, LastSynced: now}))
	}

	sum, err := syncer.SyncAll(ctx, false)

	require.NoError(t, err)
	assert.Equal(t, service.Summary{Total: 3, Skipped: 3}, sum)
}
