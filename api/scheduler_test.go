/*
scheduler_test.go - Tests for the background refresh loop
*/
package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macroview/indicator-engine/api"
	"github.com/macroview/indicator-engine/series"
)

func schedulerFixtures(fetcher *stubFetcher) {
	base := series.Day(time.Now())
	for _, id := range []string{"UNRATE", "PAYEMS", "GDPC1"} {
		fetcher.responses[id] = fredSeries(id, id,
			obsAt(base.AddDate(0, -1, 0), "2.0"),
			obsAt(base, "2.1"),
		)
	}
}

func TestRefreshScheduler_RunNowSyncsCatalog(t *testing.T) {
	// GIVEN a scheduler over an empty store
	h, fetcher, st, _ := newTestServer(t)
	schedulerFixtures(fetcher)
	sched := api.NewRefreshScheduler(h.Sync)

	// WHEN triggering a refresh by hand
	sched.RunNow()

	// THEN every catalog series is synced
	assert.Equal(t, 3, fetcher.callCount())
	pts, err := st.Observations(context.Background(), "UNRATE")
	require.NoError(t, err)
	assert.Len(t, pts, 2)
}

func TestRefreshScheduler_StartRefreshesImmediatelyAndStops(t *testing.T) {
	// GIVEN a started scheduler with a long interval
	h, fetcher, st, _ := newTestServer(t)
	schedulerFixtures(fetcher)
	sched := api.NewRefreshScheduler(h.Sync)
	sched.CheckInterval = time.Hour
	sched.Start()

	running, interval := sched.Status()
	assert.True(t, running)
	assert.Equal(t, time.Hour, interval)

	// WHEN waiting for the startup refresh
	require.Eventually(t, func() bool {
		pts, err := st.Observations(context.Background(), "GDPC1")
		return err == nil && len(pts) == 2
	}, 5*time.Second, 10*time.Millisecond)

	// THEN Stop waits for the loop and clears the running flag
	sched.Stop()
	running, _ = sched.Status()
	assert.False(t, running)
}

func TestRefreshScheduler_DisabledDoesNotStart(t *testing.T) {
	// GIVEN a scheduler that is switched off
	h, fetcher, _, _ := newTestServer(t)
	schedulerFixtures(fetcher)
	sched := api.NewRefreshScheduler(h.Sync)
	sched.Enabled = false

	// WHEN starting and stopping it
	sched.Start()
	sched.Stop()

	// THEN nothing runs and nothing blocks
	running, _ := sched.Status()
	assert.False(t, running)
	assert.Equal(t, 0, fetcher.callCount())
}

func TestRefreshScheduler_StatusReportedByAPI(t *testing.T) {
	// GIVEN a handler with a started scheduler
	h, fetcher, _, router := newTestServer(t)
	schedulerFixtures(fetcher)
	h.Scheduler = api.NewRefreshScheduler(h.Sync)
	h.Scheduler.CheckInterval = 30 * time.Minute
	h.Scheduler.Start()
	defer h.Scheduler.Stop()

	// WHEN requesting the status endpoint
	rec := doRequest(t, router, http.MethodGet, "/api/status")

	// THEN the scheduler block reports the live state
	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.StatusResponse
	decodeJSON(t, rec, &resp)
	require.NotNil(t, resp.Scheduler)
	assert.True(t, resp.Scheduler.Running)
	assert.Equal(t, "30m0s", resp.Scheduler.Interval)
}
