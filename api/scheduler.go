/*
scheduler.go - Background series refresh

PURPOSE:
  Periodically re-syncs the whole catalog so stored observations stay
  close to the provider without any client traffic. Each tick runs the
  same bulk sync as POST /api/sync; the per-series freshness gate keeps
  repeat ticks cheap.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Skips a tick when the previous refresh is still in flight
  - Relies on the sync service for concurrency limits and audit records

CONFIGURATION:
  - CheckInterval: How often to refresh (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewRefreshScheduler(syncService)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - service/sync.go: SyncAll and the freshness gate
  - handlers.go: GetStatus reports scheduler state
*/
package api

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/macroview/indicator-engine/service"
)

// RefreshScheduler re-syncs the catalog on a fixed interval.
type RefreshScheduler struct {
	Sync          *service.SyncService
	CheckInterval time.Duration
	Enabled       bool

	ticker  *time.Ticker
	stop    chan bool
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	busy    atomic.Bool
}

// NewRefreshScheduler creates a new scheduler.
func NewRefreshScheduler(syncSvc *service.SyncService) *RefreshScheduler {
	return &RefreshScheduler{
		Sync:          syncSvc,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (rs *RefreshScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		log.Println("[scheduler] disabled, not starting")
		return
	}
	if rs.running {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.running = true
	rs.wg.Add(1)

	go rs.run()

	log.Printf("[scheduler] started with check interval: %v", rs.CheckInterval)
}

// Stop stops the scheduler and waits for an in-flight refresh.
func (rs *RefreshScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.running = false
		log.Println("[scheduler] stopped")
	}
}

// RunNow triggers an immediate refresh (for testing/admin).
func (rs *RefreshScheduler) RunNow() {
	rs.refresh()
}

// Status reports whether the loop is running and its interval.
func (rs *RefreshScheduler) Status() (bool, time.Duration) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.running, rs.CheckInterval
}

func (rs *RefreshScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.refresh()

	for {
		select {
		case <-rs.ticker.C:
			rs.refresh()
		case <-rs.stop:
			return
		}
	}
}

func (rs *RefreshScheduler) refresh() {
	if !rs.busy.CompareAndSwap(false, true) {
		log.Println("[scheduler] previous refresh still running, skipping tick")
		return
	}
	defer rs.busy.Store(false)

	summary, err := rs.Sync.SyncAll(context.Background(), false)
	if err != nil {
		log.Printf("[scheduler] refresh finished with failures: %v", err)
	}
	log.Printf("[scheduler] refresh complete: %d synced, %d skipped, %d failed of %d",
		summary.Synced, summary.Skipped, summary.Failed, summary.Total)
}
