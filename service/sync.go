package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/macroview/indicator-engine/catalog"
	"github.com/macroview/indicator-engine/series"
	"github.com/macroview/indicator-engine/store/sqlite"
)

const (
	// freshnessWindow is how long a synced series is considered current.
	// A series younger than this is not refetched unless forced.
	freshnessWindow = 12 * time.Hour

	// overlapDays is how far behind the last sync an incremental fetch
	// starts, so late revisions to recent observations are picked up.
	overlapDays = 7

	maxConcurrentSyncs = 5
	seriesSyncTimeout  = 30 * time.Second
)

// Summary reports the outcome of a bulk sync.
type Summary struct {
	Total   int `json:"total"`
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// SyncService keeps stored series current with FRED.
type SyncService struct {
	store *sqlite.Store
	fred  Fetcher
	reg   *catalog.Registry
}

func NewSyncService(st *sqlite.Store, f Fetcher, reg *catalog.Registry) *SyncService {
	return &SyncService{store: st, fred: f, reg: reg}
}

// SyncSeries refreshes one series. Series synced within the freshness
// window are skipped unless force is set; otherwise it fetches from
// seven days before the last sync (or full history on first sync) and
// commits observations, metadata, and the run record in one
// transaction. Skipped runs are returned but not persisted.
func (s *SyncService) SyncSeries(ctx context.Context, seriesID string, force bool) (sqlite.SyncRun, error) {
	started := time.Now()

	md, err := s.store.Metadata(ctx, seriesID)
	if err != nil {
		return sqlite.SyncRun{}, fmt.Errorf("failed to read metadata for %s: %w", seriesID, err)
	}

	if md != nil && !force && started.Sub(md.LastSynced) < freshnessWindow {
		return sqlite.SyncRun{
			ID:        uuid.NewString(),
			SeriesID:  seriesID,
			Status:    sqlite.RunSkipped,
			StartedAt: started,
		}, nil
	}

	var start *time.Time
	if md != nil && !force {
		from := series.Day(md.LastSynced).AddDate(0, 0, -overlapDays)
		start = &from
	}

	fetched, err := s.fred.FetchSeries(ctx, seriesID, start)
	if err != nil {
		return s.failRun(ctx, seriesID, started, err), fmt.Errorf("failed to fetch %s: %w", seriesID, err)
	}

	var pts []series.Point
	for _, obs := range fetched.Observations {
		if obs.Missing() {
			continue
		}
		p, perr := obs.Parse()
		if perr != nil {
			log.Printf("[sync] %s: skipping observation %q: %v", seriesID, obs.Date, perr)
			continue
		}
		pts = append(pts, p)
	}

	completed := time.Now()
	run := sqlite.SyncRun{
		ID:           uuid.NewString(),
		SeriesID:     seriesID,
		Status:       sqlite.RunCompleted,
		Observations: len(pts),
		StartedAt:    started,
		CompletedAt:  &completed,
	}
	meta := sqlite.Metadata{
		SeriesID:   seriesID,
		Title:      fetched.Metadata.Title,
		Frequency:  fetched.Metadata.Frequency,
		Units:      fetched.Metadata.Units,
		LastSynced: started,
	}

	err = s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		if err := tx.UpsertObservations(ctx, seriesID, pts); err != nil {
			return err
		}
		if err := tx.UpsertMetadata(ctx, meta); err != nil {
			return err
		}
		return tx.SaveSyncRun(ctx, run)
	})
	if err != nil {
		return s.failRun(ctx, seriesID, started, err), fmt.Errorf("failed to store %s: %w", seriesID, err)
	}

	log.Printf("[sync] %s: stored %d observations", seriesID, len(pts))
	return run, nil
}

// failRun records a failed run so the audit trail survives the error.
func (s *SyncService) failRun(ctx context.Context, seriesID string, started time.Time, cause error) sqlite.SyncRun {
	completed := time.Now()
	run := sqlite.SyncRun{
		ID:          uuid.NewString(),
		SeriesID:    seriesID,
		Status:      sqlite.RunFailed,
		Error:       cause.Error(),
		StartedAt:   started,
		CompletedAt: &completed,
	}
	if err := s.store.SaveSyncRun(ctx, run); err != nil {
		log.Printf("[sync] %s: recording failed run: %v", seriesID, err)
	}
	return run
}

// SyncAll refreshes every cataloged series with a bounded worker pool
// and a per-series timeout. Failures do not stop the sweep; they are
// collected and returned together after every series has been tried.
func (s *SyncService) SyncAll(ctx context.Context, force bool) (Summary, error) {
	ids := s.reg.IDs()
	sum := Summary{Total: len(ids)}

	var (
		mu   sync.Mutex
		errs error
	)
	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentSyncs)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			runCtx, cancel := context.WithTimeout(ctx, seriesSyncTimeout)
			defer cancel()

			run, err := s.SyncSeries(runCtx, id, force)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				sum.Failed++
				errs = multierror.Append(errs, err)
			case run.Status == sqlite.RunSkipped:
				sum.Skipped++
			default:
				sum.Synced++
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Printf("[sync] bulk sync finished: %d synced, %d skipped, %d failed of %d",
		sum.Synced, sum.Skipped, sum.Failed, sum.Total)
	return sum, errs
}
