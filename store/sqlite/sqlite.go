/*
Package sqlite provides the SQLite-backed series store.

PURPOSE:
  Persists everything the engine owns: observations, per-series sync
  metadata, recent-updates snapshots, and a sync audit trail. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

UPSERT-ONLY HISTORY:
  Observation history is never deleted. Re-ingesting a (series, date)
  key replaces the value in place: providers revise recent readings,
  and the 7-day sync overlap re-delivers them on purpose.

KEY TABLES:
  observations:     One row per (series_id, date), value always a real
                    number - the provider's missing-value token is
                    dropped before it gets here.
  series_metadata:  One row per series: title/frequency/units plus the
                    last_synced timestamp driving the staleness gate.
  update_snapshots: Serialized recent-updates payloads; newest row is
                    authoritative, only the 5 newest are retained.
  sync_runs:        One row per sync attempt for the audit endpoint.

NEAREST-DATE LOOKUP:
  Nearest() answers "closest observation to this date within N days"
  using julianday arithmetic, with ties broken toward the earlier
  date. Change calculations depend on this being deterministic.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The bulk sync runs concurrent
  writers for different series; the mutex plus WAL keeps them from
  tripping over each other.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/indicators.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  err = store.WithTx(ctx, func(tx *sqlite.Tx) error {
      if err := tx.UpsertObservations(ctx, "UNRATE", points); err != nil {
          return err
      }
      return tx.UpsertMetadata(ctx, meta)
  })

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - series/change.go: the NearestFinder consumer
  - service/sync.go: the only writer
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/macroview/indicator-engine/series"
)

// Sync run states recorded in the audit trail.
const (
	RunCompleted = "completed"
	RunSkipped   = "skipped"
	RunFailed    = "failed"
)

// snapshotKeep is how many recent-updates snapshots survive pruning.
const snapshotKeep = 5

// Metadata is the per-series sync bookkeeping row, replaced wholesale
// on every successful sync.
type Metadata struct {
	SeriesID   string
	Title      string
	Frequency  string
	Units      string
	LastSynced time.Time
}

// SyncRun records one sync attempt.
type SyncRun struct {
	ID           string
	SeriesID     string
	Status       string
	Observations int
	Error        string
	StartedAt    time.Time
	CompletedAt  *time.Time
}

// Stats summarizes store contents for the status endpoint.
type Stats struct {
	Observations int
	Series       int
	Snapshots    int
	SyncRuns     int
}

// Store implements persistence on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store backed by the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Observation history (upsert-only, never deleted)
	CREATE TABLE IF NOT EXISTS observations (
		series_id TEXT NOT NULL,
		date TEXT NOT NULL,
		value REAL NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (series_id, date)
	);

	-- Covers range scans and the nearest-date window query
	CREATE INDEX IF NOT EXISTS idx_observations_series_date
		ON observations(series_id, date);

	-- Per-series sync bookkeeping
	CREATE TABLE IF NOT EXISTS series_metadata (
		series_id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		frequency TEXT NOT NULL DEFAULT '',
		units TEXT NOT NULL DEFAULT '',
		last_synced TEXT NOT NULL
	);

	-- Recent-updates snapshots, newest authoritative
	CREATE TABLE IF NOT EXISTS update_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		payload TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_update_snapshots_created
		ON update_snapshots(created_at DESC);

	-- Sync audit trail
	CREATE TABLE IF NOT EXISTS sync_runs (
		id TEXT PRIMARY KEY,
		series_id TEXT NOT NULL,
		status TEXT NOT NULL,
		observations INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		started_at TEXT NOT NULL,
		completed_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_sync_runs_series
		ON sync_runs(series_id);
	CREATE INDEX IF NOT EXISTS idx_sync_runs_started
		ON sync_runs(started_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// execer lets the write helpers run against the pool or an open
// transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// OBSERVATIONS
// =============================================================================

// UpsertObservations writes points atomically, replacing values for
// existing (series, date) keys.
func (s *Store) UpsertObservations(ctx context.Context, seriesID string, points []series.Point) error {
	return s.WithTx(ctx, func(tx *Tx) error {
		return tx.UpsertObservations(ctx, seriesID, points)
	})
}

func upsertObservations(ctx context.Context, db execer, seriesID string, points []series.Point) error {
	query := `
		INSERT OR REPLACE INTO observations (series_id, date, value, created_at)
		VALUES (?, ?, ?, ?)
	`
	createdAt := time.Now().UTC().Format(time.RFC3339)
	for _, p := range points {
		if _, err := db.ExecContext(ctx, query, seriesID, series.FormatDay(p.Date), p.Value, createdAt); err != nil {
			return fmt.Errorf("failed to upsert observation %s/%s: %w", seriesID, series.FormatDay(p.Date), err)
		}
	}
	return nil
}

// Observations returns a series' full stored history, oldest first.
func (s *Store) Observations(ctx context.Context, seriesID string) ([]series.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT date, value FROM observations
		WHERE series_id = ?
		ORDER BY date ASC
	`
	return s.queryPoints(ctx, query, seriesID)
}

// ObservationsSince returns points dated on or after cutoff, oldest first.
func (s *Store) ObservationsSince(ctx context.Context, seriesID string, cutoff time.Time) ([]series.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT date, value FROM observations
		WHERE series_id = ? AND date >= ?
		ORDER BY date ASC
	`
	return s.queryPoints(ctx, query, seriesID, series.FormatDay(cutoff))
}

// Nearest returns the observation closest to target within windowDays,
// or nil when nothing falls inside the window. Ties break toward the
// earlier date.
func (s *Store) Nearest(ctx context.Context, seriesID string, target time.Time, windowDays int) (*series.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	windowStart := series.FormatDay(target.AddDate(0, 0, -windowDays))
	windowEnd := series.FormatDay(target.AddDate(0, 0, windowDays))

	query := `
		SELECT date, value FROM observations
		WHERE series_id = ? AND date BETWEEN ? AND ?
		ORDER BY ABS(julianday(date) - julianday(?)) ASC, date ASC
		LIMIT 1
	`
	row := s.db.QueryRowContext(ctx, query, seriesID, windowStart, windowEnd, series.FormatDay(target))

	var dateText string
	var value float64
	if err := row.Scan(&dateText, &value); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query nearest observation: %w", err)
	}

	date, err := series.ParseDay(dateText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored date %q: %w", dateText, err)
	}
	return &series.Point{Date: date, Value: value}, nil
}

func (s *Store) queryPoints(ctx context.Context, query string, args ...any) ([]series.Point, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var points []series.Point
	for rows.Next() {
		var dateText string
		var value float64
		if err := rows.Scan(&dateText, &value); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		date, err := series.ParseDay(dateText)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored date %q: %w", dateText, err)
		}
		points = append(points, series.Point{Date: date, Value: value})
	}
	return points, rows.Err()
}

// =============================================================================
// SERIES METADATA
// =============================================================================

// UpsertMetadata replaces a series' metadata row wholesale.
func (s *Store) UpsertMetadata(ctx context.Context, md Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return upsertMetadata(ctx, s.db, md)
}

func upsertMetadata(ctx context.Context, db execer, md Metadata) error {
	query := `
		INSERT OR REPLACE INTO series_metadata (series_id, title, frequency, units, last_synced)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		md.SeriesID,
		md.Title,
		md.Frequency,
		md.Units,
		md.LastSynced.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert metadata for %s: %w", md.SeriesID, err)
	}
	return nil
}

// Metadata returns a series' sync metadata, or nil when the series has
// never been synced.
func (s *Store) Metadata(ctx context.Context, seriesID string) (*Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT series_id, title, frequency, units, last_synced
		FROM series_metadata WHERE series_id = ?
	`
	row := s.db.QueryRowContext(ctx, query, seriesID)

	var md Metadata
	var lastSynced string
	if err := row.Scan(&md.SeriesID, &md.Title, &md.Frequency, &md.Units, &lastSynced); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}

	t, err := time.Parse(time.RFC3339, lastSynced)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last_synced %q: %w", lastSynced, err)
	}
	md.LastSynced = t
	return &md, nil
}

// =============================================================================
// SYNC TRANSACTION BOUNDARY
// =============================================================================

// Tx groups the writes of one sync attempt. Everything inside commits
// or rolls back together, so metadata can never advance past a partial
// observation write.
type Tx struct {
	tx *sql.Tx
}

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// UpsertObservations writes points within the transaction.
func (t *Tx) UpsertObservations(ctx context.Context, seriesID string, points []series.Point) error {
	return upsertObservations(ctx, t.tx, seriesID, points)
}

// UpsertMetadata replaces a metadata row within the transaction.
func (t *Tx) UpsertMetadata(ctx context.Context, md Metadata) error {
	return upsertMetadata(ctx, t.tx, md)
}

// SaveSyncRun records a sync attempt within the transaction.
func (t *Tx) SaveSyncRun(ctx context.Context, run SyncRun) error {
	return saveSyncRun(ctx, t.tx, run)
}

// =============================================================================
// UPDATE SNAPSHOTS
// =============================================================================

// SaveSnapshot stores a recent-updates payload and prunes all but the
// newest snapshots.
func (s *Store) SaveSnapshot(ctx context.Context, payload []byte, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	_, err = sqlTx.ExecContext(ctx,
		`INSERT INTO update_snapshots (payload, created_at) VALUES (?, ?)`,
		string(payload), now.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	_, err = sqlTx.ExecContext(ctx, `
		DELETE FROM update_snapshots
		WHERE id NOT IN (
			SELECT id FROM update_snapshots
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`, snapshotKeep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	return sqlTx.Commit()
}

// LatestSnapshot returns the newest snapshot payload and its creation
// time, or nil when no snapshot exists.
func (s *Store) LatestSnapshot(ctx context.Context) ([]byte, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT payload, created_at FROM update_snapshots
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	row := s.db.QueryRowContext(ctx, query)

	var payload, createdAt string
	if err := row.Scan(&payload, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("failed to query snapshot: %w", err)
	}

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to parse snapshot created_at %q: %w", createdAt, err)
	}
	return []byte(payload), t, nil
}

// =============================================================================
// SYNC RUNS
// =============================================================================

// SaveSyncRun records a sync attempt outside a transaction. Used for
// skips and failures, where there is nothing else to commit.
func (s *Store) SaveSyncRun(ctx context.Context, run SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveSyncRun(ctx, s.db, run)
}

func saveSyncRun(ctx context.Context, db execer, run SyncRun) error {
	var completedAt any
	if run.CompletedAt != nil {
		completedAt = run.CompletedAt.UTC().Format(time.RFC3339)
	}

	query := `
		INSERT OR REPLACE INTO sync_runs
		(id, series_id, status, observations, error, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		run.ID,
		run.SeriesID,
		run.Status,
		run.Observations,
		nullString(run.Error),
		run.StartedAt.UTC().Format(time.RFC3339),
		completedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save sync run: %w", err)
	}
	return nil
}

// RecentSyncRuns returns the newest runs, most recent first.
func (s *Store) RecentSyncRuns(ctx context.Context, limit int) ([]SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, series_id, status, observations, error, started_at, completed_at
		FROM sync_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []SyncRun
	for rows.Next() {
		var (
			run         SyncRun
			errText     sql.NullString
			startedAt   string
			completedAt sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.SeriesID, &run.Status, &run.Observations, &errText, &startedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		run.Error = errText.String

		t, err := time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse started_at %q: %w", startedAt, err)
		}
		run.StartedAt = t

		if completedAt.Valid {
			t, err := time.Parse(time.RFC3339, completedAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse completed_at %q: %w", completedAt.String, err)
			}
			run.CompletedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// =============================================================================
// STATS
// =============================================================================

// Stats reports row counts for the status endpoint.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM observations`, &st.Observations},
		{`SELECT COUNT(DISTINCT series_id) FROM observations`, &st.Series},
		{`SELECT COUNT(*) FROM update_snapshots`, &st.Snapshots},
		{`SELECT COUNT(*) FROM sync_runs`, &st.SyncRuns},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return Stats{}, fmt.Errorf("failed to query stats: %w", err)
		}
	}
	return st, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
