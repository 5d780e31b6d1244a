/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific date formatting
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Complex response wrappers

TYPES:
  Errors:
    ErrorResponse, SectionNotFoundResponse

  Sync:
    SyncResponse, SyncAllResponse, SyncRunDTO

  Operations:
    StatusResponse, StoreStatsDTO, RateLimitDTO, SchedulerStatusDTO

  Indicator and updates payloads are defined next to the services that
  build them (service.IndicatorDetail, service.UpdatesPage) and are
  serialized as-is.

SEE ALSO:
  - handlers.go: Uses these types
  - store/sqlite/sqlite.go: SyncRun, Stats source types
*/
package api

import (
	"time"

	"github.com/macroview/indicator-engine/service"
	"github.com/macroview/indicator-engine/store/sqlite"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SectionNotFoundResponse lists the valid section names alongside the
// error so clients can self-correct without a second round trip.
type SectionNotFoundResponse struct {
	Error             string   `json:"error"`
	AvailableSections []string `json:"available_sections"`
	RequestedSection  string   `json:"requested_section"`
}

// =============================================================================
// SYNC TYPES
// =============================================================================

// SyncResponse reports the outcome of a single triggered sync.
type SyncResponse struct {
	SeriesID     string `json:"series_id"`
	Status       string `json:"status"`
	Observations int    `json:"observations"`
}

// SyncAllResponse reports a bulk sync across the whole catalog.
type SyncAllResponse struct {
	service.Summary
	Errors []string `json:"errors,omitempty"`
}

// SyncRunDTO represents one recorded sync attempt in API responses.
type SyncRunDTO struct {
	ID           string `json:"id"`
	SeriesID     string `json:"series_id"`
	Status       string `json:"status"`
	Observations int    `json:"observations"`
	Error        string `json:"error,omitempty"`
	StartedAt    string `json:"started_at"`
	CompletedAt  string `json:"completed_at,omitempty"`
}

func toSyncRunDTO(run sqlite.SyncRun) SyncRunDTO {
	dto := SyncRunDTO{
		ID:           run.ID,
		SeriesID:     run.SeriesID,
		Status:       run.Status,
		Observations: run.Observations,
		Error:        run.Error,
		StartedAt:    run.StartedAt.Format(time.RFC3339),
	}
	if run.CompletedAt != nil {
		dto.CompletedAt = run.CompletedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// OPERATIONS TYPES
// =============================================================================

// StatusResponse is the operational snapshot served by GET /api/status.
type StatusResponse struct {
	Indicators int                 `json:"indicators"`
	Sections   []string            `json:"sections"`
	Store      StoreStatsDTO       `json:"store"`
	RateLimit  RateLimitDTO        `json:"rate_limit"`
	Scheduler  *SchedulerStatusDTO `json:"scheduler,omitempty"`
}

// StoreStatsDTO mirrors sqlite.Stats with JSON field names.
type StoreStatsDTO struct {
	Series       int `json:"series"`
	Observations int `json:"observations"`
	SyncRuns     int `json:"sync_runs"`
	Snapshots    int `json:"snapshots"`
}

func toStoreStatsDTO(stats sqlite.Stats) StoreStatsDTO {
	return StoreStatsDTO{
		Series:       stats.Series,
		Observations: stats.Observations,
		SyncRuns:     stats.SyncRuns,
		Snapshots:    stats.Snapshots,
	}
}

// RateLimitDTO reports provider quota usage for the current window.
type RateLimitDTO struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

// SchedulerStatusDTO reports background refresh state.
type SchedulerStatusDTO struct {
	Running  bool   `json:"running"`
	Interval string `json:"interval"`
}
