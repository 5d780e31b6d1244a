/*
handlers.go - HTTP API handlers for the indicator engine

PURPOSE:
  Exposes the indicator engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Indicators:
    GET    /api/indicators/{seriesID}       Observations + period change
    POST   /api/indicators/{seriesID}/sync  Force-refresh one series

  Sections:
    GET    /api/sections/{sectionName}      Health analysis for a section

  Updates:
    GET    /api/recent-updates              Most recently changed series

  Sync:
    POST   /api/sync                        Refresh the whole catalog
    GET    /api/sync/runs                   Recent sync audit records

  Operations:
    GET    /api/status                      Store, quota and scheduler state

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Registry: indicator catalog
  - Store: database access
  - Indicator/Sync/Updates services: domain logic
  - Analyzer: section health scoring
  - Limiter: provider quota introspection
  - Scheduler: background refresh (optional, wired by cmd/server)

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (sync, analysis, formatting)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown series or section, no stored data
  - 502: Provider fetch failures during a requested sync
  - 500: Internal errors

SEE ALSO:
  - dto.go: Response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Background refresh loop
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-multierror"

	"github.com/macroview/indicator-engine/catalog"
	"github.com/macroview/indicator-engine/fred"
	"github.com/macroview/indicator-engine/health"
	"github.com/macroview/indicator-engine/ratelimit"
	"github.com/macroview/indicator-engine/series"
	"github.com/macroview/indicator-engine/service"
	"github.com/macroview/indicator-engine/store/sqlite"
)

const defaultSyncRunsLimit = 20

// =============================================================================
// HANDLER
// =============================================================================

// Handler holds all API dependencies.
type Handler struct {
	Registry   *catalog.Registry
	Store      *sqlite.Store
	Indicators *service.IndicatorService
	Sync       *service.SyncService
	Updates    *service.UpdatesService
	Analyzer   *health.Analyzer
	Limiter    *ratelimit.Limiter

	// Scheduler is optional. cmd/server assigns it before the router
	// starts serving so /api/status can report refresh state.
	Scheduler *RefreshScheduler
}

// NewHandler wires the domain services around a store and a provider
// client.
func NewHandler(reg *catalog.Registry, st *sqlite.Store, client service.Fetcher, limiter *ratelimit.Limiter) *Handler {
	syncSvc := service.NewSyncService(st, client, reg)
	return &Handler{
		Registry:   reg,
		Store:      st,
		Indicators: service.NewIndicatorService(st, syncSvc, reg),
		Sync:       syncSvc,
		Updates:    service.NewUpdatesService(st, client, reg),
		Analyzer:   health.New(st, reg),
		Limiter:    limiter,
	}
}

// =============================================================================
// INDICATOR HANDLERS
// =============================================================================

// GetIndicator returns the windowed observations for one series along
// with its formatted latest value and period change.
//
// GET /api/indicators/{seriesID}?period=1Y
func (h *Handler) GetIndicator(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "seriesID")

	raw := r.URL.Query().Get("period")
	if raw == "" {
		raw = string(series.Period1Y)
	}
	period, ok := series.ParsePeriod(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid period %q", raw), nil)
		return
	}

	detail, err := h.Indicators.Detail(r.Context(), seriesID, period)
	switch {
	case errors.Is(err, service.ErrUnknownSeries):
		writeError(w, http.StatusNotFound, "Indicator not found", nil)
	case errors.Is(err, service.ErrNoData):
		writeError(w, http.StatusNotFound, "No data available", nil)
	case err != nil:
		log.Printf("[api] indicator %s: %v", seriesID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load indicator", err)
	default:
		writeJSON(w, http.StatusOK, detail)
	}
}

// SyncIndicator refreshes one series from the provider on demand.
//
// POST /api/indicators/{seriesID}/sync?force=true
func (h *Handler) SyncIndicator(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "seriesID")
	if _, ok := h.Registry.Indicator(seriesID); !ok {
		writeError(w, http.StatusNotFound, "Indicator not found", nil)
		return
	}

	run, err := h.Sync.SyncSeries(r.Context(), seriesID, boolParam(r, "force"))
	if err != nil {
		var reqErr *fred.RequestError
		if errors.As(err, &reqErr) {
			writeError(w, http.StatusBadGateway, "Provider fetch failed", err)
			return
		}
		log.Printf("[api] sync %s: %v", seriesID, err)
		writeError(w, http.StatusInternalServerError, "Sync failed", err)
		return
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		SeriesID:     seriesID,
		Status:       run.Status,
		Observations: run.Observations,
	})
}

// =============================================================================
// SECTION HANDLERS
// =============================================================================

// GetSection runs the health analysis for one catalog section.
//
// Section names contain spaces, so they typically arrive
// percent-escaped. chi matches against the raw path in that case and
// hands the escaped form back from URLParam.
//
// GET /api/sections/{sectionName}
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "sectionName")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	name = strings.TrimSpace(name)

	if _, ok := h.Registry.Section(name); !ok {
		writeJSON(w, http.StatusNotFound, SectionNotFoundResponse{
			Error:             fmt.Sprintf("Section not found: %q", name),
			AvailableSections: h.Registry.SectionNames(),
			RequestedSection:  name,
		})
		return
	}

	writeJSON(w, http.StatusOK, h.Analyzer.AnalyzeSection(r.Context(), name))
}

// =============================================================================
// UPDATES HANDLERS
// =============================================================================

// GetRecentUpdates returns the most recently changed indicators with a
// generated trend narrative.
//
// GET /api/recent-updates?max=10
func (h *Handler) GetRecentUpdates(w http.ResponseWriter, r *http.Request) {
	max := service.DefaultMaxUpdates
	if raw := r.URL.Query().Get("max"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid max %q", raw), err)
			return
		}
		max = parsed
	}

	page, err := h.Updates.RecentUpdates(r.Context(), max)
	if err != nil {
		log.Printf("[api] recent updates: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load recent updates", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// =============================================================================
// SYNC HANDLERS
// =============================================================================

// SyncAll refreshes every catalog series, honoring the freshness gate
// unless force is set.
//
// POST /api/sync?force=true
func (h *Handler) SyncAll(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Sync.SyncAll(r.Context(), boolParam(r, "force"))

	resp := SyncAllResponse{Summary: summary}
	if err != nil {
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				resp.Errors = append(resp.Errors, e.Error())
			}
		} else {
			resp.Errors = append(resp.Errors, err.Error())
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListSyncRuns returns the most recent sync audit records.
//
// GET /api/sync/runs?limit=20
func (h *Handler) ListSyncRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultSyncRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid limit %q", raw), err)
			return
		}
		limit = parsed
	}

	runs, err := h.Store.RecentSyncRuns(r.Context(), limit)
	if err != nil {
		log.Printf("[api] sync runs: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load sync runs", err)
		return
	}

	dtos := make([]SyncRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toSyncRunDTO(run))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// OPERATIONS HANDLERS
// =============================================================================

// GetStatus reports store contents, provider quota usage and scheduler
// state.
//
// GET /api/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.Stats(r.Context())
	if err != nil {
		log.Printf("[api] status: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load store stats", err)
		return
	}

	resp := StatusResponse{
		Indicators: h.Registry.Len(),
		Sections:   h.Registry.SectionNames(),
		Store:      toStoreStatsDTO(stats),
	}
	if h.Limiter != nil {
		resp.RateLimit = RateLimitDTO{Used: h.Limiter.Used(), Limit: h.Limiter.Limit()}
	}
	if h.Scheduler != nil {
		running, interval := h.Scheduler.Status()
		resp.Scheduler = &SchedulerStatusDTO{Running: running, Interval: interval.String()}
	}

	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func boolParam(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
