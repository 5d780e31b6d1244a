/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from proxy headers
  3. Logger:     Request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. Timeout:    60s ceiling; a forced full-catalog sync can take a while
  6. CORS:       Cross-origin requests for dashboards

ROUTE GROUPS:
  /api/indicators/*     Series data and per-series sync
  /api/sections/*       Section health analysis
  /api/recent-updates   Recently changed series feed
  /api/sync/*           Bulk refresh and audit records
  /api/status           Operational snapshot
  /                     Landing page listing endpoints

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Indicator routes
		r.Route("/indicators", func(r chi.Router) {
			r.Get("/{seriesID}", h.GetIndicator)
			r.Post("/{seriesID}/sync", h.SyncIndicator)
		})

		// Section routes
		r.Route("/sections", func(r chi.Router) {
			r.Get("/{sectionName}", h.GetSection)
		})

		// Updates feed
		r.Get("/recent-updates", h.GetRecentUpdates)

		// Sync routes
		r.Route("/sync", func(r chi.Router) {
			r.Post("/", h.SyncAll)
			r.Get("/runs", h.ListSyncRuns)
		})

		// Operations
		r.Get("/status", h.GetStatus)
	})

	// Landing page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Indicator Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Indicator Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/indicators/UNRATE">/api/indicators/{seriesID}?period=1Y</a> - Series data with period change</li>
<li>POST /api/indicators/{seriesID}/sync?force=true - Refresh one series</li>
<li><a href="/api/sections/labor%20market">/api/sections/{sectionName}</a> - Section health analysis</li>
<li><a href="/api/recent-updates">/api/recent-updates?max=10</a> - Recently changed series</li>
<li>POST /api/sync?force=true - Refresh the whole catalog</li>
<li><a href="/api/sync/runs">/api/sync/runs?limit=20</a> - Sync audit records</li>
<li><a href="/api/status">/api/status</a> - Operational snapshot</li>
</ul>
</body>
</html>`))
	})

	return r
}
