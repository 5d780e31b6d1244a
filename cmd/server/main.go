/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the indicator engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and environment
  2. Initialize SQLite store and catalog
  3. Create the FRED client behind the shared rate limiter
  4. Create API handler and background refresh scheduler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port       HTTP server port (default: 8080)
  -db         SQLite database path (default: indicators.db)
              Use ":memory:" for an in-memory database
  -catalog    Optional YAML catalog overriding the built-in one
  -refresh    Background refresh interval (default: 1h)
  -scheduler  Enable the background refresh loop (default: true)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the refresh scheduler
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/indicators.db"

  # Run against a trimmed catalog without background refresh
  ./server -catalog=./catalog.yaml -scheduler=false

  # Run on different port
  ./server -port=3000

ENVIRONMENT:
  FRED_API_KEY   Provider API key (required)
  FRED_BASE_URL  Provider root override (optional)

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - config/config.go: Environment loading
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/macroview/indicator-engine/api"
	"github.com/macroview/indicator-engine/catalog"
	"github.com/macroview/indicator-engine/config"
	"github.com/macroview/indicator-engine/fred"
	"github.com/macroview/indicator-engine/ratelimit"
	"github.com/macroview/indicator-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "indicators.db", "SQLite database path")
	catalogPath := flag.String("catalog", "", "YAML catalog overriding the built-in one")
	refresh := flag.Duration("refresh", time.Hour, "background refresh interval")
	scheduling := flag.Bool("scheduler", true, "enable the background refresh loop")
	flag.Parse()

	// Environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Catalog
	reg := catalog.Default()
	if *catalogPath != "" {
		reg, err = catalog.Load(*catalogPath)
		if err != nil {
			log.Fatalf("Failed to load catalog %s: %v", *catalogPath, err)
		}
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Provider client behind the shared quota
	limiter := ratelimit.New(fred.CallsPerWindow, fred.CallWindow)
	client := fred.New(fred.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Limiter: limiter,
	})

	// Initialize handler
	handler := api.NewHandler(reg, store, client, limiter)

	// Background refresh
	scheduler := api.NewRefreshScheduler(handler.Sync)
	scheduler.CheckInterval = *refresh
	scheduler.Enabled = *scheduling
	handler.Scheduler = scheduler
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("Tracking %d indicators across %d sections", reg.Len(), len(reg.SectionNames()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
