/*
main.go - One-shot catalog backfill

PURPOSE:
  Force-syncs every catalog series into a fresh or existing database so
  the server starts with full histories instead of filling them in
  lazily. Series are fetched sequentially; the shared rate limiter
  paces the calls under the provider quota.

COMMAND-LINE FLAGS:
  -db       SQLite database path (default: indicators.db)
  -catalog  Optional YAML catalog overriding the built-in one

EXIT CODE:
  Non-zero when any series failed to sync, so provisioning scripts can
  retry.

EXAMPLES:
  # Backfill the default catalog
  FRED_API_KEY=... ./seed -db=./data/indicators.db

SEE ALSO:
  - service/sync.go: per-series sync semantics
  - cmd/server/main.go: the server this prepares data for
*/
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/macroview/indicator-engine/catalog"
	"github.com/macroview/indicator-engine/config"
	"github.com/macroview/indicator-engine/fred"
	"github.com/macroview/indicator-engine/service"
	"github.com/macroview/indicator-engine/store/sqlite"
)

func main() {
	dbPath := flag.String("db", "indicators.db", "SQLite database path")
	catalogPath := flag.String("catalog", "", "YAML catalog overriding the built-in one")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	reg := catalog.Default()
	if *catalogPath != "" {
		reg, err = catalog.Load(*catalogPath)
		if err != nil {
			log.Fatalf("Failed to load catalog %s: %v", *catalogPath, err)
		}
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	client := fred.New(fred.Config{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey})
	syncer := service.NewSyncService(store, client, reg)

	ctx := context.Background()
	ids := reg.IDs()
	failed := 0

	log.Printf("Seeding %d series into %s", len(ids), *dbPath)
	for i, id := range ids {
		run, err := syncer.SyncSeries(ctx, id, true)
		if err != nil {
			failed++
			log.Printf("[%d/%d] %s: %v", i+1, len(ids), id, err)
			continue
		}
		log.Printf("[%d/%d] %s: %d observations", i+1, len(ids), id, run.Observations)
	}

	log.Printf("Seed complete: %d synced, %d failed", len(ids)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
