/*
config.go - Environment configuration

PURPOSE:
  Loads provider credentials and overrides from the environment, with
  optional .env file support for local development.

CONFIGURATION:
  FRED_API_KEY   Provider API key (required for live syncs)
  FRED_BASE_URL  Provider root override (default: production FRED)

USAGE:
  cfg, err := config.Load()
  client := fred.New(fred.Config{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL})

SEE ALSO:
  - fred/client.go: consumes APIKey and BaseURL
  - cmd/server/main.go: startup wiring
*/
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/macroview/indicator-engine/fred"
)

// Config carries environment-derived settings.
type Config struct {
	APIKey  string
	BaseURL string
}

// Load reads a .env file when present, then the process environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg := Config{
		APIKey:  envStr("FRED_API_KEY", ""),
		BaseURL: envStr("FRED_BASE_URL", fred.DefaultBaseURL),
	}
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("FRED_API_KEY is not set")
	}
	return cfg, nil
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
