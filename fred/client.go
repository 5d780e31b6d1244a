/*
Package fred talks to the Federal Reserve Economic Data HTTP API.

PURPOSE:
  Fetches series metadata and observations for the sync pipeline. A
  fetch is two GET requests (metadata, then observations) issued under
  one shared rate-limiter admission, mirroring the provider's quota
  accounting of a logical series pull.

ENDPOINTS:
  GET {base}/series?series_id=X&api_key=K&file_type=json
      -> {"seriess": [{id, title, frequency, units, last_updated}]}
  GET {base}/series/observations?series_id=X&api_key=K&file_type=json
      [&observation_start=YYYY-MM-DD]
      -> {"observations": [{date, value}]}

  A 200 response may still embed {"error_code": N, "error_message":
  "..."}; that is a provider failure, not data.

USAGE:
  limiter := ratelimit.New(fred.CallsPerWindow, fred.CallWindow)
  client := fred.New(fred.Config{APIKey: key, Limiter: limiter})
  result, err := client.FetchSeries(ctx, "UNRATE", nil)

SEE ALSO:
  - errors.go: failure classification
  - service/sync.go: the only production caller
*/
package fred

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/macroview/indicator-engine/ratelimit"
	"github.com/macroview/indicator-engine/series"
)

// DefaultBaseURL is the production FRED API root.
const DefaultBaseURL = "https://api.stlouisfed.org/fred"

// FRED's published quota: 120 calls per rolling minute.
const (
	CallsPerWindow = 120
	CallWindow     = time.Minute
)

const (
	endpointMetadata     = "series"
	endpointObservations = "series/observations"

	// Observation bodies run to thousands of rows and get the longer
	// deadline.
	metadataTimeout     = 10 * time.Second
	observationsTimeout = 15 * time.Second
)

// Config carries client construction options. Zero values fall back to
// the production base URL, a default HTTP client, and a fresh limiter
// at the published quota.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Limiter    *ratelimit.Limiter
}

// Client is a rate-limited FRED API client. Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *ratelimit.Limiter
}

// New builds a client from cfg.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.New(CallsPerWindow, CallWindow)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    httpClient,
		limiter: limiter,
	}
}

// FetchSeries retrieves metadata and observations for one series. A
// non-nil start bounds the observation range for incremental pulls.
func (c *Client) FetchSeries(ctx context.Context, seriesID string, start *time.Time) (*Series, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	log.Printf("[fred] fetching metadata for %s", seriesID)
	var meta metadataResponse
	if err := c.getJSON(ctx, endpointMetadata, seriesID, c.params(seriesID), metadataTimeout, &meta); err != nil {
		return nil, err
	}
	var metadata Metadata
	if len(meta.Seriess) > 0 {
		metadata = meta.Seriess[0]
	}

	params := c.params(seriesID)
	if start != nil {
		params.Set("observation_start", series.FormatDay(*start))
	}
	log.Printf("[fred] fetching observations for %s", seriesID)
	var obs observationsResponse
	if err := c.getJSON(ctx, endpointObservations, seriesID, params, observationsTimeout, &obs); err != nil {
		return nil, err
	}

	log.Printf("[fred] fetched %d observations for %s", len(obs.Observations), seriesID)
	return &Series{
		SeriesID:     seriesID,
		Metadata:     metadata,
		Observations: obs.Observations,
	}, nil
}

func (c *Client) params(seriesID string) url.Values {
	return url.Values{
		"series_id": []string{seriesID},
		"api_key":   []string{c.apiKey},
		"file_type": []string{"json"},
	}
}

// getJSON issues one GET under its own deadline and decodes the body
// into out, surfacing provider-embedded errors before payload decode.
func (c *Client) getJSON(ctx context.Context, endpoint, seriesID string, params url.Values, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return &RequestError{SeriesID: seriesID, Endpoint: endpoint, Message: err.Error(), reason: ErrTransport}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classify(seriesID, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &RequestError{SeriesID: seriesID, Endpoint: endpoint, Status: resp.StatusCode, reason: ErrHTTPStatus}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classify(seriesID, endpoint, err)
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &RequestError{SeriesID: seriesID, Endpoint: endpoint, Message: err.Error(), reason: ErrDecode}
	}
	if env.ErrorCode != nil {
		msg := env.ErrorMessage
		if msg == "" {
			msg = "unknown error"
		}
		return &RequestError{SeriesID: seriesID, Endpoint: endpoint, Code: *env.ErrorCode, Message: msg, reason: ErrProvider}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &RequestError{SeriesID: seriesID, Endpoint: endpoint, Message: err.Error(), reason: ErrDecode}
	}
	return nil
}
