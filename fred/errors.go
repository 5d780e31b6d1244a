/*
errors.go - Failure classification for provider calls

PURPOSE:
  Every way a FRED call can fail maps to exactly one sentinel, so
  callers branch on errors.Is instead of string matching. The sync
  orchestrator logs the class; nothing above the client ever sees a
  raw transport fault.

ERROR CATEGORIES:
  1. HTTP status failures - non-200 from either endpoint
  2. Provider failures    - error_code embedded in a 200 response
  3. Transport failures   - timeout, connection refused, other faults
  4. Decode failures      - response body is not the documented shape

USAGE:
  result, err := client.FetchSeries(ctx, "UNRATE", nil)
  if fred.IsTemporary(err) {
      // leave the series for the next scheduled sync
  }

SEE ALSO:
  - client.go: produces these errors
  - service/sync.go: decides what to do with them
*/
package fred

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrHTTPStatus is returned when an endpoint answers with a non-200 status.
	ErrHTTPStatus = errors.New("unexpected http status")

	// ErrProvider is returned when a 200 response embeds a provider error
	// code. The body is not series data and must not be parsed as such.
	ErrProvider = errors.New("provider reported error")

	// ErrTimeout is returned when a request exceeds its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrConnection is returned when the provider cannot be reached at all.
	ErrConnection = errors.New("connection failed")

	// ErrTransport is returned for any other network-level fault.
	ErrTransport = errors.New("transport failure")

	// ErrDecode is returned when a response body cannot be decoded.
	ErrDecode = errors.New("malformed provider response")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RequestError describes one failed provider call.
type RequestError struct {
	SeriesID string
	Endpoint string // "series" or "series/observations"
	Status   int    // HTTP status, for ErrHTTPStatus
	Code     int    // provider error_code, for ErrProvider
	Message  string
	reason   error // sentinel selecting the failure class
}

func (e *RequestError) Error() string {
	prefix := fmt.Sprintf("fred: %s: %s", e.SeriesID, e.Endpoint)
	switch {
	case errors.Is(e.reason, ErrHTTPStatus):
		return fmt.Sprintf("%s: http %d", prefix, e.Status)
	case errors.Is(e.reason, ErrProvider):
		return fmt.Sprintf("%s: provider error %d: %s", prefix, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s: %v: %s", prefix, e.reason, e.Message)
	}
}

func (e *RequestError) Unwrap() error {
	return e.reason
}

// classify maps a transport-level error from the HTTP client onto the
// matching sentinel. Deadline expiry surfaces as a net.Error with
// Timeout() true, dial failures mean the provider was unreachable.
func classify(seriesID, endpoint string, err error) *RequestError {
	reason := ErrTransport

	var netErr net.Error
	var opErr *net.OpError
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		reason = ErrTimeout
	case errors.As(err, &opErr) && opErr.Op == "dial":
		reason = ErrConnection
	}

	return &RequestError{
		SeriesID: seriesID,
		Endpoint: endpoint,
		Message:  err.Error(),
		reason:   reason,
	}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsTemporary reports whether the failure may clear by the next
// scheduled sync without code or configuration changes.
func IsTemporary(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrConnection) || errors.Is(err, ErrTransport) {
		return true
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) && errors.Is(reqErr.reason, ErrHTTPStatus) {
		return reqErr.Status >= http.StatusInternalServerError
	}
	return false
}

// IsProviderError reports whether the provider itself rejected the
// request (bad series ID, invalid key), which no retry will fix.
func IsProviderError(err error) bool {
	return errors.Is(err, ErrProvider)
}
