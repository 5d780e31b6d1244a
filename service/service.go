/*
Package service wires the FRED client, the SQLite store, the catalog,
and the health analyzer into the operations the API serves: keeping
stored series fresh, answering indicator queries, and maintaining the
recent-updates snapshot.

PURPOSE:
- SyncService pulls observations from FRED into the store behind a
  twelve-hour freshness gate, one transaction per series.
- IndicatorService answers single-indicator queries with formatted
  points, per-point year-over-year changes, and a period change.
- UpdatesService serves the recent-updates feed from a stored snapshot
  when it is young enough, and rebuilds it straight from FRED when not.

SEE ALSO:
- fred/client.go for fetch behavior and error classification
- store/sqlite/sqlite.go for the tables these services read and write
*/
package service

import (
	"context"
	"time"

	"github.com/macroview/indicator-engine/fred"
	"github.com/macroview/indicator-engine/series"
)

// Fetcher is the slice of the FRED client the services depend on.
type Fetcher interface {
	FetchSeries(ctx context.Context, seriesID string, start *time.Time) (*fred.Series, error)
}

// validPoints parses observations into points, dropping missing-value
// placeholders and anything that fails to parse.
func validPoints(obs []fred.Observation) []series.Point {
	var pts []series.Point
	for _, o := range obs {
		if o.Missing() {
			continue
		}
		p, err := o.Parse()
		if err != nil {
			continue
		}
		pts = append(pts, p)
	}
	return pts
}
