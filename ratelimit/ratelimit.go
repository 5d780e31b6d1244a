/*
Package ratelimit provides a sliding-window call limiter.

PURPOSE:
  The data provider allows a fixed number of API calls per rolling
  window (120 per 60 seconds for FRED). One Limiter instance is shared
  by everything that talks to the provider: the sync workers and the
  recent-updates sweep all draw from the same quota.

BEHAVIOR:
  Wait admits a caller immediately while the trailing window holds
  fewer than limit admissions. A saturated caller sleeps until the
  oldest admission ages out of the window, then re-checks. Admission
  times are recorded when the slot is granted, not when the caller
  arrived, so a long-blocked caller cannot smuggle an extra call into
  an already-full window.

  Safe for concurrent use: all state lives behind one mutex, and
  blocked callers re-validate after every sleep because a sibling may
  have taken the freed slot first.

USAGE:
  limiter := ratelimit.New(120, time.Minute)
  if err := limiter.Wait(ctx); err != nil {
      return err // context cancelled or deadline hit
  }
  // issue the API call
*/
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter admits at most limit calls within any trailing window.
type Limiter struct {
	limit  int
	window time.Duration

	mu    sync.Mutex
	calls []time.Time // admission times, ascending

	// Injected in tests to drive a fake clock.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a limiter admitting limit calls per window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Wait blocks until the caller is admitted or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		l.mu.Lock()
		now := l.now()
		l.prune(now)
		if len(l.calls) < l.limit {
			l.calls = append(l.calls, now)
			l.mu.Unlock()
			return nil
		}
		// Sleep until the oldest admission ages out, then re-check:
		// another caller may have taken the freed slot.
		wait := l.calls[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Used reports how many admissions currently sit in the window.
func (l *Limiter) Used() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.calls)
}

// Limit returns the window capacity.
func (l *Limiter) Limit() int {
	return l.limit
}

// prune drops admissions that have aged past the window. An admission
// exactly window old no longer counts.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.calls) && !l.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.calls = append(l.calls[:0], l.calls[i:]...)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
