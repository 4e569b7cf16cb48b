package source

import (
	"context"
	"time"
)

// DataSource is the contract every event provider adapter implements.
//
// Name is the stable provenance key: it is stored on every Event row
// the adapter produces and must never be renamed once referenced.
// FetchEvents may be called with overlapping windows; adapters must
// re-supply the same logical records. A returned error is a
// whole-adapter failure for that cycle.
type DataSource interface {
	Name() string
	// SourceType is "api" or "scraper".
	SourceType() string
	Enabled() bool
	FetchEvents(ctx context.Context, start, end time.Time) ([]Record, error)
	Validate(rec Record) bool
	// RateLimitDelay is the adapter's declared inter-request delay,
	// honored between successive requests within one fetch.
	RateLimitDelay() time.Duration
}

// pause waits out an adapter's inter-request delay, aborting early
// when the context is cancelled.
func pause(ctx context.Context, d time.Duration) error {
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
