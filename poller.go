package main

import (
	"context"
	"time"
)

// Poll defaults. 5ms keeps change detection snappy without hammering the
// pasteboard; 5s tolerates applications that service a menu command slowly.
const (
	defaultPollInterval = 5 * time.Millisecond
	defaultPollTimeout  = 5 * time.Second
)

// pollUntil repeatedly evaluates predicate until it returns true, the timeout
// elapses, or ctx is cancelled. It reports whether the predicate succeeded.
// The predicate is evaluated once immediately before any sleep, so a condition
// that already holds returns without waiting.
func pollUntil(ctx context.Context, predicate func() bool, interval, timeout time.Duration) bool {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		if predicate() {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case <-tick.C:
			// next sample
		}
	}
}
