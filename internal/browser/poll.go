package browser

import (
	"context"
	"time"
)

// defaultPollInterval is the fixed sleep between condition samples when the
// caller does not configure one.
const defaultPollInterval = 500 * time.Millisecond

// pollUntil samples cond until it returns true or the deadline passes.
//
// Every wait in this package goes through this loop. The condition is
// evaluated before the first sleep, so a condition that is already true
// incurs zero extra wait. The loop never busy-spins: each miss is followed
// by a fixed-interval sleep (clamped to the remaining budget). A timeout of
// zero or less samples the condition exactly once.
//
// Returns false when the deadline passes or ctx is cancelled before the
// condition holds.
func pollUntil(ctx context.Context, timeout, interval time.Duration, cond func() bool) bool {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	deadline := time.Now().Add(timeout)
	for {
		if ctx.Err() != nil {
			return false
		}
		if cond() {
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		sleep := interval
		if remaining < sleep {
			sleep = remaining
		}
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}
