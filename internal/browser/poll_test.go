package browser

import (
	"context"
	"testing"
	"time"
)

func TestPollUntilAlreadyTrue(t *testing.T) {
	start := time.Now()
	ok := pollUntil(context.Background(), 5*time.Second, 500*time.Millisecond, func() bool {
		return true
	})
	if !ok {
		t.Fatal("expected true for an already-true condition")
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("already-true condition waited %v, want near-zero", elapsed)
	}
}

func TestPollUntilEventuallyTrue(t *testing.T) {
	calls := 0
	ok := pollUntil(context.Background(), 2*time.Second, 10*time.Millisecond, func() bool {
		calls++
		return calls >= 3
	})
	if !ok {
		t.Fatal("expected condition to hold on the third sample")
	}
	if calls != 3 {
		t.Errorf("condition sampled %d times, want 3", calls)
	}
}

func TestPollUntilTimeout(t *testing.T) {
	start := time.Now()
	ok := pollUntil(context.Background(), 100*time.Millisecond, 20*time.Millisecond, func() bool {
		return false
	})
	if ok {
		t.Fatal("expected false for a never-true condition")
	}
	elapsed := time.Since(start)
	if elapsed < 100*time.Millisecond {
		t.Errorf("returned after %v, before the deadline", elapsed)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("returned after %v, well past the deadline", elapsed)
	}
}

func TestPollUntilZeroTimeoutSamplesOnce(t *testing.T) {
	calls := 0
	ok := pollUntil(context.Background(), 0, 10*time.Millisecond, func() bool {
		calls++
		return false
	})
	if ok {
		t.Fatal("expected false")
	}
	if calls != 1 {
		t.Errorf("condition sampled %d times, want exactly 1", calls)
	}
}

func TestPollUntilContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := pollUntil(ctx, 5*time.Second, 10*time.Millisecond, func() bool {
		t.Fatal("condition sampled after cancellation")
		return false
	})
	if ok {
		t.Fatal("expected false on a cancelled context")
	}
}

func TestPollUntilSleepsBetweenSamples(t *testing.T) {
	var samples []time.Time
	pollUntil(context.Background(), 120*time.Millisecond, 50*time.Millisecond, func() bool {
		samples = append(samples, time.Now())
		return false
	})
	if len(samples) < 2 {
		t.Fatalf("got %d samples, want at least 2", len(samples))
	}
	for i := 1; i < len(samples); i++ {
		if gap := samples[i].Sub(samples[i-1]); gap < 40*time.Millisecond {
			t.Errorf("gap between samples %d and %d was %v, want at least the interval", i-1, i, gap)
		}
	}
}
