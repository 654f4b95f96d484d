package worker

import (
	"testing"
	"time"
)

func TestExponentialBackoff_Growth(t *testing.T) {
	jitter := 250 * time.Millisecond

	tests := []struct {
		attempt int
		base    time.Duration
	}{
		{attempt: 0, base: 2 * time.Second},
		{attempt: 1, base: 4 * time.Second},
		{attempt: 2, base: 8 * time.Second},
		{attempt: 3, base: 16 * time.Second},
	}

	for _, tc := range tests {
		got := ExponentialBackoff(tc.attempt)

		if got < tc.base || got > tc.base+jitter {
			t.Fatalf("attempt %d: backoff = %s, want in [%s, %s]", tc.attempt, got, tc.base, tc.base+jitter)
		}
	}
}

func TestExponentialBackoff_Cap(t *testing.T) {
	capDelay := 5*time.Minute + 250*time.Millisecond

	for _, attempt := range []int{10, 20, 60} {
		if got := ExponentialBackoff(attempt); got > capDelay {
			t.Fatalf("attempt %d: backoff = %s exceeds cap", attempt, got)
		}
	}
}
