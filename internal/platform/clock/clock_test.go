package clock_test

import (
	"testing"
	"time"

	"folio/internal/platform/clock"
)

func TestEpochSecondsRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 10, 30, 15, 500_000_000, time.UTC)
	sec := clock.EpochSeconds(at)
	if sec != float64(at.Unix())+0.5 {
		t.Fatalf("unexpected epoch seconds %f", sec)
	}
	back := clock.FromEpochSeconds(sec)
	if !back.Equal(at) {
		t.Fatalf("round trip mismatch: %s != %s", back, at)
	}
}
