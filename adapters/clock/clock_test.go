package clock_test

import (
	"testing"
	"time"

	"github.com/modrig/modrig/adapters/clock"
	"github.com/modrig/modrig/ports"
)

var _ ports.Clock = clock.Real{}
var _ ports.Clock = (*clock.Fake)(nil)

func TestReal_Now(t *testing.T) {
	before := time.Now()
	got := clock.Real{}.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestFake(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	f := clock.NewFake(start)

	if got := f.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}

	// Time is frozen until the test moves it.
	if got := f.Now(); !got.Equal(start) {
		t.Errorf("second Now() = %v, want %v", got, start)
	}

	f.Advance(16 * time.Millisecond)
	if got := f.Now(); !got.Equal(start.Add(16 * time.Millisecond)) {
		t.Errorf("Now() after Advance = %v, want %v", got, start.Add(16*time.Millisecond))
	}

	later := start.Add(time.Hour)
	f.Set(later)
	if got := f.Now(); !got.Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", got, later)
	}
}
