package resilience

import (
	"testing"
	"time"
)

func TestRetryPolicy_Delay(t *testing.T) {
	p := DefaultRetryPolicy()

	if got := p.Delay(0, 0); got != p.BaseDelay {
		t.Fatalf("attempt 0 delay = %v, want %v", got, p.BaseDelay)
	}

	if got, want := p.Delay(1, 0), time.Duration(float64(p.BaseDelay)*1.5); got != want {
		t.Fatalf("attempt 1 delay = %v, want %v", got, want)
	}

	if got := p.Delay(2, 5*time.Second); got != 5*time.Second {
		t.Fatalf("retry-after override = %v, want 5s", got)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	cases := map[int]bool{
		200: false,
		400: false,
		404: false,
		429: true,
		500: true,
		502: true,
		503: true,
		504: true,
	}
	for status, want := range cases {
		if got := IsRetryableStatus(status); got != want {
			t.Errorf("IsRetryableStatus(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestParseRetryAfter_Seconds(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := ParseRetryAfter("5", now); got != 5*time.Second {
		t.Fatalf("got %v, want 5s", got)
	}
	if got := ParseRetryAfter("", now); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}
