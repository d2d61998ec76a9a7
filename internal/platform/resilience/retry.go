package resilience

import (
	"math"
	"net/http"
	"time"
)

// RetryPolicy implements spec.md §4.1's exponential-backoff retry:
// attempts ≤ 3, base factor 1.5, honoring an upstream Retry-After header
// on 429/503. Grounded on external/sportmonks/client.go's executeRequest
// retry loop, generalized away from one upstream's error sentinel.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Factor      float64
}

// DefaultRetryPolicy matches spec.md's literal numbers.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 200 * time.Millisecond, Factor: 1.5}
}

// Delay returns how long to wait before attempt (0-indexed) given an
// optional Retry-After duration parsed from the prior response.
func (p RetryPolicy) Delay(attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		return retryAfter
	}
	backoff := float64(p.BaseDelay) * math.Pow(p.Factor, float64(attempt))
	return time.Duration(backoff)
}

// retryableStatuses are the upstream HTTP statuses spec.md §4.1 names as
// transient: 429, 500, 502, 503, 504.
var retryableStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// IsRetryableStatus reports whether status is one of spec.md's retriable
// codes. Any other non-2xx status, or a parse failure, is permanent.
func IsRetryableStatus(status int) bool {
	return retryableStatuses[status]
}

// ParseRetryAfter reads the Retry-After header, supporting both the
// delay-seconds and HTTP-date forms per RFC 7231 §7.1.3.
func ParseRetryAfter(header string, now time.Time) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := parseSeconds(header); err == nil {
		return time.Duration(secs) * time.Second
	}
	if when, err := http.ParseTime(header); err == nil {
		if d := when.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

func parseSeconds(s string) (int64, error) {
	var n int64
	var sign int64 = 1
	i := 0
	if len(s) == 0 {
		return 0, errEmptyRetryAfter
	}
	if s[0] == '-' {
		return 0, errEmptyRetryAfter // Retry-After is never negative
	}
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errEmptyRetryAfter
		}
		n = n*10 + int64(c-'0')
	}
	return n * sign, nil
}

var errEmptyRetryAfter = retryAfterParseError{}

type retryAfterParseError struct{}

func (retryAfterParseError) Error() string { return "retry-after: not a delay-seconds value" }
