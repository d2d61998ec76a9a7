// Package fetch implements the resilient HTTP fetcher (C1, spec.md §4.1):
// a two-tier cache fronting an upstream GET, guarded by a circuit breaker
// and an exponential-backoff retry policy. Grounded on
// external/sportmonks/client.go's doJSON/executeRequest shape, generalized
// away from one upstream and its Sportmonks-specific envelope types.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ledmatrix/scoreboard/internal/platform/cache"
	"github.com/ledmatrix/scoreboard/internal/platform/logging"
	"github.com/ledmatrix/scoreboard/internal/platform/metrics"
	"github.com/ledmatrix/scoreboard/internal/platform/resilience"
)

// errTransient marks a failure the retry loop should keep retrying, the
// same role external/sportmonks/client.go's errSportMonksTransient plays.
var errTransient = errors.New("fetch: transient upstream failure")

// Snapshot is the observability shape spec.md §4.1 names:
// {state, failure_count, last_failure_at, cache_entries}.
type Snapshot struct {
	State         resilience.CircuitState
	FailureCount  int
	LastFailureAt time.Time
	CacheEntries  int
}

// Config configures a Fetcher.
type Config struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *logging.Logger
	Cache          *cache.Cache
	CircuitBreaker resilience.CircuitBreakerConfig
	Retry          resilience.RetryPolicy
	Now            func() time.Time
	// Metrics, if set, records fetch attempts/failures/cache hits and
	// circuit state under Label (typically the league code).
	Metrics *metrics.Registry
	Label   string
}

// Fetcher is the C1 resilient HTTP fetcher. One instance typically serves
// one upstream (one league client, or the cloud config store).
type Fetcher struct {
	baseURL string
	client  *http.Client
	logger  *logging.Logger
	cache   *cache.Cache
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryPolicy
	now     func() time.Time
	flight  resilience.SingleFlight
	metrics *metrics.Registry
	label   string
}

func New(cfg Config) *Fetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if client.Transport == nil {
		client.Transport = otelhttp.NewTransport(http.DefaultTransport)
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = resilience.DefaultRetryPolicy()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Fetcher{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		logger:  logger,
		cache:   cfg.Cache,
		breaker: resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		retry:   retry,
		now:     now,
		metrics: cfg.Metrics,
		label:   cfg.Label,
	}
}

// Get implements spec.md §4.1's `get(endpoint, params, ttl_override?,
// allow_stale?) → bytes | none` contract. It never returns an error for
// network/HTTP failures — those degrade to (nil, false) after the cache
// and circuit-breaker policies run; an error return is reserved for
// context cancellation and programming errors, matching §4.1's "never
// throws to caller except on programming errors."
func (f *Fetcher) Get(ctx context.Context, endpoint string, params map[string]string, ttl time.Duration, allowStale bool) ([]byte, bool, error) {
	key := cache.Key(endpoint, params)

	if entry, ok := f.cache.Fresh(key); ok {
		f.observeCacheHit("memory")
		return entry.Value, true, nil
	}

	if err := f.breaker.Allow(); err != nil {
		f.recordCircuitState()
		return f.fallback(key, allowStale)
	}

	if f.metrics != nil {
		f.metrics.FetchAttempts.WithLabelValues(f.label).Inc()
	}

	// Concurrent callers for the same (endpoint, params) share one upstream
	// round trip — the same dedup external/sportmonks/client.go applies
	// around its own doJSON call.
	result, fetchErr, _ := f.flight.Do(key, func() (any, error) {
		raw, err := f.executeWithRetry(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		return raw, nil
	})
	if fetchErr != nil {
		f.breaker.RecordFailure()
		f.recordCircuitState()
		if f.metrics != nil {
			f.metrics.FetchFailures.WithLabelValues(f.label).Inc()
		}
		f.logger.WarnContext(ctx, "fetch upstream failed", "endpoint", endpoint, "error", fetchErr)
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return f.fallback(key, allowStale)
	}

	f.breaker.RecordSuccess()
	f.recordCircuitState()
	raw := result.([]byte)
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	f.cache.Set(key, raw, ttl)
	return raw, true, nil
}

func (f *Fetcher) observeCacheHit(tier string) {
	if f.metrics != nil {
		f.metrics.CacheHits.WithLabelValues(tier).Inc()
	}
}

func (f *Fetcher) recordCircuitState() {
	if f.metrics != nil {
		f.metrics.CircuitState.WithLabelValues(f.label).Set(metrics.CircuitStateValue(string(f.breaker.State())))
	}
}

// fallback returns the last known value regardless of expiry when
// allowStale is set (§4.1 "HTTP failure with allow_stale"), else (nil,
// false).
func (f *Fetcher) fallback(key string, allowStale bool) ([]byte, bool, error) {
	if !allowStale {
		return nil, false, nil
	}
	entry, ok := f.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	f.observeCacheHit("stale")
	return entry.Value, true, nil
}

// Observe returns the fetcher's current observability snapshot (§4.1).
func (f *Fetcher) Observe() Snapshot {
	snap := f.breaker.Observe()
	entries := 0
	if f.cache != nil {
		entries = f.cache.Entries()
	}
	return Snapshot{
		State:         snap.State,
		FailureCount:  snap.FailureCount,
		LastFailureAt: snap.LastFailureAt,
		CacheEntries:  entries,
	}
}

func (f *Fetcher) executeWithRetry(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	fullURL, err := f.buildURL(endpoint, params)
	if err != nil {
		return nil, err
	}

	var lastErr error
	var retryAfter time.Duration
	for attempt := 0; attempt < f.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := f.retry.Delay(attempt, retryAfter)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		raw, status, body, reqErr := f.doRequest(ctx, fullURL)
		if reqErr != nil {
			lastErr = fmt.Errorf("%w: %v", errTransient, reqErr)
			continue
		}
		if status >= 200 && status < 300 {
			return raw, nil
		}

		retryAfter = resilience.ParseRetryAfter(body.retryAfter, f.now())
		if !resilience.IsRetryableStatus(status) {
			return nil, fmt.Errorf("upstream status=%d: %s", status, abbreviate(raw))
		}
		lastErr = fmt.Errorf("%w: upstream status=%d: %s", errTransient, status, abbreviate(raw))
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: exhausted retries", errTransient)
	}
	return nil, lastErr
}

type responseHeaders struct {
	retryAfter string
}

func (f *Fetcher) doRequest(ctx context.Context, fullURL string) ([]byte, int, responseHeaders, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, responseHeaders{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, responseHeaders{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, resp.StatusCode, responseHeaders{}, fmt.Errorf("read response body: %w", err)
	}

	return raw, resp.StatusCode, responseHeaders{retryAfter: resp.Header.Get("Retry-After")}, nil
}

func (f *Fetcher) buildURL(endpoint string, params map[string]string) (string, error) {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	full := f.baseURL + endpoint
	if encoded := values.Encode(); encoded != "" {
		full += "?" + encoded
	}
	if _, err := url.Parse(full); err != nil {
		return "", fmt.Errorf("build request url: %w", err)
	}
	return full, nil
}

func abbreviate(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

// TTLForDate selects the cache TTL spec.md §4.1 assigns by date: past
// dates get the longest TTL (scores are final and won't change), today
// gets the shortest (the board is actively polling for live updates),
// future dates sit in between (schedules rarely shift same-day).
func TTLForDate(date, now time.Time) time.Duration {
	dy, dm, dd := date.Date()
	ny, nm, nd := now.Date()
	switch {
	case dy == ny && dm == nm && dd == nd:
		return 5 * time.Minute
	case date.Before(time.Date(ny, nm, nd, 0, 0, 0, 0, date.Location())):
		return time.Hour
	default:
		return 30 * time.Minute
	}
}
