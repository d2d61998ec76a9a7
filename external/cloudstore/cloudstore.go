// Package cloudstore implements the cloud configuration store spec.md §1
// calls out as an out-of-scope collaborator: "the cloud configuration
// store (a key/value source of device config and favorites)". It
// satisfies internal/config.CloudSource (polled on reload, priority 50)
// and internal/orchestrator.HeartbeatPoster (the §5 heartbeat worker that
// posts a last-seen timestamp). Grounded on external/sportmonks/client.go's
// ClientConfig/Client shape and doJSON's circuit-breaker-guarded request
// path, generalized from a sport-data GET API to a small device-config
// GET/POST one; reuses internal/fetch.Fetcher for the GET side instead of
// re-implementing its cache/retry/breaker stack.
package cloudstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ledmatrix/scoreboard/internal/fetch"
	"github.com/ledmatrix/scoreboard/internal/platform/cache"
	"github.com/ledmatrix/scoreboard/internal/platform/logging"
	"github.com/ledmatrix/scoreboard/internal/platform/resilience"
)

const (
	defaultConfigTTL   = 30 * time.Second
	defaultHTTPTimeout = 10 * time.Second
	configEndpointFmt  = "/devices/%s/config"
	heartbeatEndpoint  = "/heartbeats"
)

// ClientConfig configures a Store, mirroring external/sportmonks/client.go's
// ClientConfig shape.
type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	DeviceID       string
	Token          string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	ConfigTTL      time.Duration
	CacheDir       string // on-disk mirror for the config GET cache; "" disables the disk tier
}

// Store is the cloud-backed config.CloudSource / orchestrator.HeartbeatPoster
// implementation. One Store instance serves one device.
type Store struct {
	fetcher  *fetch.Fetcher
	httpClnt *http.Client
	baseURL  string
	deviceID string
	token    string
	logger   *logging.Logger
	breaker  *resilience.CircuitBreaker
	configTTL time.Duration

	mu     sync.RWMutex
	values map[string]any
}

// New builds a Store. DeviceID must be non-empty; it addresses both the
// config-poll and heartbeat-post endpoints.
func New(cfg ClientConfig) (*Store, error) {
	if strings.TrimSpace(cfg.DeviceID) == "" {
		return nil, fmt.Errorf("cloudstore: DeviceID is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	configTTL := cfg.ConfigTTL
	if configTTL <= 0 {
		configTTL = defaultConfigTTL
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	return &Store{
		fetcher: fetch.New(fetch.Config{
			BaseURL:        baseURL,
			HTTPClient:     httpClient,
			Logger:         logger,
			Cache:          cache.New(cache.Options{DiskDir: cfg.CacheDir}),
			CircuitBreaker: cfg.CircuitBreaker,
		}),
		httpClnt:  httpClient,
		baseURL:   baseURL,
		deviceID:  cfg.DeviceID,
		token:     cfg.Token,
		logger:    logger,
		breaker:   resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		configTTL: configTTL,
		values:    map[string]any{},
	}, nil
}

// Priority implements config.Source: the cloud store sits between env and
// defaults in §4.6's layering table.
func (s *Store) Priority() int { return 50 }

// Get implements config.Source, reading the last successfully refreshed
// payload.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Refresh implements config.CloudSource: it polls the device's config
// document and, on success, atomically replaces the in-memory key/value
// snapshot Get reads from. A fetch failure leaves the previous snapshot in
// place — the same "degrade to cached values" behavior
// internal/config.Provider.Reload already expects from a CloudSource.
func (s *Store) Refresh(ctx context.Context) error {
	endpoint := fmt.Sprintf(configEndpointFmt, s.deviceID)
	body, ok, err := s.fetcher.Get(ctx, endpoint, nil, s.configTTL, true)
	if err != nil {
		return fmt.Errorf("cloudstore: refresh config: %w", err)
	}
	if !ok {
		return fmt.Errorf("cloudstore: config unavailable for device %s", s.deviceID)
	}

	var payload map[string]any
	if err := jsoniter.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("cloudstore: decode config payload: %w", err)
	}

	s.mu.Lock()
	s.values = payload
	s.mu.Unlock()
	return nil
}

// heartbeatRequest is the envelope posted to heartbeatEndpoint.
type heartbeatRequest struct {
	DeviceID string    `json:"device_id"`
	LastSeen time.Time `json:"last_seen"`
}

// PostHeartbeat implements orchestrator.HeartbeatPoster (§5: "periodically
// posts a last-seen timestamp to the cloud store"). It is guarded by its
// own circuit breaker rather than the Fetcher's, since a POST has no
// cached fallback to degrade to.
func (s *Store) PostHeartbeat(ctx context.Context, now time.Time) error {
	if err := s.breaker.Allow(); err != nil {
		return fmt.Errorf("cloudstore: heartbeat circuit open: %w", err)
	}

	payload, err := json.Marshal(heartbeatRequest{DeviceID: s.deviceID, LastSeen: now.UTC()})
	if err != nil {
		s.breaker.RecordFailure()
		return fmt.Errorf("cloudstore: encode heartbeat: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+heartbeatEndpoint, bytes.NewReader(payload))
	if err != nil {
		s.breaker.RecordFailure()
		return fmt.Errorf("cloudstore: build heartbeat request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	if s.token != "" {
		req.Header.Set("authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClnt.Do(req)
	if err != nil {
		s.breaker.RecordFailure()
		return fmt.Errorf("cloudstore: post heartbeat: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.breaker.RecordFailure()
		return fmt.Errorf("cloudstore: heartbeat upstream status=%d", resp.StatusCode)
	}

	s.breaker.RecordSuccess()
	return nil
}
