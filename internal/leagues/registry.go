package leagues

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ledmatrix/scoreboard/internal/domain/league"
	"github.com/ledmatrix/scoreboard/internal/domain/team"
	"github.com/ledmatrix/scoreboard/internal/fetch"
	"github.com/ledmatrix/scoreboard/internal/platform/cache"
	"github.com/ledmatrix/scoreboard/internal/platform/logging"
	"github.com/ledmatrix/scoreboard/internal/platform/metrics"
	"github.com/ledmatrix/scoreboard/internal/platform/resilience"
)

// upstream base URLs, grounded on original_source/src/sports/leagues/*.py's
// LeagueAPIConfig.base_url literals.
const (
	espnNBABaseURL  = "http://site.api.espn.com/apis/site/v2/sports/basketball/nba"
	espnWNBABaseURL = "http://site.api.espn.com/apis/site/v2/sports/basketball/wnba"
	nhlBaseURL      = "https://api-web.nhle.com/v1"
)

// BuildOptions configures the registry's per-league fetchers.
type BuildOptions struct {
	HTTPClient *http.Client
	Logger     *logging.Logger
	CacheDir   string
	Metrics    *metrics.Registry // optional; nil disables per-league metric recording
}

// NewRegistry builds one Client each for nba, wnba and nhl (the other
// league.Known codes get no live client here), each wrapped in
// a dedicated fetch.Fetcher (one circuit breaker and cache per upstream,
// so a struggling NHL feed can't trip the NBA client's breaker).
func NewRegistry(opts BuildOptions) map[string]Client {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	newFetcher := func(leagueCode, baseURL string) *fetch.Fetcher {
		return fetch.New(fetch.Config{
			BaseURL:    baseURL,
			HTTPClient: opts.HTTPClient,
			Logger:     logger.With("league", leagueCode),
			Cache: cache.New(cache.Options{
				DiskDir: opts.CacheDir + "/" + leagueCode,
			}),
			CircuitBreaker: resilience.DefaultCircuitBreakerConfig(),
			Retry:          resilience.DefaultRetryPolicy(),
			Now:            time.Now,
			Metrics:        opts.Metrics,
			Label:          leagueCode,
		})
	}

	registry := map[string]Client{}
	registry["nba"] = NewESPNClient(league.Known["nba"], newFetcher("nba", espnNBABaseURL), logger)
	registry["wnba"] = NewESPNClient(league.Known["wnba"], newFetcher("wnba", espnWNBABaseURL), logger)
	registry["nhl"] = NewNHLClient(league.Known["nhl"], newFetcher("nhl", nhlBaseURL), logger)
	return registry
}

// WithStaticFallback wraps every client in the registry with its bundled
// roster, for callers (the orchestrator's boot path) that want the §4.2
// offline-fallback behavior by default.
func WithStaticFallback(registry map[string]Client, rosters map[string][]team.Record) map[string]Client {
	out := make(map[string]Client, len(registry))
	for code, client := range registry {
		out[code] = NewStaticFallbackClient(client, rosters[code])
	}
	return out
}

// Lookup returns the client for code, or an error if the league isn't
// registered — distinct from "disabled," which the aggregator handles by
// simply not calling an enabled-but-unregistered league.
func Lookup(registry map[string]Client, code string) (Client, error) {
	c, ok := registry[code]
	if !ok {
		return nil, fmt.Errorf("leagues: no client registered for %q", code)
	}
	return c, nil
}
