// Package aggregator implements the C3 fan-out across enabled leagues
// (spec.md §4.3). Grounded on
// internal/usecase/job_orchestrator_service.go's pickLeagues/run loop —
// generalized from sequential per-league work to bounded concurrent
// fan-out using golang.org/x/sync/errgroup, a dependency the teacher
// already carries (internal/app wires it for other concurrent work).
package aggregator

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledmatrix/scoreboard/internal/domain/game"
	"github.com/ledmatrix/scoreboard/internal/leagues"
	"github.com/ledmatrix/scoreboard/internal/platform/logging"
)

// MaxConcurrency bounds how many league fetches run at once; five covers
// every league this build registers (nba/wnba/nhl/mlb/nfl) with room to
// spare, so in practice every enabled league fetches in parallel.
const MaxConcurrency = 5

// Aggregator implements `all_games(date, enabled_leagues) →
// {league_code → [Game]}` (§4.3).
type Aggregator struct {
	registry map[string]leagues.Client
	logger   *logging.Logger
}

func New(registry map[string]leagues.Client, logger *logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Aggregator{registry: registry, logger: logger}
}

// AllGames fans out FetchGames across enabledLeagues concurrently.
// Per-league failures are isolated and logged (§4.3): a failing league
// simply contributes no entry to the result map rather than failing the
// whole call. The returned map is stable for the duration of one call —
// no further mutation happens after AllGames returns.
func (a *Aggregator) AllGames(ctx context.Context, date time.Time, enabledLeagues []string) map[string][]game.Game {
	var mu sync.Mutex
	result := make(map[string][]game.Game, len(enabledLeagues))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(MaxConcurrency)

	for _, code := range enabledLeagues {
		code := code
		client, ok := a.registry[code]
		if !ok {
			a.logger.Warn("aggregator: no client registered for enabled league", "league", code)
			continue
		}

		group.Go(func() error {
			games, err := client.FetchGames(gctx, date)
			if err != nil {
				a.logger.WarnContext(gctx, "aggregator: league fetch failed", "league", code, "error", err)
				return nil // isolated: never propagated to the group
			}
			mu.Lock()
			result[code] = games
			mu.Unlock()
			return nil
		})
	}

	_ = group.Wait() // every Go func swallows its own error; Wait never fails
	return result
}
