package leagues

import (
	"context"
	"time"

	"github.com/ledmatrix/scoreboard/internal/domain/game"
	"github.com/ledmatrix/scoreboard/internal/domain/team"
)

// StaticFallbackClient decorates another Client with a bundled static
// roster, used when both upstream and cache are empty (§4.2 "Offline
// fallback"). FetchGames always defers to the wrapped client — a static
// roster has no game schedule to offer — while FetchTeams substitutes the
// roster only on an empty live result, surfacing UsedStaticFallback so
// callers don't mistake it for a live feed.
type StaticFallbackClient struct {
	inner  Client
	roster []team.Record
}

func NewStaticFallbackClient(inner Client, roster []team.Record) *StaticFallbackClient {
	return &StaticFallbackClient{inner: inner, roster: roster}
}

func (c *StaticFallbackClient) LeagueCode() string { return c.inner.LeagueCode() }

func (c *StaticFallbackClient) FetchGames(ctx context.Context, date time.Time) ([]game.Game, error) {
	return c.inner.FetchGames(ctx, date)
}

// FetchTeamsWithFallback reports, alongside the records, whether the
// static roster had to be substituted (§4.2's used_static_fallback flag).
func (c *StaticFallbackClient) FetchTeamsWithFallback(ctx context.Context) ([]team.Record, bool, error) {
	records, err := c.inner.FetchTeams(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(records) > 0 {
		return records, false, nil
	}
	if len(c.roster) == 0 {
		return nil, false, nil
	}
	return c.roster, true, nil
}

func (c *StaticFallbackClient) FetchTeams(ctx context.Context) ([]team.Record, error) {
	records, _, err := c.FetchTeamsWithFallback(ctx)
	return records, err
}
