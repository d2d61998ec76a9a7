// Package leagues implements the C2 league clients (spec.md §4.2): one
// client per league, each wrapping a C1 fetch.Fetcher and turning an
// upstream payload into normalized game.Game / team.Record values.
// Grounded on external/sportmonks/client.go's client shape (the teacher
// fronts one upstream the same way these front ESPN/NHL), and on
// original_source/src/sports/leagues/{nba,nhl,wnba}.py for the
// state-mapping and period-naming semantics each upstream needs.
package leagues

import (
	"context"
	"time"

	"github.com/ledmatrix/scoreboard/internal/domain/game"
	"github.com/ledmatrix/scoreboard/internal/domain/team"
)

// Client is the C2 contract: `fetch_games(date) → [Game]`,
// `fetch_teams() → [TeamRecord]`.
type Client interface {
	LeagueCode() string
	FetchGames(ctx context.Context, date time.Time) ([]game.Game, error)
	FetchTeams(ctx context.Context) ([]team.Record, error)
}

// mapState implements spec.md §4.2's upstream-status → game.State mapping,
// shared by every client regardless of upstream vocabulary.
func mapState(raw string) game.State {
	switch normalizeStatus(raw) {
	case "pre", "scheduled", "pregame":
		return game.StatePre
	case "post", "final", "finished", "complete":
		return game.StateFinal
	default:
		return game.StateLive
	}
}
