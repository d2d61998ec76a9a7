package priority

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledmatrix/scoreboard/internal/domain/game"
	"github.com/ledmatrix/scoreboard/internal/domain/sport"
)

func mkGame(league, eventID string, state game.State, start time.Time, home, away int) game.Game {
	g := game.Game{
		League:    league,
		Sport:     sport.Lookup(sport.Basketball),
		EventID:   eventID,
		StartTime: start,
		State:     state,
		Home:      game.Team{ID: "h-" + eventID, Name: "Home " + eventID, Abbr: "HM", Score: home},
		Away:      game.Team{ID: "a-" + eventID, Name: "Away " + eventID, Abbr: "AW", Score: away},
		Period:    2,
	}
	return g
}

func TestChooseFeatured_LivePreferredOverFinal(t *testing.T) {
	now := time.Date(2026, 7, 30, 18, 0, 0, 0, time.UTC)
	wnba := mkGame("wnba", "1", game.StateFinal, now, 80, 78)
	nhl := mkGame("nhl", "2", game.StateLive, now, 1, 1)
	nhl.Sport = sport.Lookup(sport.Hockey)
	nhl.Period = 2

	result := ChooseFeatured(
		map[string][]game.Game{"wnba": {wnba}, "nhl": {nhl}},
		now,
		nil,
		Rules{Live: true},
		[]string{"wnba", "nhl"},
		nil,
	)

	require.NotNil(t, result.Game)
	assert.Equal(t, "nhl", result.Game.League)
	assert.Contains(t, result.Rationale, "LIVE game boost")
	assert.Contains(t, result.Rationale, "close game")
}

func TestChooseFeatured_FavoriteWinsOverLeagueBase(t *testing.T) {
	now := time.Date(2026, 7, 30, 18, 0, 0, 0, time.UTC)
	g1 := mkGame("nhl", "1", game.StateLive, now, 2, 1)
	g1.Away.Abbr = "SEA"
	g2 := mkGame("nhl", "2", game.StateLive, now, 3, 1)

	result := ChooseFeatured(
		map[string][]game.Game{"nhl": {g1, g2}},
		now,
		map[string][]string{"nhl": {"SEA"}},
		Rules{Live: true},
		[]string{"nhl"},
		nil,
	)

	require.NotNil(t, result.Game)
	assert.Equal(t, "1", result.Game.EventID)
	assert.Contains(t, result.Rationale, "favorite team")
	require.Len(t, result.Alternatives, 1)
	assert.Equal(t, "2", result.Alternatives[0].Game.EventID)
}

func TestChooseFeatured_ManualOverrideBypassesScoring(t *testing.T) {
	now := time.Date(2026, 7, 30, 18, 0, 0, 0, time.UTC)
	g1 := mkGame("nhl", "1", game.StateLive, now, 2, 1)
	g2 := mkGame("nba", "2", game.StateFinal, now, 10, 90)

	result := ChooseFeatured(
		map[string][]game.Game{"nhl": {g1}, "nba": {g2}},
		now,
		nil,
		Rules{Live: true},
		[]string{"nhl", "nba"},
		&ManualOverride{EventID: "2", ExpiresAt: now.Add(time.Hour)},
	)

	require.NotNil(t, result.Game)
	assert.Equal(t, "2", result.Game.EventID)
	assert.Equal(t, []string{"MANUAL OVERRIDE"}, result.Rationale)
}

func TestChooseFeatured_ExpiredOverrideFallsBackToScoring(t *testing.T) {
	now := time.Date(2026, 7, 30, 18, 0, 0, 0, time.UTC)
	g1 := mkGame("nhl", "1", game.StateLive, now, 2, 1)

	result := ChooseFeatured(
		map[string][]game.Game{"nhl": {g1}},
		now,
		nil,
		Rules{Live: true},
		[]string{"nhl"},
		&ManualOverride{EventID: "stale", ExpiresAt: now.Add(-time.Hour)},
	)

	require.NotNil(t, result.Game)
	assert.Equal(t, "1", result.Game.EventID)
	assert.NotEqual(t, []string{"MANUAL OVERRIDE"}, result.Rationale)
}

func TestChooseFeatured_NoGamesToday(t *testing.T) {
	yesterday := time.Date(2026, 7, 29, 18, 0, 0, 0, time.UTC)
	now := time.Date(2026, 7, 30, 18, 0, 0, 0, time.UTC)
	g1 := mkGame("nhl", "1", game.StateFinal, yesterday, 2, 1)

	result := ChooseFeatured(
		map[string][]game.Game{"nhl": {g1}},
		now,
		nil,
		Rules{Live: true},
		[]string{"nhl"},
		nil,
	)

	assert.Nil(t, result.Game)
}

func TestChooseFeatured_TieBrokenByEarlierStartTime(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	earlier := mkGame("nhl", "1", game.StateFinal, now.Add(-2*time.Hour), 5, 5)
	later := mkGame("nhl", "2", game.StateFinal, now.Add(-1*time.Hour), 5, 5)

	result := ChooseFeatured(
		map[string][]game.Game{"nhl": {later, earlier}},
		now,
		nil,
		Rules{Live: true},
		[]string{"nhl"},
		nil,
	)

	require.NotNil(t, result.Game)
	assert.Equal(t, "1", result.Game.EventID)
}

func TestChooseFeatured_AlternativesCappedAtFive(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	games := make([]game.Game, 0, 8)
	for i := 0; i < 8; i++ {
		games = append(games, mkGame("nhl", string(rune('a'+i)), game.StateFinal, now, 1, 1))
	}

	result := ChooseFeatured(
		map[string][]game.Game{"nhl": games},
		now,
		nil,
		Rules{Live: true},
		[]string{"nhl"},
		nil,
	)

	require.NotNil(t, result.Game)
	assert.Len(t, result.Alternatives, 5)
}
