package leagues

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledmatrix/scoreboard/internal/domain/game"
	"github.com/ledmatrix/scoreboard/internal/domain/league"
)

func TestDemoClient_PregameThenLiveThenFinal(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	clock := func() time.Time { return now }

	c := NewDemoClient(league.Known["nba"], start, time.Minute, nil, clock)

	games, err := c.FetchGames(context.Background(), start)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, game.StatePre, games[0].State)
	require.NoError(t, games[0].Validate())

	now = start.Add(DemoPregameWait + time.Second)
	games, err = c.FetchGames(context.Background(), start)
	require.NoError(t, err)
	assert.Equal(t, game.StateLive, games[0].State)
	require.NoError(t, games[0].Validate())

	regulation := league.Known["nba"].Sport.RegulationPeriods
	now = start.Add(DemoPregameWait).Add(time.Duration(regulation) * time.Minute)
	games, err = c.FetchGames(context.Background(), start)
	require.NoError(t, err)
	assert.Equal(t, game.StateFinal, games[0].State)
	require.NoError(t, games[0].Validate())
}

func TestDemoClient_FetchTeamsReturnsBothSides(t *testing.T) {
	c := NewDemoClient(league.Known["nhl"], time.Now(), time.Second, nil, nil)
	teams, err := c.FetchTeams(context.Background())
	require.NoError(t, err)
	assert.Len(t, teams, 2)
}

func TestDemoClient_LeagueCode(t *testing.T) {
	c := NewDemoClient(league.Known["wnba"], time.Now(), time.Second, nil, nil)
	assert.Equal(t, "wnba", c.LeagueCode())
}
