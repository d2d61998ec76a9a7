package leagues

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ledmatrix/scoreboard/internal/domain/game"
	"github.com/ledmatrix/scoreboard/internal/domain/league"
	"github.com/ledmatrix/scoreboard/internal/domain/team"
)

// DemoClient synthesizes a single game locally instead of fetching one,
// for the §6 `--demo`/`--demo-league`/`--demo-rotation` flags. Grounded
// on original_source/src/demo/simulator.py's DemoSimulator: a PRE period
// for the first 45s, then `RegulationPeriods` periods of `Rotation`
// length each with an occasional score bump, then FINAL forever after.
type DemoClient struct {
	lg       league.League
	rotation time.Duration
	start    time.Time
	rng      *rand.Rand
	clock    func() time.Time

	home, away team.Record

	// mutable simulation state, advanced on every FetchGames call
	homeScore, awayScore int
	nextScoreAt          time.Time
}

// DemoPregameWait is how long the synthesized game sits in PRE before
// going LIVE, mirroring DemoSimulator.__init__'s `now + timedelta(seconds=45)`.
const DemoPregameWait = 45 * time.Second

// NewDemoClient builds a demo client for lg, rooted at start (the moment
// the simulated game's pregame countdown begins) with periods of length
// rotation. favorites, if non-empty, seeds the two synthesized teams'
// names the way DemoSimulator.__init__ prefers the configured favorites
// over generic placeholders. clock defaults to time.Now; tests inject a
// fake one so the PRE->LIVE->FINAL transitions don't require real sleeps.
func NewDemoClient(lg league.League, start time.Time, rotation time.Duration, favorites []team.Record, clock func() time.Time) *DemoClient {
	if rotation <= 0 {
		rotation = 10 * time.Minute
	}
	if clock == nil {
		clock = time.Now
	}
	home := team.Record{ID: "HOM", LeagueCode: lg.Code, Abbr: "HOM", DisplayName: "Home"}
	away := team.Record{ID: "AWY", LeagueCode: lg.Code, Abbr: "AWY", DisplayName: "Away"}
	if len(favorites) > 0 {
		away = favorites[0]
	}
	if len(favorites) > 1 {
		home = favorites[1]
	}

	return &DemoClient{
		lg:          lg,
		rotation:    rotation,
		start:       start.Add(DemoPregameWait),
		rng:         rand.New(rand.NewSource(start.UnixNano())),
		clock:       clock,
		home:        home,
		away:        away,
		nextScoreAt: start.Add(DemoPregameWait),
	}
}

func (c *DemoClient) LeagueCode() string { return c.lg.Code }

// FetchGames ignores date: the demo client always reports its one
// synthesized game, evaluated against now (the date a real upstream
// would be asked for is irrelevant to a locally-simulated clock).
func (c *DemoClient) FetchGames(ctx context.Context, date time.Time) ([]game.Game, error) {
	now := c.clock()

	if now.Before(c.start) {
		secondsToStart := int(c.start.Sub(now).Seconds())
		return []game.Game{c.snapshot(game.StatePre, 0, "", secondsToStart, "Demo")}, nil
	}

	elapsed := now.Sub(c.start)
	period := 1 + int(elapsed/c.rotation)
	regulation := c.lg.Sport.RegulationPeriods

	if period > regulation {
		return []game.Game{c.snapshot(game.StateFinal, regulation, "00:00", -1, "Final")}, nil
	}

	c.maybeBumpScore(now)

	periodElapsed := elapsed % c.rotation
	remaining := c.rotation - periodElapsed
	clock := formatClock(remaining)
	return []game.Game{c.snapshot(game.StateLive, period, clock, -1, c.lg.Sport.PeriodLabel(period, false))}, nil
}

// maybeBumpScore randomly awards 1-3 points to one side every 10-30s of
// simulated game time, mirroring DemoSimulator.get_snapshot's scheduled
// score bump.
func (c *DemoClient) maybeBumpScore(now time.Time) {
	if now.Before(c.nextScoreAt) {
		return
	}
	points := []int{1, 2, 2, 3}[c.rng.Intn(4)]
	if c.rng.Float64() < 0.5 {
		c.awayScore += points
	} else {
		c.homeScore += points
	}
	c.nextScoreAt = now.Add(time.Duration(10+c.rng.Intn(21)) * time.Second)
}

func (c *DemoClient) snapshot(state game.State, period int, clock string, secondsToStart int, statusDetail string) game.Game {
	home, away := c.home, c.away
	g := game.Game{
		League:         c.lg.Code,
		Sport:          c.lg.Sport,
		EventID:        "demo-" + c.lg.Code,
		StartTime:      c.start,
		State:          state,
		Home:           game.Team{ID: home.ID, Name: home.DisplayName, Abbr: home.Abbr, PrimaryColor: home.PrimaryColor, SecondaryColor: home.SecondaryColor},
		Away:           game.Team{ID: away.ID, Name: away.DisplayName, Abbr: away.Abbr, PrimaryColor: away.PrimaryColor, SecondaryColor: away.SecondaryColor},
		Period:         period,
		DisplayClock:   clock,
		SecondsToStart: secondsToStart,
		StatusDetail:   statusDetail,
	}
	if state != game.StatePre {
		g.Home.Score = c.homeScore
		g.Away.Score = c.awayScore
	}
	return g.Normalize()
}

func (c *DemoClient) FetchTeams(ctx context.Context) ([]team.Record, error) {
	return []team.Record{c.home, c.away}, nil
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
