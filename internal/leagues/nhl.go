package leagues

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ledmatrix/scoreboard/internal/domain/game"
	"github.com/ledmatrix/scoreboard/internal/domain/league"
	"github.com/ledmatrix/scoreboard/internal/domain/team"
	"github.com/ledmatrix/scoreboard/internal/fetch"
	"github.com/ledmatrix/scoreboard/internal/platform/logging"
)

// NHLClient fronts api-web.nhle.com, grounded on
// original_source/src/sports/leagues/nhl.py. The NHL feed uses its own
// status vocabulary (FUT/PRE/LIVE/CRIT/FINAL/OFF) and period descriptor
// shape, different enough from ESPN's that it isn't worth forcing through
// ESPNClient.
type NHLClient struct {
	league  league.League
	fetcher *fetch.Fetcher
	logger  *logging.Logger
}

func NewNHLClient(lg league.League, fetcher *fetch.Fetcher, logger *logging.Logger) *NHLClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &NHLClient{league: lg, fetcher: fetcher, logger: logger}
}

func (c *NHLClient) LeagueCode() string { return c.league.Code }

func (c *NHLClient) FetchGames(ctx context.Context, date time.Time) ([]game.Game, error) {
	endpoint := "/score/" + date.Format("2006-01-02")
	ttl := fetch.TTLForDate(date, time.Now())

	raw, ok, err := c.fetcher.Get(ctx, endpoint, nil, ttl, true)
	if err != nil {
		return nil, fmt.Errorf("fetch nhl score: %w", err)
	}
	if !ok {
		c.logger.WarnContext(ctx, "nhl score feed unavailable")
		return nil, nil
	}

	var envelope nhlScoreEnvelope
	if err := jsoniter.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode nhl score: %w", err)
	}

	games := make([]game.Game, 0, len(envelope.Games))
	for _, item := range envelope.Games {
		g, skip := c.parseGame(item)
		if skip {
			continue
		}
		games = append(games, g)
	}
	return games, nil
}

func (c *NHLClient) parseGame(item nhlGame) (game.Game, bool) {
	id := strconv.FormatInt(item.ID, 10)
	if item.ID == 0 {
		c.logger.Warn("nhl game missing id")
		return game.Game{}, true
	}
	if item.HomeTeam.ID == 0 || item.AwayTeam.ID == 0 {
		c.logger.Warn("nhl game missing home/away distinction", "event_id", id)
		return game.Game{}, true
	}

	startTime, err := time.Parse(time.RFC3339, item.StartTimeUTC)
	if err != nil {
		c.logger.Warn("nhl game has unparseable start time", "event_id", id)
		return game.Game{}, true
	}

	state := mapNHLState(item.GameState)
	period := item.PeriodDescriptor.Number
	isShootout := item.PeriodDescriptor.PeriodType == "SO"

	home := game.Team{
		ID:    strconv.FormatInt(item.HomeTeam.ID, 10),
		Name:  firstNonEmpty(item.HomeTeam.Name.Default, item.HomeTeam.Abbrev),
		Abbr:  strings.ToUpper(item.HomeTeam.Abbrev),
		Score: item.HomeTeam.Score,
	}
	away := game.Team{
		ID:    strconv.FormatInt(item.AwayTeam.ID, 10),
		Name:  firstNonEmpty(item.AwayTeam.Name.Default, item.AwayTeam.Abbrev),
		Abbr:  strings.ToUpper(item.AwayTeam.Abbrev),
		Score: item.AwayTeam.Score,
	}

	secondsToStart := -1
	if state == game.StatePre {
		secondsToStart = int(time.Until(startTime).Seconds())
		if secondsToStart < 0 {
			secondsToStart = 0
		}
		period = 0
		home.Score = 0
		away.Score = 0
	}

	g := game.Game{
		League:         c.league.Code,
		Sport:          c.league.Sport,
		EventID:        id,
		StartTime:      startTime,
		State:          state,
		Home:           home,
		Away:           away,
		Period:         period,
		DisplayClock:   firstNonEmpty(item.Clock.TimeRemaining, "00:00"),
		SecondsToStart: secondsToStart,
		StatusDetail:   firstNonEmpty(item.GameScheduleState, item.PeriodDescriptor.PeriodType),
		IsIntermission: item.Clock.InIntermission,
		SportSpecific: game.SportSpecific{
			Shootout: isShootout,
		},
	}
	return g.Normalize(), false
}

func mapNHLState(raw string) game.State {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "FUT", "PRE":
		return game.StatePre
	case "OFF", "FINAL":
		return game.StateFinal
	default:
		return game.StateLive
	}
}

func (c *NHLClient) FetchTeams(ctx context.Context) ([]team.Record, error) {
	raw, ok, err := c.fetcher.Get(ctx, "/teams", nil, time.Hour, true)
	if err != nil {
		return nil, fmt.Errorf("fetch nhl teams: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var envelope nhlTeamsEnvelope
	if err := jsoniter.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode nhl teams: %w", err)
	}

	records := make([]team.Record, 0, len(envelope.Teams))
	for _, t := range envelope.Teams {
		if t.ID == 0 {
			continue
		}
		records = append(records, team.Record{
			ID:          strconv.FormatInt(t.ID, 10),
			LeagueCode:  c.league.Code,
			Abbr:        strings.ToUpper(t.TriCode),
			DisplayName: t.FullName,
		})
	}
	return records, nil
}

type nhlScoreEnvelope struct {
	Games []nhlGame `json:"games"`
}

type nhlGame struct {
	ID                int64              `json:"id"`
	GameState         string             `json:"gameState"`
	GameScheduleState string             `json:"gameScheduleState"`
	StartTimeUTC      string             `json:"startTimeUTC"`
	HomeTeam          nhlGameTeam        `json:"homeTeam"`
	AwayTeam          nhlGameTeam        `json:"awayTeam"`
	PeriodDescriptor  nhlPeriodDescriptor `json:"periodDescriptor"`
	Clock             nhlClock           `json:"clock"`
}

type nhlGameTeam struct {
	ID      int64       `json:"id"`
	Name    nhlTeamName `json:"name"`
	Abbrev  string      `json:"abbrev"`
	Score   int         `json:"score"`
}

type nhlTeamName struct {
	Default string `json:"default"`
}

type nhlPeriodDescriptor struct {
	Number     int    `json:"number"`
	PeriodType string `json:"periodType"`
}

type nhlClock struct {
	TimeRemaining  string `json:"timeRemaining"`
	InIntermission bool   `json:"inIntermission"`
}

type nhlTeamsEnvelope struct {
	Teams []nhlTeamEntry `json:"teams"`
}

type nhlTeamEntry struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	TriCode  string `json:"triCode"`
}
