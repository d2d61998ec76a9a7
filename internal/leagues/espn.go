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

// ESPNClient fronts ESPN's public scoreboard API, shared by NBA and WNBA
// per original_source/src/sports/leagues/{nba,wnba}.py — both leagues hit
// the same site.api.espn.com shape, differing only in the sport path
// segment.
type ESPNClient struct {
	league  league.League
	fetcher *fetch.Fetcher
	logger  *logging.Logger
}

func NewESPNClient(lg league.League, fetcher *fetch.Fetcher, logger *logging.Logger) *ESPNClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &ESPNClient{league: lg, fetcher: fetcher, logger: logger}
}

func (c *ESPNClient) LeagueCode() string { return c.league.Code }

func (c *ESPNClient) FetchGames(ctx context.Context, date time.Time) ([]game.Game, error) {
	params := map[string]string{"dates": date.Format("20060102")}
	ttl := fetch.TTLForDate(date, time.Now())

	raw, ok, err := c.fetcher.Get(ctx, "/scoreboard", params, ttl, true)
	if err != nil {
		return nil, fmt.Errorf("fetch %s scoreboard: %w", c.league.Code, err)
	}
	if !ok {
		c.logger.WarnContext(ctx, "espn scoreboard unavailable", "league", c.league.Code)
		return nil, nil
	}

	var envelope espnScoreboard
	if err := jsoniter.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s scoreboard: %w", c.league.Code, err)
	}

	games := make([]game.Game, 0, len(envelope.Events))
	for _, event := range envelope.Events {
		g, skip := c.parseEvent(event)
		if skip {
			continue
		}
		games = append(games, g)
	}
	return games, nil
}

func (c *ESPNClient) parseEvent(event espnEvent) (game.Game, bool) {
	if event.ID == "" {
		c.logger.Warn("espn event missing id", "league", c.league.Code)
		return game.Game{}, true
	}
	if len(event.Competitions) == 0 {
		return game.Game{}, true
	}

	competition := event.Competitions[0]
	var home, away *game.Team
	for _, competitor := range competition.Competitors {
		t := &game.Team{
			ID:    competitor.Team.ID,
			Name:  competitor.Team.DisplayName,
			Abbr:  strings.ToUpper(competitor.Team.Abbreviation),
			Score: atoiSafe(competitor.Score),
		}
		switch competitor.HomeAway {
		case "home":
			home = t
		case "away":
			away = t
		}
	}
	if home == nil || away == nil {
		c.logger.Warn("espn event missing home/away distinction", "league", c.league.Code, "event_id", event.ID)
		return game.Game{}, true
	}

	startTime, err := time.Parse(time.RFC3339, event.Date)
	if err != nil {
		c.logger.Warn("espn event has unparseable start time", "league", c.league.Code, "event_id", event.ID)
		return game.Game{}, true
	}

	state := mapESPNState(event.Status.Type.Name)
	period := event.Status.Period

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
		EventID:        event.ID,
		StartTime:      startTime,
		State:          state,
		Home:           *home,
		Away:           *away,
		Period:         period,
		DisplayClock:   event.Status.DisplayClock,
		SecondsToStart: secondsToStart,
		StatusDetail:   event.Status.Type.Detail,
	}
	if state == game.StateFinal && g.SecondsToStart != -1 {
		g.SecondsToStart = -1
	}
	return g.Normalize(), false
}

func mapESPNState(statusName string) game.State {
	switch strings.ToUpper(statusName) {
	case "STATUS_SCHEDULED", "STATUS_POSTPONED":
		return game.StatePre
	case "STATUS_FINAL", "STATUS_FINAL_OT":
		return game.StateFinal
	default:
		return game.StateLive
	}
}

func (c *ESPNClient) FetchTeams(ctx context.Context) ([]team.Record, error) {
	raw, ok, err := c.fetcher.Get(ctx, "/teams", nil, time.Hour, true)
	if err != nil {
		return nil, fmt.Errorf("fetch %s teams: %w", c.league.Code, err)
	}
	if !ok {
		return nil, nil
	}

	var envelope espnTeamsEnvelope
	if err := jsoniter.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s teams: %w", c.league.Code, err)
	}

	var records []team.Record
	for _, sp := range envelope.Sports {
		for _, lg := range sp.Leagues {
			for _, item := range lg.Teams {
				t := item.Team
				if t.ID == "" {
					continue
				}
				records = append(records, team.Record{
					ID:             t.ID,
					LeagueCode:     c.league.Code,
					Abbr:           strings.ToUpper(t.Abbreviation),
					DisplayName:    t.DisplayName,
					PrimaryColor:   t.Color,
					SecondaryColor: t.AlternateColor,
					LogoPath:       firstLogoURL(t.Logos),
				})
			}
		}
	}
	return records, nil
}

func firstLogoURL(logos []espnLogo) string {
	if len(logos) == 0 {
		return ""
	}
	return logos[0].Href
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

type espnScoreboard struct {
	Events []espnEvent `json:"events"`
}

type espnEvent struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Status       espnStatus        `json:"status"`
	Competitions []espnCompetition `json:"competitions"`
}

type espnStatus struct {
	Period       int            `json:"period"`
	DisplayClock string         `json:"displayClock"`
	Type         espnStatusType `json:"type"`
}

type espnStatusType struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

type espnCompetition struct {
	Competitors []espnCompetitor `json:"competitors"`
}

type espnCompetitor struct {
	HomeAway string  `json:"homeAway"`
	Score    string  `json:"score"`
	Team     espnTeam `json:"team"`
}

type espnTeam struct {
	ID             string     `json:"id"`
	DisplayName    string     `json:"displayName"`
	Abbreviation   string     `json:"abbreviation"`
	Color          string     `json:"color"`
	AlternateColor string     `json:"alternateColor"`
	Logos          []espnLogo `json:"logos"`
}

type espnLogo struct {
	Href string `json:"href"`
}

type espnTeamsEnvelope struct {
	Sports []espnSportsEntry `json:"sports"`
}

type espnSportsEntry struct {
	Leagues []espnLeagueEntry `json:"leagues"`
}

type espnLeagueEntry struct {
	Teams []espnTeamEntry `json:"teams"`
}

type espnTeamEntry struct {
	Team espnTeam `json:"team"`
}
