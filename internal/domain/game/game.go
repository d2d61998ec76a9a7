// Package game is the unit the aggregation, priority, refresh, and render
// layers all move around. Games are values: once constructed by a league
// client, nothing mutates them again (§3, Ownership and lifecycle).
package game

import (
	"fmt"
	"time"

	"github.com/ledmatrix/scoreboard/internal/domain/sport"
)

// State is a Game's lifecycle stage.
type State string

const (
	StatePre   State = "PRE"
	StateLive  State = "LIVE"
	StateFinal State = "FINAL"
)

// Team is one side of a Game.
type Team struct {
	ID             string
	Name           string
	Abbr           string
	Score          int
	PrimaryColor   string
	SecondaryColor string
	LogoRef        string
}

// SportSpecific carries the odd bits that don't generalize across sports:
// hockey's power play, a shootout marker, football's down/distance.
type SportSpecific struct {
	PowerPlay    bool
	Shootout     bool
	Down         int
	DistanceYds  int
	Possession   string
}

// Game is one game's observable state at a point in time.
type Game struct {
	League          string
	Sport           sport.Sport
	EventID         string
	StartTime       time.Time
	State           State
	Home            Team
	Away            Team
	Period          int
	PeriodName      string
	DisplayClock    string
	SecondsToStart  int
	StatusDetail    string
	IsIntermission  bool
	SportSpecific   SportSpecific
	Stale           bool
	UsedStaticFallback bool
}

// Key returns the (league, event_id) identity pair required to be unique
// within a day by §3's invariants.
func (g Game) Key() string {
	return g.League + ":" + g.EventID
}

// Validate checks the §3 invariants. It never mutates g; callers that find
// a violation are expected to discard the Game and log it (§7, Internal
// invariant violation) rather than try to repair it.
func (g Game) Validate() error {
	if g.EventID == "" {
		return fmt.Errorf("game: empty event id")
	}
	switch g.State {
	case StatePre:
		if g.Home.Score != 0 || g.Away.Score != 0 {
			return fmt.Errorf("game %s: PRE state with nonzero score", g.Key())
		}
		if g.SecondsToStart < 0 {
			return fmt.Errorf("game %s: PRE state with negative seconds_to_start", g.Key())
		}
		if g.Period != 0 {
			return fmt.Errorf("game %s: PRE state with nonzero period", g.Key())
		}
	case StateFinal:
		if g.Period < g.Sport.RegulationPeriods {
			return fmt.Errorf("game %s: FINAL state with period %d below regulation %d", g.Key(), g.Period, g.Sport.RegulationPeriods)
		}
		if g.SecondsToStart != -1 {
			return fmt.Errorf("game %s: FINAL state with seconds_to_start != -1", g.Key())
		}
	case StateLive:
		// no additional invariant beyond non-negative period/score, checked below.
	default:
		return fmt.Errorf("game %s: unknown state %q", g.Key(), g.State)
	}
	if g.Period < 0 {
		return fmt.Errorf("game %s: negative period", g.Key())
	}
	if g.Home.Score < 0 || g.Away.Score < 0 {
		return fmt.Errorf("game %s: negative score", g.Key())
	}
	if len(g.Home.Abbr) > 4 || len(g.Away.Abbr) > 4 {
		return fmt.Errorf("game %s: team abbr exceeds 4 characters", g.Key())
	}
	return nil
}

// Normalize defaults an empty Abbr to "UNK" per §3, and fills PeriodName
// from the sport's period label if the caller left it empty.
func (g Game) Normalize() Game {
	if g.Home.Abbr == "" {
		g.Home.Abbr = "UNK"
	}
	if g.Away.Abbr == "" {
		g.Away.Abbr = "UNK"
	}
	if g.PeriodName == "" {
		g.PeriodName = g.Sport.PeriodLabel(g.Period, g.SportSpecific.Shootout)
	}
	return g
}

// ScoreDiff returns |home-away|, used by the priority engine's
// close-game/somewhat-close bonuses.
func (g Game) ScoreDiff() int {
	d := g.Home.Score - g.Away.Score
	if d < 0 {
		return -d
	}
	return d
}

// IsOvertime reports whether the game is past regulation for its sport.
func (g Game) IsOvertime() bool {
	return g.Sport.IsOvertime(g.Period)
}
