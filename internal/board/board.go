// Package board implements the C7 board registry and scheduler (spec.md
// §4.7): state-driven rotation across named boards, a capability
// interface every board (built-in or plugin) satisfies, and the
// transition lifecycle between them. Grounded on
// original_source/src/boards/manager.py's BoardManager (selection order,
// transition hook pairing, history tracking), re-expressed as a
// compile-time capability registry per spec.md's own design notes, since
// Go has no equivalent to Python's runtime module import for plugins.
package board

import (
	"image"
	"time"

	"github.com/ledmatrix/scoreboard/internal/domain/game"
)

// State is the board scheduler's state machine (§4.7's rotation table).
type State string

const (
	StateIdle         State = "IDLE"
	StatePregame      State = "PREGAME"
	StateLive         State = "LIVE"
	StateIntermission State = "INTERMISSION"
	StatePostgame     State = "POSTGAME"
	StateAlert        State = "ALERT"
	StateManual       State = "MANUAL"
)

// pregameWindow and postgameWindow bound how long before/after a game
// the scheduler treats it as PREGAME/POSTGAME rather than IDLE (§4.7).
const (
	pregameWindow  = 30 * time.Minute
	postgameWindow = time.Hour
)

// Context is the per-tick runtime context passed to every board hook
// (§4.7's should_display(ctx)/update(ctx)/render(buffer, draw, ctx)).
// Extra carries anything a specific board variant needs beyond the common
// fields, keeping the contract stable as board types grow.
type Context struct {
	Snapshot  *game.Game
	Now       time.Time
	State     State
	Favorites map[string][]string
	Extra     map[string]any
}

// Board is the §4.7 capability contract every board — built-in or
// plugin — must satisfy.
type Board interface {
	Name() string
	Enabled() bool
	Priority() int
	ShouldDisplay(ctx Context) bool
	Update(ctx Context)
	Render(buf *image.RGBA, ctx Context)
	OnEnter()
	OnExit()
	HandleInput(kind string, data any) bool
	RefreshRate() time.Duration
}

// Rotation is one state's named board sequence and cycle duration. A zero
// Cycle means "forced" (no automatic rotation) — LIVE, ALERT, and MANUAL
// all hold their single/selected board until the state changes.
type Rotation struct {
	Boards []string
	Cycle  time.Duration
}

// Rotations is §4.7's "States and rotations" table. The "scoreboard"
// entry is a placeholder, not a registered board name: RotationBoardNames
// expands it to the featured game's sport-specific scoreboard board
// (falling back to scoreboard_generic) the way builtin.go registers them.
// ALERT is reachable only through Manager.QueueInterrupt — DetermineState
// never returns StateAlert — so its single-board rotation never competes
// with IDLE/PREGAME/etc. in the state-constrained selection.
var Rotations = map[State]Rotation{
	StateIdle:         {Boards: []string{"clock", "standings", "schedule"}, Cycle: 90 * time.Second},
	StatePregame:      {Boards: []string{"scoreboard", "team_stats", "standings"}, Cycle: 60 * time.Second},
	StateLive:         {Boards: []string{"scoreboard"}, Cycle: 0},
	StateIntermission: {Boards: []string{"scoreboard", "standings", "team_stats"}, Cycle: 90 * time.Second},
	StatePostgame:     {Boards: []string{"scoreboard", "standings", "schedule"}, Cycle: 120 * time.Second},
	StateAlert:        {Boards: []string{"alert"}, Cycle: 0},
	StateManual:       {Boards: nil, Cycle: 0},
}

// RotationBoardNames returns the concrete, registered board names eligible
// for state, resolving the "scoreboard" placeholder against snapshot's
// sport. Manager.NextBoard uses this to constrain its fallback selection
// to the current state's rotation membership instead of racing every
// registered board.
func RotationBoardNames(state State, snapshot *game.Game) []string {
	rotation, ok := Rotations[state]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(rotation.Boards)+1)
	for _, name := range rotation.Boards {
		if name != "scoreboard" {
			names = append(names, name)
			continue
		}
		if snapshot != nil {
			names = append(names, "scoreboard_"+string(snapshot.Sport.Code))
		}
		names = append(names, "scoreboard_generic")
	}
	return names
}

// DetermineState implements §4.7's per-tick state determination from the
// featured snapshot and clock.
func DetermineState(snapshot *game.Game, now time.Time) State {
	if snapshot == nil {
		return StateIdle
	}
	switch snapshot.State {
	case game.StatePre:
		secs := snapshot.SecondsToStart
		if secs > 0 && time.Duration(secs)*time.Second <= pregameWindow {
			return StatePregame
		}
		return StateIdle
	case game.StateLive:
		if snapshot.IsIntermission {
			return StateIntermission
		}
		return StateLive
	case game.StateFinal:
		estimatedEnd := snapshot.StartTime.Add(150 * time.Minute)
		if now.Sub(estimatedEnd) <= postgameWindow {
			return StatePostgame
		}
		return StateIdle
	default:
		return StateIdle
	}
}
