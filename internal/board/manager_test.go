package board

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledmatrix/scoreboard/internal/domain/game"
	"github.com/ledmatrix/scoreboard/internal/domain/sport"
)

type fakeBoard struct {
	name           string
	enabled        bool
	priority       int
	wantsDisplay   bool
	entered, exited int
}

func (b *fakeBoard) Name() string             { return b.name }
func (b *fakeBoard) Enabled() bool            { return b.enabled }
func (b *fakeBoard) Priority() int            { return b.priority }
func (b *fakeBoard) ShouldDisplay(Context) bool { return b.wantsDisplay }
func (b *fakeBoard) Update(Context)           {}
func (b *fakeBoard) Render(*image.RGBA, Context) {}
func (b *fakeBoard) OnEnter()                 { b.entered++ }
func (b *fakeBoard) OnExit()                  { b.exited++ }
func (b *fakeBoard) HandleInput(string, any) bool { return false }
func (b *fakeBoard) RefreshRate() time.Duration   { return time.Second }

func TestManager_NextBoard_PrefersHighestPriorityEligible(t *testing.T) {
	low := &fakeBoard{name: "schedule", enabled: true, priority: 10, wantsDisplay: true}
	high := &fakeBoard{name: "standings", enabled: true, priority: 50, wantsDisplay: true}
	m := NewManager(map[string]Board{"schedule": low, "standings": high}, nil)

	got := m.NextBoard(Context{State: StateIdle})
	assert.Equal(t, "standings", got.Name())
}

func TestManager_NextBoard_SkipsDisabledAndUnwilling(t *testing.T) {
	disabled := &fakeBoard{name: "clock", enabled: false, priority: 100, wantsDisplay: true}
	unwilling := &fakeBoard{name: "standings", enabled: true, priority: 90, wantsDisplay: false}
	willing := &fakeBoard{name: "schedule", enabled: true, priority: 5, wantsDisplay: true}
	m := NewManager(map[string]Board{"clock": disabled, "standings": unwilling, "schedule": willing}, nil)

	got := m.NextBoard(Context{State: StateIdle})
	require.NotNil(t, got)
	assert.Equal(t, "schedule", got.Name())
}

func TestManager_NextBoard_ConstrainedToCurrentStateRotation(t *testing.T) {
	idleMember := &fakeBoard{name: "clock", enabled: true, priority: 10, wantsDisplay: true}
	outOfRotation := &fakeBoard{name: "team_stats", enabled: true, priority: 1000, wantsDisplay: true}
	m := NewManager(map[string]Board{"clock": idleMember, "team_stats": outOfRotation}, nil)

	got := m.NextBoard(Context{State: StateIdle})
	require.NotNil(t, got)
	assert.Equal(t, "clock", got.Name(), "team_stats isn't in IDLE's rotation, even at higher priority")
}

func TestManager_NextBoard_AlertNeverWinsIdleByDefault(t *testing.T) {
	alert := &fakeBoard{name: "alert", enabled: true, priority: 1000, wantsDisplay: true}
	clock := &fakeBoard{name: "clock", enabled: true, priority: 10, wantsDisplay: true}
	m := NewManager(map[string]Board{"alert": alert, "clock": clock}, nil)

	got := m.NextBoard(Context{State: StateIdle})
	require.NotNil(t, got)
	assert.Equal(t, "clock", got.Name())
}

func TestManager_NextBoard_SportSpecificBeforeGeneric(t *testing.T) {
	specific := &fakeBoard{name: "scoreboard_basketball", enabled: true, priority: 100, wantsDisplay: true}
	generic := &fakeBoard{name: "scoreboard_generic", enabled: true, priority: 90, wantsDisplay: true}
	m := NewManager(map[string]Board{"scoreboard_basketball": specific, "scoreboard_generic": generic}, nil)

	g := &game.Game{Sport: sport.Lookup(sport.Basketball)}
	got := m.NextBoard(Context{State: StatePregame, Snapshot: g})
	assert.Equal(t, "scoreboard_basketball", got.Name())
}

func TestManager_NextBoard_FallsBackToGenericWhenSpecificUnwilling(t *testing.T) {
	specific := &fakeBoard{name: "scoreboard_basketball", enabled: true, priority: 100, wantsDisplay: false}
	generic := &fakeBoard{name: "scoreboard_generic", enabled: true, priority: 90, wantsDisplay: true}
	m := NewManager(map[string]Board{"scoreboard_basketball": specific, "scoreboard_generic": generic}, nil)

	g := &game.Game{Sport: sport.Lookup(sport.Basketball)}
	got := m.NextBoard(Context{State: StatePregame, Snapshot: g})
	assert.Equal(t, "scoreboard_generic", got.Name())
}

func TestManager_NextBoard_QueuedInterruptWins(t *testing.T) {
	alert := &fakeBoard{name: "alert", enabled: true, priority: 1000, wantsDisplay: true}
	m := NewManager(map[string]Board{"alert": alert}, nil)
	m.QueueInterrupt("alert")

	got := m.NextBoard(Context{State: StateIdle})
	assert.Equal(t, "alert", got.Name())
}

func TestManager_TransitionTo_FiresHooksAndHistory(t *testing.T) {
	a := &fakeBoard{name: "a"}
	b := &fakeBoard{name: "b"}
	m := NewManager(map[string]Board{"a": a, "b": b}, nil)

	m.TransitionTo(a)
	assert.Equal(t, 1, a.entered)
	assert.Empty(t, m.History())

	m.TransitionTo(b)
	assert.Equal(t, 1, a.exited)
	assert.Equal(t, 1, b.entered)
	assert.Equal(t, []string{"a"}, m.History())
}

func TestManager_TransitionTo_SameBoardIsNoop(t *testing.T) {
	a := &fakeBoard{name: "a"}
	m := NewManager(map[string]Board{"a": a}, nil)
	m.TransitionTo(a)
	m.TransitionTo(a)
	assert.Equal(t, 1, a.entered)
	assert.Equal(t, 0, a.exited)
}

func TestDetermineState(t *testing.T) {
	now := time.Date(2026, 7, 30, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, StateIdle, DetermineState(nil, now))

	pre := &game.Game{State: game.StatePre, SecondsToStart: 600, StartTime: now.Add(10 * time.Minute)}
	assert.Equal(t, StatePregame, DetermineState(pre, now))

	preFar := &game.Game{State: game.StatePre, SecondsToStart: 7200, StartTime: now.Add(2 * time.Hour)}
	assert.Equal(t, StateIdle, DetermineState(preFar, now))

	live := &game.Game{State: game.StateLive, StartTime: now.Add(-time.Hour)}
	assert.Equal(t, StateLive, DetermineState(live, now))

	liveIntermission := &game.Game{State: game.StateLive, StartTime: now.Add(-time.Hour), IsIntermission: true}
	assert.Equal(t, StateIntermission, DetermineState(liveIntermission, now))

	recentFinal := &game.Game{State: game.StateFinal, StartTime: now.Add(-3 * time.Hour)}
	assert.Equal(t, StatePostgame, DetermineState(recentFinal, now))

	oldFinal := &game.Game{State: game.StateFinal, StartTime: now.Add(-8 * time.Hour)}
	assert.Equal(t, StateIdle, DetermineState(oldFinal, now))
}
