package board

import (
	"image"
	"sort"
	"sync"

	"github.com/ledmatrix/scoreboard/internal/platform/logging"
)

const historyCap = 100

// Manager holds the active board set, the current selection, its
// transition history, and any queued interrupts — the Go shape of
// original_source/src/boards/manager.py's BoardManager.
type Manager struct {
	mu         sync.Mutex
	boards     map[string]Board
	current    Board
	history    []string
	interrupts []string
	logger     *logging.Logger
}

func NewManager(boards map[string]Board, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Default()
	}
	return &Manager{boards: boards, logger: logger}
}

// QueueInterrupt schedules board to be selected on the next NextBoard
// call (§4.7's "ALERT-like semantics" for a queued interrupt name).
func (m *Manager) QueueInterrupt(boardName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interrupts = append(m.interrupts, boardName)
}

// NextBoard implements §4.7's "Board selection" sequence: queued
// interrupt, then the highest-priority enabled board whose ShouldDisplay
// is true among ctx.State's Rotations membership. Boards outside the
// current state's rotation — alert included — are never candidates here;
// alert only ever runs via QueueInterrupt.
func (m *Manager) NextBoard(ctx Context) Board {
	m.mu.Lock()
	if len(m.interrupts) > 0 {
		name := m.interrupts[0]
		m.interrupts = m.interrupts[1:]
		m.mu.Unlock()
		if b, ok := m.boards[name]; ok {
			return b
		}
		m.mu.Lock()
	}
	m.mu.Unlock()

	seen := map[string]bool{}
	var eligible []Board
	for _, name := range RotationBoardNames(ctx.State, ctx.Snapshot) {
		if seen[name] {
			continue
		}
		seen[name] = true
		b, ok := m.boards[name]
		if !ok || !b.Enabled() || !b.ShouldDisplay(ctx) {
			continue
		}
		eligible = append(eligible, b)
	}
	if len(eligible) == 0 {
		m.logger.Debug("board: no eligible board for context", "state", string(ctx.State))
		return nil
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Priority() != eligible[j].Priority() {
			return eligible[i].Priority() > eligible[j].Priority()
		}
		return eligible[i].Name() < eligible[j].Name()
	})
	return eligible[0]
}

// TransitionTo implements §4.7's transition lifecycle: on_exit → push
// into the capped history ring → on_enter → current := next. Selecting
// the already-current board is a no-op — lifecycle hooks MUST NOT fire
// for a same-board reselection.
func (m *Manager) TransitionTo(next Board) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if next == nil || next == m.current {
		return
	}
	if m.current != nil {
		m.current.OnExit()
		m.pushHistoryLocked(m.current.Name())
	}
	next.OnEnter()
	m.current = next
}

func (m *Manager) pushHistoryLocked(name string) {
	m.history = append(m.history, name)
	if len(m.history) > historyCap {
		m.history = m.history[len(m.history)-historyCap:]
	}
}

// History returns a copy of the transition history ring, oldest first.
func (m *Manager) History() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.history))
	copy(out, m.history)
	return out
}

// Current returns the currently selected board, or nil before the first
// transition.
func (m *Manager) Current() Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// RenderCurrent updates then renders the current board into buf, a no-op
// if no board has been selected yet.
func (m *Manager) RenderCurrent(buf *image.RGBA, ctx Context) {
	m.mu.Lock()
	current := m.current
	m.mu.Unlock()
	if current == nil {
		return
	}
	current.Update(ctx)
	current.Render(buf, ctx)
}

// HandleInterrupt routes an interrupt to the current board first (§4.7);
// if unhandled and kind is "force_board", it queues the named board for
// the scheduler's next selection.
func (m *Manager) HandleInterrupt(kind string, data any) {
	m.mu.Lock()
	current := m.current
	m.mu.Unlock()
	if current != nil && current.HandleInput(kind, data) {
		return
	}
	if kind == "force_board" {
		if name, ok := data.(string); ok {
			m.QueueInterrupt(name)
		}
	}
}
