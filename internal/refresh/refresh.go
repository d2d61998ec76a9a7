// Package refresh implements the adaptive refresh controller (C5, spec.md
// §4.5): it turns a game's state plus recent network health into the
// orchestrator's next tick delay. Grounded directly on
// JobOrchestratorService.nextScheduleDelay/analyzeFixtures (base-interval
// selection by state, the maxDuration floor helper) and
// original_source/src/runtime/adaptive_refresh.py (the network-health
// buckets and game-state multiplier table this package's NextInterval
// reproduces almost line for line, translated from Python's float
// multipliers to Go's time.Duration arithmetic).
package refresh

import (
	"strings"
	"sync"
	"time"

	"github.com/ledmatrix/scoreboard/internal/domain/game"
)

// NetworkCondition is the controller's EWMA-like bucket over its request
// window (§4.5).
type NetworkCondition int

const (
	Excellent NetworkCondition = iota
	Good
	Poor
	Critical
)

func (c NetworkCondition) String() string {
	switch c {
	case Excellent:
		return "EXCELLENT"
	case Good:
		return "GOOD"
	case Poor:
		return "POOR"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// requestWindow bounds how many recent record_success/record_failure
// calls feed the failure-rate bucket — a sliding window rather than the
// original's unbounded cumulative ratio, so a long-running process keeps
// reacting to *recent* network health instead of diluting toward
// EXCELLENT forever. See DESIGN.md's C5 entry.
const requestWindow = 20

const (
	recentFailureWindow = 5 * time.Minute
	recentScoreWindow   = 120 * time.Second
	stableTickThreshold = 5
	finalStaleAfter     = 2 * time.Hour
	estimatedGameLength = 150 * time.Minute

	minInterval = 5 * time.Second
	maxInterval = 300 * time.Second
)

var intermissionLexicon = []string{
	"halftime", "break", "timeout", "commercial", "review", "intermission", "end",
}

// Intervals carries the base per-state durations from DeviceConfig (§3);
// kept as a small local struct rather than importing internal/config, so
// refresh has no dependency on how configuration gets assembled.
type Intervals struct {
	PregameSeconds int
	LiveSeconds    int
	FinalSeconds   int
}

// Controller holds the private state §4.5 names:
// (request_count, failure_count, last_failure_at, last_score_change_at,
// stable_tick_run, last_seen_snapshot), plus a bounded outcome ring for
// the network-health window.
type Controller struct {
	mu sync.Mutex

	outcomes    [requestWindow]bool
	outcomeHead int
	outcomeLen  int
	failureCt   int

	lastFailureAt time.Time

	lastSnapshot     *game.Game
	lastScoreAt      time.Time
	stableTickRun    int
}

func NewController() *Controller {
	return &Controller{}
}

// RecordSuccess is called by the orchestrator once per tick for each
// enabled league whose games came back without a stale entry.
func (c *Controller) RecordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recordOutcome(true)
}

// RecordFailure is called by the orchestrator once per tick for each
// enabled league that returned no games or a stale entry.
func (c *Controller) RecordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recordOutcome(false)
	c.lastFailureAt = time.Now()
}

func (c *Controller) recordOutcome(success bool) {
	if c.outcomeLen == requestWindow && !c.outcomes[c.outcomeHead] {
		c.failureCt--
	}
	c.outcomes[c.outcomeHead] = !success
	if !success {
		c.failureCt++
	}
	c.outcomeHead = (c.outcomeHead + 1) % requestWindow
	if c.outcomeLen < requestWindow {
		c.outcomeLen++
	}
}

// NetworkHealth reports the current bucket (§4.5's four-tier table).
func (c *Controller) NetworkHealth(now time.Time) NetworkCondition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.networkHealthLocked(now)
}

func (c *Controller) networkHealthLocked(now time.Time) NetworkCondition {
	recentFailure := !c.lastFailureAt.IsZero() && now.Sub(c.lastFailureAt) < recentFailureWindow

	if c.outcomeLen == 0 || c.failureCt == 0 {
		if recentFailure {
			return Critical
		}
		return Excellent
	}

	rate := float64(c.failureCt) / float64(c.outcomeLen)

	var bucket NetworkCondition
	switch {
	case rate >= 0.3:
		bucket = Critical
	case rate >= 0.1:
		bucket = Poor
	default:
		bucket = Good
	}
	if recentFailure && bucket < Critical {
		bucket = Critical
	}
	return bucket
}

func networkMultiplier(c NetworkCondition) float64 {
	switch c {
	case Excellent:
		return 1.0
	case Good:
		return 1.2
	case Poor:
		return 1.5
	default:
		return 2.0
	}
}

// NextInterval implements §4.5's next_interval(snapshot, now) → seconds
// contract. snapshot is nil when there is no featured game.
func (c *Controller) NextInterval(snapshot *game.Game, now time.Time, base Intervals) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	baseInterval := baseInterval(snapshot, base)
	adapted := float64(baseInterval) * networkMultiplier(c.networkHealthLocked(now))

	if snapshot != nil {
		adapted *= c.gameStateMultiplierLocked(*snapshot, now)
		c.updateGameTrackingLocked(*snapshot, now)
	}

	clamped := time.Duration(adapted)
	if clamped < minInterval {
		return minInterval
	}
	if clamped > maxInterval {
		return maxInterval
	}
	return clamped
}

func baseInterval(snapshot *game.Game, base Intervals) time.Duration {
	if snapshot == nil {
		final := time.Duration(base.FinalSeconds) * time.Second
		if final > 30*time.Second {
			return final
		}
		return 30 * time.Second
	}
	switch snapshot.State {
	case game.StatePre:
		return time.Duration(base.PregameSeconds) * time.Second
	case game.StateLive:
		return time.Duration(base.LiveSeconds) * time.Second
	default:
		return time.Duration(base.FinalSeconds) * time.Second
	}
}

func (c *Controller) gameStateMultiplierLocked(g game.Game, now time.Time) float64 {
	switch g.State {
	case game.StatePre:
		switch {
		case g.SecondsToStart >= 0 && g.SecondsToStart <= 300:
			return 0.5
		case g.SecondsToStart >= 0 && g.SecondsToStart <= 600:
			return 0.7
		case g.SecondsToStart > 3600:
			return 2.0
		}
		return 1.0
	case game.StateLive:
		if looksLikeIntermission(g.DisplayClock) || g.IsIntermission {
			return 1.5
		}
		if !c.lastScoreAt.IsZero() && now.Sub(c.lastScoreAt) < recentScoreWindow {
			return 0.8
		}
		if c.stableTickRun >= stableTickThreshold {
			return 1.3
		}
		return 1.0
	case game.StateFinal:
		estimatedEnd := g.StartTime.Add(estimatedGameLength)
		if now.Sub(estimatedEnd) > finalStaleAfter {
			return 2.0
		}
		return 1.0
	default:
		return 1.0
	}
}

func (c *Controller) updateGameTrackingLocked(g game.Game, now time.Time) {
	if c.lastSnapshot == nil {
		snap := g
		c.lastSnapshot = &snap
		return
	}
	lastTotal := c.lastSnapshot.Home.Score + c.lastSnapshot.Away.Score
	currentTotal := g.Home.Score + g.Away.Score
	if currentTotal != lastTotal {
		c.lastScoreAt = now
		c.stableTickRun = 0
	} else {
		c.stableTickRun++
	}
	snap := g
	c.lastSnapshot = &snap
}

// looksLikeIntermission implements §9's documented fallback for clients
// that don't populate Game.IsIntermission: a free-text lexicon match
// against the display clock (§4.5's "intermission lexicon").
func looksLikeIntermission(displayClock string) bool {
	lower := strings.ToLower(displayClock)
	for _, indicator := range intermissionLexicon {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
