// Package orchestrator implements the C10 main loop and lifecycle
// (spec.md §4.10): the single tick loop that turns a clock tick into a
// fetched/selected/rendered/flushed frame, plus the optional helper
// goroutines and signal wiring around it. Grounded on cmd/api/main.go's
// signal.NotifyContext + graceful-shutdown shape, generalized from an
// HTTP server's request/response lifecycle to this package's
// fetch/select/render/flush tick lifecycle.
package orchestrator

import (
	"context"
	"image"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ledmatrix/scoreboard/internal/aggregator"
	"github.com/ledmatrix/scoreboard/internal/board"
	"github.com/ledmatrix/scoreboard/internal/config"
	"github.com/ledmatrix/scoreboard/internal/display"
	"github.com/ledmatrix/scoreboard/internal/domain/game"
	"github.com/ledmatrix/scoreboard/internal/leagues"
	"github.com/ledmatrix/scoreboard/internal/platform/logging"
	"github.com/ledmatrix/scoreboard/internal/platform/metrics"
	"github.com/ledmatrix/scoreboard/internal/priority"
	"github.com/ledmatrix/scoreboard/internal/refresh"
	"github.com/ledmatrix/scoreboard/internal/scene"
)

// tickCooldown is the §4.10 "retries after a 5-second cooldown" delay
// applied after a tick returns an error (a setup-level failure inside
// the loop body, distinct from the non-fatal display-flush failure that
// just logs and continues).
const tickCooldown = 5 * time.Second

// SinkFactory builds a display.Sink sized to geom, used both for the
// initial sink and to rebuild one after a geometry-changing config
// reload (§5 Ordering guarantees: "no renderer or board observes a
// half-updated config").
type SinkFactory func(geom config.MatrixGeometry) (display.Sink, error)

// Options assembles an Orchestrator from already-built collaborators.
// Orchestrator's own job is the tick loop and lifecycle, not wiring up
// leagues/assets/fonts — those are the composition root's (cmd) job, the
// same separation cmd/api/main.go keeps between config.Load and
// app.NewHTTPServer.
type Options struct {
	Provider    *config.Provider
	Leagues     map[string]leagues.Client
	Logos       scene.LogoProvider // may be nil: scenes then leave logo slots empty
	Fonts       *scene.Fonts
	SinkFactory SinkFactory
	Logger      *logging.Logger
	Clock       func() time.Time // defaults to time.Now
	Heartbeat   HeartbeatPoster  // optional helper worker
	Commands    CommandListener  // optional helper worker
	PluginDir   string           // optional board.yaml plugin directory (§4.7)
	Metrics     *metrics.Registry // optional; nil disables metric recording
}

// Orchestrator owns the tick loop described in spec.md §4.10 and the
// concurrency/shutdown model in §5.
type Orchestrator struct {
	provider    *config.Provider
	agg         *aggregator.Aggregator
	refreshCtl  *refresh.Controller
	manager     *board.Manager
	logos       scene.LogoProvider
	fonts       *scene.Fonts
	sinkFactory SinkFactory
	sink        display.Sink
	logger      *logging.Logger
	clock       func() time.Time
	heartbeat   HeartbeatPoster
	commands    CommandListener
	metrics     *metrics.Registry

	shutdown atomic.Bool
}

// New builds an Orchestrator, including its initial display sink and the
// board set wired to internal/scene's renderer. Returns an error only for
// the §7 "setup failure (fatal)" shape.
func New(opts Options) (*Orchestrator, error) {
	if opts.Provider == nil {
		return nil, errors.New("orchestrator: Provider is required")
	}
	if opts.SinkFactory == nil {
		return nil, errors.New("orchestrator: SinkFactory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	o := &Orchestrator{
		provider:    opts.Provider,
		agg:         aggregator.New(opts.Leagues, logger),
		refreshCtl:  refresh.NewController(),
		logos:       opts.Logos,
		fonts:       opts.Fonts,
		sinkFactory: opts.SinkFactory,
		logger:      logger,
		clock:       clock,
		heartbeat:   opts.Heartbeat,
		commands:    opts.Commands,
		metrics:     opts.Metrics,
	}

	sink, err := opts.SinkFactory(opts.Provider.Current().Matrix)
	if err != nil {
		return nil, errors.Wrap(err, "orchestrator: build initial display sink")
	}
	o.sink = sink
	o.manager = board.NewManager(o.buildBoards(opts.PluginDir), logger)

	return o, nil
}

// buildBoards instantiates one Board per registered factory name (§4.7),
// wiring internal/scene's Paint function into every board that accepts a
// SceneRenderer via board.RendererSetter, then layers in any declarative
// board.yaml plugins found under pluginDir (empty or missing is fine — a
// deployment with no plugins just gets the compiled-in board set).
func (o *Orchestrator) buildBoards(pluginDir string) map[string]board.Board {
	boards := make(map[string]board.Board, len(board.Names()))
	for _, name := range board.Names() {
		b, ok := board.New(name)
		if !ok {
			continue
		}
		if rs, ok := b.(board.RendererSetter); ok {
			rs.SetRenderer(o.paintScene)
		}
		boards[name] = b
	}
	if pluginDir != "" {
		for _, b := range board.LoadPlugins(pluginDir, o.logger) {
			boards[b.Name()] = b
		}
	}
	return boards
}

// paintScene is the board.SceneRenderer wired into every scoreboard
// board instance, closing over the fonts/logo provider this Orchestrator
// was built with.
func (o *Orchestrator) paintScene(buf *image.RGBA, ctx board.Context) {
	biglogos, _ := ctx.Extra["biglogos"].(bool)
	scene.Paint(buf, scene.Input{
		Game:  ctx.Snapshot,
		Now:   ctx.Now,
		Fonts: o.fonts,
		Logos: o.logos,
	}, biglogos)
}

// RequestReload marks the next tick's reload check as due, the effect a
// SIGHUP/SIGUSR1 handler (or a remote APPLY_CONFIG command) has on the
// loop (§6 Signals).
func (o *Orchestrator) RequestReload() { o.provider.RequestReload() }

// RequestShutdown sets the cooperative shutdown flag §5 describes:
// checked every tick and between sleep polls, so the loop exits within
// its next poll interval rather than mid-tick.
func (o *Orchestrator) RequestShutdown() { o.shutdown.Store(true) }

// Run executes the §4.10 per-tick sequence until ctx is cancelled,
// RequestShutdown is called, or (in once mode) a single tick completes.
// It always returns nil: loop-body failures are absorbed into a logged
// retry-after-cooldown per §7, matching the only three failure shapes
// the orchestrator itself is allowed to see (configuration error on
// reload, non-fatal display flush failure, and setup failure — which New
// already surfaces before Run is ever called).
func (o *Orchestrator) Run(ctx context.Context, once bool) error {
	stopHelpers := o.startHelpers(ctx)
	defer stopHelpers()
	defer func() {
		if err := o.sink.Close(); err != nil {
			o.logger.Warn("orchestrator: error closing display sink", "error", err)
		}
	}()

	for {
		if o.shutdown.Load() || ctx.Err() != nil {
			return nil
		}

		now := o.clock()
		snapshot, cfg, err := o.tick(ctx, now)
		if err != nil {
			o.logger.Error("orchestrator: tick failed, retrying after cooldown", "error", err)
			if !o.sleepInterruptible(ctx, tickCooldown) {
				return nil
			}
			continue
		}

		if once {
			return nil
		}

		interval := o.refreshCtl.NextInterval(snapshot, now, refreshIntervalsFor(snapshot, cfg))
		if o.metrics != nil {
			o.metrics.RefreshInterval.Set(interval.Seconds())
		}
		if !o.sleepInterruptible(ctx, interval) {
			return nil
		}
	}
}

// refreshIntervalsFor builds the base intervals NextInterval adapts,
// substituting the featured game's per-league override (§10) field by
// field over cfg.Refresh when snapshot names a league with one configured.
func refreshIntervalsFor(snapshot *game.Game, cfg config.DeviceConfig) refresh.Intervals {
	base := refresh.Intervals{
		PregameSeconds: cfg.Refresh.PregameSeconds,
		LiveSeconds:    cfg.Refresh.LiveSeconds,
		FinalSeconds:   cfg.Refresh.FinalSeconds,
	}
	if snapshot == nil {
		return base
	}
	override, ok := cfg.LeagueOverrides[snapshot.League]
	if !ok {
		return base
	}
	if override.LiveSeconds > 0 {
		base.LiveSeconds = override.LiveSeconds
	}
	return base
}

// tick implements spec.md §4.10's eight-step sequence (minus the final
// sleep, which Run owns so it can react to once-mode and the computed
// interval). Returns the featured snapshot and the config the tick ran
// under, so Run can compute the next sleep without re-reading config
// after a possible mid-tick reload.
func (o *Orchestrator) tick(ctx context.Context, now time.Time) (*game.Game, config.DeviceConfig, error) {
	cfg := o.provider.Current()

	gamesByLeague := o.agg.AllGames(ctx, now, cfg.EnabledLeagues)
	o.recordNetworkHealth(cfg.EnabledLeagues, gamesByLeague)

	result := priority.ChooseFeatured(
		gamesByLeague, now, cfg.FavoriteTeams,
		priority.Rules{Live: true},
		cfg.EnabledLeagues,
		manualOverride(cfg.ManualOverride, now),
	)
	snapshot := result.Game

	state := board.DetermineState(snapshot, now)
	boardCtx := board.Context{
		Snapshot:  snapshot,
		Now:       now,
		State:     state,
		Favorites: cfg.FavoriteTeams,
		Extra:     map[string]any{"biglogos": cfg.Render.Layout != "stacked"},
	}

	previous := o.manager.Current()
	next := o.manager.NextBoard(boardCtx)
	o.manager.TransitionTo(next)
	if o.metrics != nil && next != nil && (previous == nil || previous.Name() != next.Name()) {
		o.metrics.BoardTransitions.WithLabelValues(next.Name()).Inc()
	}

	buf := o.sink.Buffer()
	if buf == nil {
		return nil, cfg, errors.New("orchestrator: display sink returned a nil buffer")
	}
	o.manager.RenderCurrent(buf, boardCtx)

	if err := o.sink.Flush(); err != nil {
		// §7 Display error: logged, loop continues so a later tick may
		// succeed — never the tick-level error this function returns.
		o.logger.Warn("orchestrator: display flush failed, continuing", "error", err)
		if o.metrics != nil {
			o.metrics.DisplayFlushErrors.Inc()
		}
	}

	if o.provider.ShouldReload(now) {
		o.reload(ctx)
		cfg = o.provider.Current()
	}

	return snapshot, cfg, nil
}

// reload implements the §7 Configuration error policy: a failed reload
// logs and keeps the previous config; a geometry-changing success tears
// down and rebuilds the display sink between ticks, never mid-tick.
func (o *Orchestrator) reload(ctx context.Context) {
	changed, err := o.provider.Reload(ctx)
	if err != nil {
		o.logger.Warn("orchestrator: configuration reload failed, keeping previous config", "error", err)
		return
	}
	if !changed {
		return
	}
	o.swapSink(o.provider.Current().Matrix)
}

func (o *Orchestrator) swapSink(geom config.MatrixGeometry) {
	next, err := o.sinkFactory(geom)
	if err != nil {
		o.logger.Error("orchestrator: failed to rebuild display sink for new geometry, keeping previous sink", "error", err)
		return
	}
	if err := o.sink.Close(); err != nil {
		o.logger.Warn("orchestrator: error closing previous display sink", "error", err)
	}
	o.sink = next
}

// recordNetworkHealth feeds the refresh controller's network-health
// bucket (§4.5) from AllGames' result, since aggregator.AllGames isolates
// per-league failures internally and never returns an error itself
// (§4.3): a league absent from the result, or present but carrying any
// Stale game, counts as a failed tick for that league.
func (o *Orchestrator) recordNetworkHealth(enabledLeagues []string, gamesByLeague map[string][]game.Game) {
	for _, code := range enabledLeagues {
		games, ok := gamesByLeague[code]
		if !ok {
			o.refreshCtl.RecordFailure()
			continue
		}
		stale := false
		for _, g := range games {
			if g.Stale {
				stale = true
				break
			}
		}
		if stale {
			o.refreshCtl.RecordFailure()
		} else {
			o.refreshCtl.RecordSuccess()
		}
	}
}

func manualOverride(m *config.ManualOverride, now time.Time) *priority.ManualOverride {
	if m == nil || !m.ExpiresAt.After(now) {
		return nil
	}
	return &priority.ManualOverride{EventID: m.EventID, ExpiresAt: m.ExpiresAt}
}

// sleepInterruptible waits d, polling every pollInterval so a shutdown
// request or a cancelled ctx interrupts it within one poll (§5
// Cancellation: "a shutdown takes at most 1 s"). Returns false if the
// wait was cut short by shutdown/cancellation, true if it ran to
// completion.
func (o *Orchestrator) sleepInterruptible(ctx context.Context, d time.Duration) bool {
	const pollInterval = 200 * time.Millisecond

	deadline := time.Now().Add(d)
	for {
		if o.shutdown.Load() || ctx.Err() != nil {
			return false
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return true
		}
		wait := pollInterval
		if remaining < wait {
			wait = remaining
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
	}
}
