package board

import (
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/ledmatrix/scoreboard/internal/domain/sport"
)

// SceneRenderer paints a featured game's scene onto buf. The concrete
// implementation lives in internal/scene (C8); board has no import-time
// dependency on it — the orchestrator wires a scene.Paint-backed
// SceneRenderer into the scoreboard boards at startup, keeping the
// registry/scheduler (C7) decoupled from the pixel-layout rules (C8).
type SceneRenderer func(buf *image.RGBA, ctx Context)

// scoreboardBoard is the §4.7 "try scoreboard_{sport}, fall back to
// scoreboard_generic" board. One instance per sport code, plus one
// generic instance registered under "scoreboard_generic".
type scoreboardBoard struct {
	name     string
	sport    sport.Code // empty for the generic fallback
	render   SceneRenderer
	enabled  bool
	priority int
	refresh  time.Duration
}

// NewScoreboardBoard lets the orchestrator inject the real scene renderer
// once internal/scene exists; registered boards start with a nil
// renderer (a blank frame) until SetRenderer is called.
func NewScoreboardBoard(name string, code sport.Code, priority int) *scoreboardBoard {
	return &scoreboardBoard{name: name, sport: code, enabled: true, priority: priority, refresh: 2 * time.Second}
}

func (b *scoreboardBoard) SetRenderer(r SceneRenderer) { b.render = r }

// RendererSetter is implemented by boards whose pixel content comes from
// an injected SceneRenderer (currently just scoreboardBoard). The
// orchestrator type-asserts on this after board.New so it can wire in
// internal/scene's Paint function without board importing scene.
type RendererSetter interface {
	SetRenderer(SceneRenderer)
}

func (b *scoreboardBoard) Name() string  { return b.name }
func (b *scoreboardBoard) Enabled() bool { return b.enabled }
func (b *scoreboardBoard) Priority() int { return b.priority }

func (b *scoreboardBoard) ShouldDisplay(ctx Context) bool {
	if ctx.Snapshot == nil {
		return false
	}
	if b.sport == "" {
		return true // generic fallback accepts any sport
	}
	return ctx.Snapshot.Sport.Code == b.sport
}

func (b *scoreboardBoard) Update(Context)           {}
func (b *scoreboardBoard) OnEnter()                  {}
func (b *scoreboardBoard) OnExit()                   {}
func (b *scoreboardBoard) HandleInput(string, any) bool { return false }
func (b *scoreboardBoard) RefreshRate() time.Duration   { return b.refresh }

func (b *scoreboardBoard) Render(buf *image.RGBA, ctx Context) {
	if b.render != nil {
		b.render(buf, ctx)
		return
	}
	fillBlack(buf)
}

func init() {
	Register("scoreboard_generic", func() Board { return NewScoreboardBoard("scoreboard_generic", "", 90) })
	Register("scoreboard_basketball", func() Board { return NewScoreboardBoard("scoreboard_basketball", sport.Basketball, 100) })
	Register("scoreboard_hockey", func() Board { return NewScoreboardBoard("scoreboard_hockey", sport.Hockey, 100) })
	Register("scoreboard_baseball", func() Board { return NewScoreboardBoard("scoreboard_baseball", sport.Baseball, 100) })
	Register("scoreboard_football", func() Board { return NewScoreboardBoard("scoreboard_football", sport.Football, 100) })
	Register("clock", func() Board { return &clockBoard{} })
	Register("standings", func() Board { return &textBoard{name: "standings", text: "Standings", priority: 20} })
	Register("schedule", func() Board { return &textBoard{name: "schedule", text: "Schedule", priority: 15} })
	Register("team_stats", func() Board { return &textBoard{name: "team_stats", text: "Team Stats", priority: 25} })
	Register("alert", func() Board { return &textBoard{name: "alert", text: "ALERT", priority: 1000} })
}

// clockBoard always wants to display — it is IDLE's default rotation
// member (§4.7).
type clockBoard struct{}

func (clockBoard) Name() string  { return "clock" }
func (clockBoard) Enabled() bool { return true }
func (clockBoard) Priority() int { return 10 }
func (clockBoard) ShouldDisplay(Context) bool { return true }
func (clockBoard) Update(Context)             {}
func (clockBoard) OnEnter()                   {}
func (clockBoard) OnExit()                    {}
func (clockBoard) HandleInput(string, any) bool { return false }
func (clockBoard) RefreshRate() time.Duration   { return time.Second }

func (clockBoard) Render(buf *image.RGBA, ctx Context) {
	fillBlack(buf)
	drawCenteredText(buf, ctx.Now.Format("15:04:05"), color.White)
}

// textBoard is a minimal always-eligible board for the rotation slots
// (standings/schedule/team_stats/alert) that §4.7 names but whose own
// content model spec.md leaves to future work — it paints its label so
// the rotation is visibly correct, pending a dedicated data source.
type textBoard struct {
	name     string
	text     string
	priority int
}

func (b *textBoard) Name() string  { return b.name }
func (b *textBoard) Enabled() bool { return true }
func (b *textBoard) Priority() int { return b.priority }
func (b *textBoard) ShouldDisplay(Context) bool { return true }
func (b *textBoard) Update(Context)             {}
func (b *textBoard) OnEnter()                   {}
func (b *textBoard) OnExit()                    {}
func (b *textBoard) HandleInput(string, any) bool { return false }
func (b *textBoard) RefreshRate() time.Duration   { return 10 * time.Second }

func (b *textBoard) Render(buf *image.RGBA, ctx Context) {
	fillBlack(buf)
	drawCenteredText(buf, b.text, color.White)
}

func fillBlack(buf *image.RGBA) {
	draw.Draw(buf, buf.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
}
