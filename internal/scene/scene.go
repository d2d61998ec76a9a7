package scene

import (
	"image"
	"image/color"
	stddraw "image/draw"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/ledmatrix/scoreboard/internal/domain/game"
)

// Colors used across scenes, grounded on the RGB tuples literal in each
// original_source/src/render/scenes/*.py draw call.
var (
	colorWhite  = color.RGBA{255, 255, 255, 255}
	colorDim    = color.RGBA{180, 180, 180, 255}
	colorAmber  = color.RGBA{255, 191, 0, 255}
	colorGreen  = color.RGBA{0, 220, 0, 255}
	colorRed    = color.RGBA{220, 0, 0, 255}
	colorClock  = color.RGBA{200, 200, 200, 255}
	colorBlack  = color.RGBA{0, 0, 0, 255}
)

// LogoProvider resolves a team's pixel-ready logo for a given display
// size, decoupling scene from the internal/assets cache the way
// board.SceneRenderer decouples board from scene — the orchestrator
// supplies a concrete implementation (internal/assets's variant cache) at
// startup. When a provider is nil or a lookup misses, scenes leave that
// logo slot empty (the final and live scenes print the team abbreviation
// in any case; pregame and NHL-large draw no abbreviation in its place),
// same as nhl_large_logo.py's `if away_logo:` guard around a
// possibly-absent PIL image.
type LogoProvider interface {
	Logo(leagueCode, teamAbbr string, size int) (image.Image, bool)
}

// Input bundles everything a scene painter needs beyond the destination
// buffer: the featured game, wall clock, fonts, and logo source.
type Input struct {
	Game  *game.Game
	Now   time.Time
	Fonts *Fonts
	Logos LogoProvider
}

// Paint dispatches to the scene matching in.Game's state and the buffer's
// geometry, mirroring renderer.py's render_idle/render_pregame/render_live
// dispatch that board.Context.State already resolves one layer up. Callers
// typically invoke one scene function directly (via the SceneRenderer
// closure wired into board); Paint exists for callers without an
// upstream state decision already in hand, such as the simulator demo
// mode and scene's own tests.
func Paint(buf *image.RGBA, in Input, biglogos bool) {
	if in.Game == nil {
		PaintIdle(buf, in)
		return
	}
	switch in.Game.State {
	case game.StatePre:
		PaintPregame(buf, in)
	case game.StateFinal:
		PaintFinal(buf, in)
	default:
		if strings.EqualFold(in.Game.League, "nhl") && buf.Bounds().Dy() >= 32 && biglogos {
			PaintNHLLarge(buf, in)
		} else if biglogos {
			PaintLiveBigLogos(buf, in)
		} else {
			PaintLiveStacked(buf, in)
		}
	}
}

func clear(buf *image.RGBA, c color.Color) {
	stddraw.Draw(buf, buf.Bounds(), image.NewUniform(c), image.Point{}, stddraw.Src)
}

func centeredX(width, textWidth int) int {
	x := (width - textWidth) / 2
	if x < 0 {
		return 0
	}
	return x
}

// drawLogo scales src to fit within a size x size box, preserving aspect
// ratio (nhl_large_logo.py's Image.resize call, generalized from a fixed
// square target to aspect-preserving fit per spec.md's "preserving
// aspect" requirement for the big-logos layout), and composites it at
// (x, y) with high-quality interpolation via x/image/draw.
func drawLogo(buf *image.RGBA, src image.Image, x, y, size int) {
	if src == nil {
		return
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	scale := float64(size) / float64(w)
	if hs := float64(size) / float64(h); hs < scale {
		scale = hs
	}
	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}
	dstRect := image.Rect(x, y, x+dstW, y+dstH)
	xdraw.CatmullRom.Scale(buf, dstRect, src, b, xdraw.Over, nil)
}

// truncate matches original_source scenes' `text[:20]` slicing for
// status_detail lines that can otherwise overrun a 64-pixel-wide panel.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
