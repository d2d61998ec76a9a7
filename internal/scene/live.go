package scene

import (
	"fmt"
	"image"
	"strconv"

	"golang.org/x/image/font"
)

// PaintLiveStacked mirrors scenes/live.py's draw_live: a top row of
// "AWY 12" / "HME 10" in small white font, a large green center line of
// "{period} {clock}" (e.g. "Q3 4:12"), and a bottom status_detail line
// truncated to 20 characters.
func PaintLiveStacked(buf *image.RGBA, in Input) {
	clear(buf, colorBlack)
	g := in.Game
	width := buf.Bounds().Dx()

	top := fmt.Sprintf("%s %d  %s %d", g.Away.Abbr, g.Away.Score, g.Home.Abbr, g.Home.Score)
	tw, _ := measure(in.Fonts.Small, top)
	drawText(buf, in.Fonts.Small, top, centeredX(width, tw), 1, colorWhite)

	center := g.PeriodName
	if g.DisplayClock != "" {
		center = g.PeriodName + " " + g.DisplayClock
	}
	cw, _ := measure(in.Fonts.Large, center)
	drawText(buf, in.Fonts.Large, center, centeredX(width, cw), 12, colorGreen)

	status := truncate(g.StatusDetail, 20)
	sw, _ := measure(in.Fonts.Small, status)
	drawText(buf, in.Fonts.Small, status, centeredX(width, sw), 24, colorDim)
}

// PaintLiveBigLogos mirrors scenes/live_big.py's draw_live_big: a status
// line across the top, two logos on the left/right edges sized to fit a
// 20x20 box while preserving aspect, each with its abbreviation centered
// beneath, and the two scores stacked in the middle column. The score
// font shrinks from Large to Medium to Small — draw_live_big's own
// auto-shrink loop — stopping at the first size whose two score lines no
// longer overlap vertically once both are centered on the panel.
func PaintLiveBigLogos(buf *image.RGBA, in Input) {
	clear(buf, colorBlack)
	g := in.Game
	width := buf.Bounds().Dx()
	height := buf.Bounds().Dy()

	const logoBox = 20

	status := g.PeriodName
	if g.DisplayClock != "" {
		status = g.PeriodName + " " + g.DisplayClock
	}
	sw, _ := measure(in.Fonts.Small, status)
	drawText(buf, in.Fonts.Small, status, centeredX(width, sw), 0, colorWhite)

	if in.Logos != nil {
		if logo, ok := in.Logos.Logo(g.League, g.Away.Abbr, logoBox); ok {
			drawLogo(buf, logo, 0, 8, logoBox)
		}
		if logo, ok := in.Logos.Logo(g.League, g.Home.Abbr, logoBox); ok {
			drawLogo(buf, logo, width-logoBox, 8, logoBox)
		}
	}
	awTxt, _ := measure(in.Fonts.Small, g.Away.Abbr)
	drawText(buf, in.Fonts.Small, g.Away.Abbr, centeredX(logoBox, awTxt), height-8, colorDim)
	hmTxt, _ := measure(in.Fonts.Small, g.Home.Abbr)
	drawText(buf, in.Fonts.Small, g.Home.Abbr, width-logoBox+centeredX(logoBox, hmTxt), height-8, colorDim)

	drawShrunkScores(buf, in, strconv.Itoa(g.Away.Score), strconv.Itoa(g.Home.Score))
}

// drawShrunkScores picks the largest of Fonts.Large/Medium/Small whose two
// stacked score lines fit the panel height without overlapping, matching
// draw_live_big's "shrink until it fits, never overlap" fallback chain.
func drawShrunkScores(buf *image.RGBA, in Input, away, home string) {
	width := buf.Bounds().Dx()
	height := buf.Bounds().Dy()
	center := width / 2

	candidates := []struct {
		face    font.Face
		lineGap int
	}{
		{in.Fonts.Large, 2},
		{in.Fonts.Medium, 1},
		{in.Fonts.Small, 0},
	}

	chosen := candidates[len(candidates)-1]
	for _, c := range candidates {
		_, ascent := measure(c.face, away)
		lineHeight := ascent + c.lineGap
		if lineHeight*2 <= height {
			chosen = c
			break
		}
	}

	_, ascent := measure(chosen.face, away)
	lineHeight := ascent + chosen.lineGap
	top := centeredX(height, lineHeight*2)

	aw, _ := measure(chosen.face, away)
	drawText(buf, chosen.face, away, center-aw/2, top, colorWhite)
	hw, _ := measure(chosen.face, home)
	drawText(buf, chosen.face, home, center-hw/2, top+lineHeight, colorWhite)
}
