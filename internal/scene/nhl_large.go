package scene

import (
	"fmt"
	"image"
)

// PaintNHLLarge mirrors scenes/nhl_large_logo.py's draw_nhl_large_logo:
// large team logos anchored to the left/right edges (24px on a 32-row
// panel, 48px on taller ones, per the Python original's height switch),
// a centered period label at the top, the score centered below it, and —
// while the game is live — the game clock centered below the score in a
// dimmer color. The period label is the game's PeriodName from
// sport.Sport.PeriodLabel upstream, with hockey's P1/P2/P3 shown as
// 1ST/2ND/3RD; OT and SO are shown as given.
func PaintNHLLarge(buf *image.RGBA, in Input) {
	clear(buf, colorBlack)
	g := in.Game
	width := buf.Bounds().Dx()
	height := buf.Bounds().Dy()

	logoSize := 24
	logoY := 4
	periodY := 2
	scoreY := 12
	scoreFont := in.Fonts.Medium
	if height > 32 {
		logoSize = 48
		logoY = 8
		periodY = 4
		scoreY = 24
		scoreFont = in.Fonts.Large
	}

	logoSpacing := 8
	if in.Logos != nil {
		if logo, ok := in.Logos.Logo(g.League, g.Away.Abbr, logoSize); ok {
			drawLogo(buf, logo, logoSpacing, logoY, logoSize)
		}
		if logo, ok := in.Logos.Logo(g.League, g.Home.Abbr, logoSize); ok {
			drawLogo(buf, logo, width-logoSize-logoSpacing, logoY, logoSize)
		}
	}

	period := g.PeriodName
	switch period {
	case "P1":
		period = "1ST"
	case "P2":
		period = "2ND"
	case "P3":
		period = "3RD"
	}
	if g.State == "FINAL" {
		period = "FINAL"
	}
	pw, _ := measure(in.Fonts.Small, period)
	drawText(buf, in.Fonts.Small, period, centeredX(width, pw), periodY, colorWhite)

	scoreText := fmt.Sprintf("%d - %d", g.Away.Score, g.Home.Score)
	scw, _ := measure(scoreFont, scoreText)
	drawText(buf, scoreFont, scoreText, centeredX(width, scw), scoreY, colorWhite)

	if g.DisplayClock != "" && g.State == "LIVE" {
		clockY := scoreY + 10
		if height > 32 {
			clockY = scoreY + 20
		}
		cw, _ := measure(in.Fonts.Small, g.DisplayClock)
		drawText(buf, in.Fonts.Small, g.DisplayClock, centeredX(width, cw), clockY, colorClock)
	}
}
