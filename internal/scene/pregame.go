package scene

import (
	"fmt"
	"image"
	"time"
)

// PaintPregame mirrors scenes/pregame.py's draw_pregame: a top row of
// away/home logos flanking a "VS" label, a centered countdown to first
// pitch/puck/tip in amber (HH:MM:SS once more than an hour out, MM:SS
// inside the final hour — draw_pregame's own format switch), and a
// bottom line with the localized start time prefixed by the sport's
// start verb ("Tip 7:30 PM", "Drop 7:00 PM").
func PaintPregame(buf *image.RGBA, in Input) {
	clear(buf, colorBlack)
	g := in.Game
	width := buf.Bounds().Dx()

	logoSize := 12
	if in.Logos != nil {
		if logo, ok := in.Logos.Logo(g.League, g.Away.Abbr, logoSize); ok {
			drawLogo(buf, logo, 1, 1, logoSize)
		}
		if logo, ok := in.Logos.Logo(g.League, g.Home.Abbr, logoSize); ok {
			drawLogo(buf, logo, width-logoSize-1, 1, logoSize)
		}
	}
	vsWidth, _ := measure(in.Fonts.Small, "VS")
	drawText(buf, in.Fonts.Small, "VS", centeredX(width, vsWidth), 2, colorWhite)

	countdown := formatCountdown(g.SecondsToStart)
	cw, _ := measure(in.Fonts.Large, countdown)
	drawText(buf, in.Fonts.Large, countdown, centeredX(width, cw), 13, colorAmber)

	startLine := fmt.Sprintf("%s %s", g.Sport.StartVerb, in.Now.Add(time.Duration(g.SecondsToStart)*time.Second).Format("3:04 PM"))
	sw, _ := measure(in.Fonts.Small, startLine)
	drawText(buf, in.Fonts.Small, truncate(startLine, 20), centeredX(width, sw), 24, colorDim)
}

// formatCountdown matches draw_pregame's HH:MM:SS / MM:SS switch at the
// one-hour boundary.
func formatCountdown(secondsToStart int) string {
	if secondsToStart < 0 {
		secondsToStart = 0
	}
	d := time.Duration(secondsToStart) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
