package scene

import (
	"fmt"
	"image"
)

// PaintFinal mirrors scenes/final.py's draw_final: a red "FINAL" stamp in
// the top-left corner, then two rows — one per team — of logo, then
// abbreviation, then the score right-aligned to the panel edge in the
// large font.
func PaintFinal(buf *image.RGBA, in Input) {
	clear(buf, colorBlack)
	g := in.Game
	width := buf.Bounds().Dx()

	drawText(buf, in.Fonts.Small, "FINAL", 1, 1, colorRed)

	const logoSize = 10
	rows := []struct {
		abbr  string
		score int
		y     int
	}{
		{g.Away.Abbr, g.Away.Score, 11},
		{g.Home.Abbr, g.Home.Score, 22},
	}
	for _, row := range rows {
		if in.Logos != nil {
			if logo, ok := in.Logos.Logo(g.League, row.abbr, logoSize); ok {
				drawLogo(buf, logo, 0, row.y, logoSize)
			}
		}
		drawText(buf, in.Fonts.Small, row.abbr, logoSize+2, row.y, colorWhite)

		scoreText := fmt.Sprintf("%d", row.score)
		sw, _ := measure(in.Fonts.Large, scoreText)
		drawText(buf, in.Fonts.Large, scoreText, width-sw-1, row.y-1, colorWhite)
	}
}
