package scene

import "image"

// PaintIdle mirrors renderer.py's render_idle: clear to black and draw a
// single dim status line ("Mon 07/30 — No games"), truncated to 20
// characters the way render_idle slices its formatted string before
// drawing it at a fixed (1, 1) offset.
func PaintIdle(buf *image.RGBA, in Input) {
	clear(buf, colorBlack)
	msg := in.Now.Format("Mon 01/02") + " — No games"
	drawText(buf, in.Fonts.Small, truncate(msg, 20), 1, 1, colorDim)
}
