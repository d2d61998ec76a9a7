// Package scene paints the per-state pixel content (spec.md §4.8) onto an
// *image.RGBA buffer owned by the caller (the scoreboard board from
// internal/board, via its SceneRenderer hook). Grounded scene-by-scene on
// original_source/src/render/scenes/*.py and render/renderer.py for the
// overall font-loading and buffer-clearing shape.
package scene

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Fonts is the small set of faces every scene draws with, mirroring
// render/renderer.py's self._font_small / self._font_large pair (plus a
// medium size nhl_large_logo.py adds for its score line).
type Fonts struct {
	Small  font.Face
	Medium font.Face
	Large  font.Face
}

// closer is satisfied by every font.Face (the interface embeds
// io.Closer); truetype faces release resources on Close, while
// basicfont.Face7x13's Close is a no-op.
type closer interface {
	Close() error
}

// Close releases any truetype-backed faces. Safe to call on a DefaultFonts
// instance, whose basicfont faces close as a no-op.
func (f *Fonts) Close() {
	for _, face := range []font.Face{f.Small, f.Medium, f.Large} {
		if c, ok := face.(closer); ok {
			_ = c.Close()
		}
	}
}

// LoadFonts parses a TrueType/OpenType font file's bytes into three sizes,
// matching nhl_large_logo.py's load_pixel_fonts three-tier split (small
// for period/clock text, medium for stacked scores, large for big-logo
// scores). Returns DefaultFonts() on any parse error, the same
// fall-through renderer.py's _load_font performs when its preferred font
// file is missing.
func LoadFonts(fontBytes []byte, smallPt, mediumPt, largePt float64) *Fonts {
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return DefaultFonts()
	}
	return &Fonts{
		Small:  truetype.NewFace(parsed, &truetype.Options{Size: smallPt, Hinting: font.HintingFull}),
		Medium: truetype.NewFace(parsed, &truetype.Options{Size: mediumPt, Hinting: font.HintingFull}),
		Large:  truetype.NewFace(parsed, &truetype.Options{Size: largePt, Hinting: font.HintingFull}),
	}
}

// DefaultFonts is the no-font-file-configured fallback: PIL's
// ImageFont.load_default() equivalent. basicfont.Face7x13 is the only
// face golang.org/x/image ships without a font file to parse, so all
// three sizes share it — legible on a 64x32 panel, if cruder than a
// loaded TrueType face.
func DefaultFonts() *Fonts {
	return &Fonts{Small: basicfont.Face7x13, Medium: basicfont.Face7x13, Large: basicfont.Face7x13}
}

// measure returns a string's rendered width and the face's ascent, both
// in pixels, using font.MeasureString's fixed.Int26_6 glyph-bounding-box
// arithmetic rather than a guessed monospace cell width.
func measure(face font.Face, s string) (width, ascent int) {
	w := font.MeasureString(face, s)
	return w.Round(), face.Metrics().Ascent.Round()
}

// drawText paints s with its top-left at (x, y) — the baseline is derived
// from the face's ascent so callers position by bounding box like PIL's
// draw.text, not by raw baseline.
func drawText(dst draw.Image, face font.Face, s string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Round()),
	}
	d.DrawString(s)
}
