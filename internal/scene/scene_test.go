package scene

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledmatrix/scoreboard/internal/domain/game"
	"github.com/ledmatrix/scoreboard/internal/domain/sport"
)

type fakeLogos struct{ hit bool }

func (f *fakeLogos) Logo(leagueCode, abbr string, size int) (image.Image, bool) {
	if !f.hit {
		return nil, false
	}
	return image.NewRGBA(image.Rect(0, 0, size, size)), true
}

func newBuf() *image.RGBA { return image.NewRGBA(image.Rect(0, 0, 64, 32)) }

func isAllBlack(buf *image.RGBA) bool {
	b := buf.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := buf.At(x, y).RGBA()
			if r != 0 || g != 0 || bl != 0 {
				return false
			}
		}
	}
	return true
}

func TestPaintIdle_ClearsAndDrawsStatusLine(t *testing.T) {
	buf := newBuf()
	PaintIdle(buf, Input{Now: time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC), Fonts: DefaultFonts()})
	assert.False(t, isAllBlack(buf), "expected idle scene to paint some non-black pixels")
}

func samplePregame() *game.Game {
	return &game.Game{
		League: "NBA", Sport: sport.Lookup(sport.Basketball), State: game.StatePre,
		SecondsToStart: 125, Home: game.Team{Abbr: "LAL"}, Away: game.Team{Abbr: "BOS"},
	}
}

func TestPaintPregame_DrawsCountdownAndTeams(t *testing.T) {
	buf := newBuf()
	PaintPregame(buf, Input{Game: samplePregame(), Now: time.Now(), Fonts: DefaultFonts(), Logos: &fakeLogos{hit: true}})
	assert.False(t, isAllBlack(buf))
}

func TestFormatCountdown_SwitchesFormatAtOneHour(t *testing.T) {
	assert.Equal(t, "02:05", formatCountdown(125))
	assert.Equal(t, "1:00:00", formatCountdown(3600))
	assert.Equal(t, "00:00", formatCountdown(-5))
}

func sampleLive() *game.Game {
	return &game.Game{
		League: "NBA", Sport: sport.Lookup(sport.Basketball), State: game.StateLive,
		Period: 3, PeriodName: "Q3", DisplayClock: "4:12", StatusDetail: "Timeout - Lakers",
		Home: game.Team{Abbr: "LAL", Score: 88}, Away: game.Team{Abbr: "BOS", Score: 90},
	}
}

func TestPaintLiveStacked_DrawsAllThreeLines(t *testing.T) {
	buf := newBuf()
	PaintLiveStacked(buf, Input{Game: sampleLive(), Fonts: DefaultFonts()})
	assert.False(t, isAllBlack(buf))
}

func TestPaintLiveBigLogos_DrawsWithAndWithoutLogos(t *testing.T) {
	buf := newBuf()
	PaintLiveBigLogos(buf, Input{Game: sampleLive(), Fonts: DefaultFonts(), Logos: &fakeLogos{hit: true}})
	assert.False(t, isAllBlack(buf))

	buf2 := newBuf()
	PaintLiveBigLogos(buf2, Input{Game: sampleLive(), Fonts: DefaultFonts(), Logos: &fakeLogos{hit: false}})
	assert.False(t, isAllBlack(buf2))
}

func TestDrawShrunkScores_PicksFittingFaceForTinyPanel(t *testing.T) {
	buf := image.NewRGBA(image.Rect(0, 0, 16, 8))
	assert.NotPanics(t, func() {
		drawShrunkScores(buf, Input{Fonts: DefaultFonts()}, "99", "100")
	})
}

func sampleFinal() *game.Game {
	return &game.Game{
		League: "NBA", State: game.StateFinal, Period: 4, SecondsToStart: -1,
		Home: game.Team{Abbr: "LAL", Score: 101}, Away: game.Team{Abbr: "BOS", Score: 98},
	}
}

func TestPaintFinal_DrawsStampAndBothRows(t *testing.T) {
	buf := newBuf()
	PaintFinal(buf, Input{Game: sampleFinal(), Fonts: DefaultFonts(), Logos: &fakeLogos{hit: true}})
	assert.False(t, isAllBlack(buf))
}

func sampleNHL() *game.Game {
	return &game.Game{
		League: "NHL", Sport: sport.Lookup(sport.Hockey), State: game.StateLive,
		PeriodName: "P2", DisplayClock: "12:34",
		Home: game.Team{Abbr: "BOS", Score: 2}, Away: game.Team{Abbr: "NYR", Score: 1},
	}
}

func TestPaintNHLLarge_DrawsPeriodScoreAndClock(t *testing.T) {
	buf := newBuf()
	PaintNHLLarge(buf, Input{Game: sampleNHL(), Fonts: DefaultFonts(), Logos: &fakeLogos{hit: true}})
	assert.False(t, isAllBlack(buf))
}

func TestPaintNHLLarge_TallerPanelUsesLargerLayout(t *testing.T) {
	buf := image.NewRGBA(image.Rect(0, 0, 128, 64))
	PaintNHLLarge(buf, Input{Game: sampleNHL(), Fonts: DefaultFonts(), Logos: &fakeLogos{hit: true}})
	assert.False(t, isAllBlack(buf))
}

func TestPaint_DispatchesByGameState(t *testing.T) {
	fonts := DefaultFonts()

	buf := newBuf()
	Paint(buf, Input{Game: nil, Now: time.Now(), Fonts: fonts}, false)
	assert.False(t, isAllBlack(buf))

	buf2 := newBuf()
	Paint(buf2, Input{Game: samplePregame(), Now: time.Now(), Fonts: fonts}, false)
	assert.False(t, isAllBlack(buf2))

	buf3 := newBuf()
	Paint(buf3, Input{Game: sampleFinal(), Now: time.Now(), Fonts: fonts}, false)
	assert.False(t, isAllBlack(buf3))

	buf4 := newBuf()
	Paint(buf4, Input{Game: sampleLive(), Now: time.Now(), Fonts: fonts}, false)
	assert.False(t, isAllBlack(buf4))

	buf5 := newBuf()
	Paint(buf5, Input{Game: sampleLive(), Now: time.Now(), Fonts: fonts}, true)
	assert.False(t, isAllBlack(buf5))

	buf6 := newBuf()
	Paint(buf6, Input{Game: sampleNHL(), Now: time.Now(), Fonts: fonts}, true)
	assert.False(t, isAllBlack(buf6))
}

func TestTruncate_ClampsToRuneCount(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hello", truncate("helloworld", 5))
}

func TestCenteredX_NeverNegative(t *testing.T) {
	assert.Equal(t, 0, centeredX(10, 20))
	assert.Equal(t, 5, centeredX(20, 10))
}

func TestDrawLogo_NilSourceIsNoop(t *testing.T) {
	buf := newBuf()
	require.NotPanics(t, func() { drawLogo(buf, nil, 0, 0, 10) })
}

func TestLoadFonts_FallsBackToDefaultOnBadBytes(t *testing.T) {
	f := LoadFonts([]byte("not a font"), 8, 12, 16)
	require.NotNil(t, f)
	assert.Equal(t, DefaultFonts().Small, f.Small)
}
