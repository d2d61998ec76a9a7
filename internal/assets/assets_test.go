package assets

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledmatrix/scoreboard/internal/domain/team"
	"github.com/ledmatrix/scoreboard/internal/platform/logging"
)

type fakeRegistry struct {
	records map[string]team.Record
}

func (r *fakeRegistry) ByID(leagueCode, id string) (team.Record, bool) { return team.Record{}, false }

func (r *fakeRegistry) ByAbbr(leagueCode, abbr string) (team.Record, bool) {
	rec, ok := r.records[leagueCode+":"+abbr]
	return rec, ok
}

func (r *fakeRegistry) All(leagueCode string) []team.Record { return nil }

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestCache_Logo_MissingAbbrReturnsFalse(t *testing.T) {
	c, err := New(t.TempDir(), nil, logging.NewNop())
	require.NoError(t, err)
	_, ok := c.Logo("NBA", "", 16)
	assert.False(t, ok)
}

func TestCache_Logo_ResolvesAndResizesFromLeagueDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logos", "nba", "BOS.png"), 100, 50, color.RGBA{0, 200, 0, 255})

	c, err := New(dir, nil, logging.NewNop())
	require.NoError(t, err)

	img, ok := c.Logo("NBA", "BOS", 16)
	require.True(t, ok)
	b := img.Bounds()
	assert.LessOrEqual(t, b.Dx(), 20)
	assert.LessOrEqual(t, b.Dy(), 20)
}

func TestCache_Logo_PrefersRegistryLogoPathOverLeagueDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "custom", "celtics.png"), 10, 10, color.RGBA{10, 10, 10, 255})
	writePNG(t, filepath.Join(dir, "logos", "nba", "BOS.png"), 10, 10, color.RGBA{250, 250, 250, 255})

	reg := &fakeRegistry{records: map[string]team.Record{
		"NBA:BOS": {ID: "bos", LeagueCode: "NBA", DisplayName: "Celtics", Abbr: "BOS", LogoPath: "custom/celtics.png"},
	}}
	c, err := New(dir, reg, logging.NewNop())
	require.NoError(t, err)

	img, ok := c.Logo("NBA", "BOS", 16)
	require.True(t, ok)
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Less(t, r>>8, uint32(50))
	assert.Less(t, g>>8, uint32(50))
	assert.Less(t, b>>8, uint32(50))
}

func TestCache_Logo_CachesInMemoryAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logos", "nhl", "BOS.png"), 20, 20, color.RGBA{1, 2, 3, 255})

	c, err := New(dir, nil, logging.NewNop())
	require.NoError(t, err)

	first, ok := c.Logo("NHL", "BOS", 16)
	require.True(t, ok)
	second, ok := c.Logo("NHL", "BOS", 16)
	require.True(t, ok)
	assert.Same(t, first, second)
}

func TestCache_Logo_PersistsVariantToDisk(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logos", "nba", "LAL.png"), 40, 40, color.RGBA{5, 5, 5, 255})

	c, err := New(dir, nil, logging.NewNop())
	require.NoError(t, err)

	_, ok := c.Logo("NBA", "LAL", 8)
	require.True(t, ok)

	_, err = os.Stat(c.variantPath("NBA", "LAL", VariantMini))
	assert.NoError(t, err)
}

func TestCache_Logo_SVGWithoutRasterizerIsSkipped(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logos", "nhl"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logos", "nhl", "BOS.svg"), []byte("<svg/>"), 0o644))

	c, err := New(dir, nil, logging.NewNop())
	require.NoError(t, err)

	_, ok := c.Logo("NHL", "BOS", 16)
	assert.False(t, ok)
}

func TestVariantForSize_BucketsToNearestNamedVariant(t *testing.T) {
	assert.Equal(t, VariantMini, variantForSize(8))
	assert.Equal(t, VariantBanner, variantForSize(20))
	assert.Equal(t, VariantLarge, variantForSize(48))
}

func TestPrefetcher_WarmPopulatesCacheForEveryPair(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logos", "nba", "BOS.png"), 10, 10, color.RGBA{1, 1, 1, 255})
	writePNG(t, filepath.Join(dir, "logos", "nba", "LAL.png"), 10, 10, color.RGBA{1, 1, 1, 255})

	c, err := New(dir, nil, logging.NewNop())
	require.NoError(t, err)

	p, err := NewPrefetcher(c, 2)
	require.NoError(t, err)
	defer p.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Warm(ctx, "NBA", []string{"BOS", "LAL"}, []int{8}))

	_, ok := c.mem[cacheKey("NBA", "BOS", VariantMini)]
	assert.True(t, ok)
	_, ok = c.mem[cacheKey("NBA", "LAL", VariantMini)]
	assert.True(t, ok)
}
