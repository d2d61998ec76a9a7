package assets

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// loadOriginal mirrors get_logo's candidate-path search: an explicit
// TeamRecord.LogoPath from the registry first, then
// BaseDir/logos/{leagueCode}/{ABBR}.png, then the .svg sibling (only
// decodable when a rasterizer is injected).
func (c *Cache) loadOriginal(leagueCode, abbr string) (image.Image, bool) {
	abbrUpper := strings.ToUpper(abbr)

	var candidates []string
	if c.registry != nil {
		if rec, ok := c.registry.ByAbbr(leagueCode, abbr); ok && rec.LogoPath != "" {
			candidates = append(candidates, c.resolvePath(rec.LogoPath))
		}
	}
	leagueDir := filepath.Join(c.baseDir, "logos", strings.ToLower(leagueCode))
	candidates = append(candidates,
		filepath.Join(leagueDir, abbrUpper+".png"),
		filepath.Join(leagueDir, abbrUpper+".svg"),
	)

	for _, path := range candidates {
		if img, ok := c.loadImageFile(path); ok {
			return img, true
		}
	}
	return nil, false
}

func (c *Cache) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

func (c *Cache) loadImageFile(path string) (image.Image, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		if c.rasterizer == nil {
			return nil, false
		}
		img, err := c.rasterizer.Rasterize(data)
		if err != nil {
			return nil, false
		}
		return img, true
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, false
	}
	return img, true
}

func (c *Cache) loadVariantFromDisk(leagueCode, abbr, variant string) (image.Image, bool) {
	return c.loadImageFile(c.variantPath(leagueCode, abbr, variant))
}

func (c *Cache) saveVariantToDisk(leagueCode, abbr, variant string, img image.Image) error {
	f, err := os.Create(c.variantPath(leagueCode, abbr, variant))
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func (c *Cache) variantPath(leagueCode, abbr, variant string) string {
	name := strings.ToUpper(leagueCode) + "_" + strings.ToUpper(abbr) + "_" + variant + ".png"
	return filepath.Join(c.baseDir, "variants", name)
}

// resize scales img so its larger dimension equals target pixels,
// preserving aspect ratio, matching _resize_variant's ratio-then-clamp
// arithmetic but using x/image/draw's CatmullRom kernel in place of PIL's
// BICUBIC (the posterize color-depth reduction original_source applies
// afterward is a cosmetic stabilization step spec.md doesn't require and
// isn't reproduced).
func resize(img image.Image, target int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || target <= 0 {
		return img
	}
	scale := float64(target) / float64(h)
	if ws := float64(target) / float64(w); ws < scale {
		scale = ws
	}
	dstW := maxInt(1, int(float64(w)*scale))
	dstH := maxInt(1, int(float64(h)*scale))
	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
