// Command assetcheck is a developer diagnostic: it validates the on-disk
// asset tree (spec.md §6 On-disk layout) against the team registries and
// reports every team missing an original or resized logo variant.
// Grounded on original_source/scripts/check_assets.py, generalized from
// "check only the configured favorites" to "check every team in every
// bundled league registry" since a developer running this before a
// deploy wants to know about every gap, not just today's favorites.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledmatrix/scoreboard/internal/assets"
	"github.com/ledmatrix/scoreboard/internal/domain/team"
)

// registryFiles mirrors cmd/scoreboard's own team.FileRegistry wiring
// (nba and wnba share one roster file, nhl has its own).
var registryFiles = map[string]string{
	"nba":  "teams.json",
	"wnba": "teams.json",
	"nhl":  "nhl_teams.json",
}

// variantSizes mirrors internal/assets.Cache.variantPath's bucket names,
// so this tool reports gaps against exactly the variants the cache will
// ever ask a rasterizer to produce.
var variantSizes = []string{assets.VariantMini, assets.VariantBanner, assets.VariantLarge}

func main() {
	assetDir := flag.String("assets", "assets", "asset tree root")
	flag.Parse()

	paths := make(map[string]string, len(registryFiles))
	for leagueCode, fileName := range registryFiles {
		paths[leagueCode] = filepath.Join(*assetDir, fileName)
	}
	registry, err := team.NewFileRegistry(paths)
	if err != nil {
		fmt.Fprintln(os.Stderr, "assetcheck:", err)
		os.Exit(1)
	}

	variantsDir := filepath.Join(*assetDir, "variants")

	var missingLogos, missingVariants int
	for leagueCode := range registryFiles {
		records := registry.All(leagueCode)
		if len(records) == 0 {
			fmt.Printf("%s: WARNING no teams loaded (missing or empty %s)\n", leagueCode, paths[leagueCode])
			continue
		}
		fmt.Printf("%s: %d teams loaded\n", leagueCode, len(records))

		leagueDir := filepath.Join(*assetDir, "logos", strings.ToLower(leagueCode))
		for _, rec := range records {
			abbrUpper := strings.ToUpper(rec.Abbr)
			original := filepath.Join(leagueDir, abbrUpper+".png")
			svgOriginal := filepath.Join(leagueDir, abbrUpper+".svg")
			explicit := rec.LogoPath != "" && exists(resolveAssetPath(*assetDir, rec.LogoPath))
			if !explicit && !exists(original) && !exists(svgOriginal) {
				fmt.Printf("  %-6s %-24s MISSING original logo: %s\n", rec.Abbr, rec.DisplayName, original)
				missingLogos++
			}
			for _, variant := range variantSizes {
				name := strings.ToUpper(leagueCode) + "_" + abbrUpper + "_" + variant + ".png"
				path := filepath.Join(variantsDir, name)
				if !exists(path) {
					fmt.Printf("  %-6s %-24s missing %s variant: %s\n", rec.Abbr, rec.DisplayName, variant, path)
					missingVariants++
				}
			}
		}
	}

	fmt.Printf("\n%d missing original logos, %d missing resized variants\n", missingLogos, missingVariants)
	if missingLogos > 0 {
		os.Exit(1)
	}
}

func resolveAssetPath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
