package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ledmatrix/scoreboard/internal/domain/league"
)

var structValidator = validator.New()

// Validate enforces §4.6's reload validation rules. A reload that fails
// validation must keep the previous config in effect (§7 Configuration
// error); Validate never mutates cfg. The range/enum checks on
// MatrixGeometry, RefreshIntervals, and RenderOptions run through
// go-playground/validator struct tags; the checks below cover what tags
// can't express — the width/height multiple-of-8 constraint and lookups
// against the timezone database and the league registry.
func (cfg DeviceConfig) Validate() error {
	if err := structValidator.Struct(cfg.Matrix); err != nil {
		return fmt.Errorf("matrix: %w", err)
	}
	if cfg.Matrix.Width%8 != 0 {
		return fmt.Errorf("matrix width %d must be a multiple of 8", cfg.Matrix.Width)
	}
	if cfg.Matrix.Height%8 != 0 {
		return fmt.Errorf("matrix height %d must be a multiple of 8", cfg.Matrix.Height)
	}

	if err := structValidator.Struct(cfg.Refresh); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	if err := structValidator.Struct(cfg.Render); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	if len(cfg.EnabledLeagues) == 0 {
		return fmt.Errorf("at least one league must be enabled")
	}
	for _, code := range cfg.EnabledLeagues {
		if !league.IsKnown(code) {
			return fmt.Errorf("unknown league code %q", code)
		}
	}
	for code, override := range cfg.LeagueOverrides {
		if !league.IsKnown(code) {
			return fmt.Errorf("league override for unknown league code %q", code)
		}
		if err := structValidator.Struct(override); err != nil {
			return fmt.Errorf("league override %q: %w", code, err)
		}
	}

	return nil
}
