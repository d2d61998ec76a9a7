// Package config implements the layered configuration provider (§4.6):
// CLI > env > cloud store > defaults, validated on every reload. Grounded
// on internal/config/config.go's Load()/getEnv/getEnvAsInt helpers and
// fail-closed validation style.
package config

import "time"

// MatrixGeometry describes the physical panel (§3 DeviceConfig). The
// validate tags cover the range checks only; width/height's
// multiple-of-8 constraint still needs the custom check in Validate.
type MatrixGeometry struct {
	Width           int    `validate:"min=8,max=256"`
	Height          int    `validate:"min=8,max=256"`
	Brightness      int    `validate:"min=1,max=100"`
	PWMBits         int    `validate:"min=1,max=11"`
	HardwareMapping string `validate:"oneof=regular adafruit-hat adafruit-hat-pwm regular-pi1"`
}

// RefreshIntervals are the base per-state tick intervals (§4.5).
type RefreshIntervals struct {
	PregameSeconds int `validate:"min=5,max=300"`
	LiveSeconds    int `validate:"min=1,max=60"`
	FinalSeconds   int `validate:"min=10,max=600"`
}

// RenderOptions selects the layout/logo variant the scene renderer uses.
type RenderOptions struct {
	Layout      string `validate:"oneof=stacked big-logos large"` // stacked | big-logos | large
	LogoVariant string `validate:"oneof=mini banner large"`       // mini | banner | large
}

// LeagueOverride narrows RefreshIntervals for one league (§10 Supplemented
// Features: multi-sport config loader, e.g. leagues.nhl.live_interval).
// A zero LiveSeconds means "no override for this field" — the
// orchestrator's refreshIntervalsFor falls back to the global
// RefreshIntervals.LiveSeconds in that case.
type LeagueOverride struct {
	LiveSeconds int `validate:"omitempty,min=1,max=60"`
}

// DeviceConfig is the immutable, fully validated configuration for one
// tick. A fresh instance replaces the old one atomically between ticks
// (§3 Ownership and lifecycle).
type DeviceConfig struct {
	Matrix          MatrixGeometry
	Refresh         RefreshIntervals
	Render          RenderOptions
	Timezone        string
	EnabledLeagues  []string // ordered; index is priority
	FavoriteTeams   map[string][]string // league code -> favorite team identifiers
	LeagueOverrides map[string]LeagueOverride
	ManualOverride  *ManualOverride
}

// ManualOverride forces the priority engine (§4.4) to feature one game
// until it expires.
type ManualOverride struct {
	EventID   string
	ExpiresAt time.Time
}

// Default returns the built-in defaults (priority 10 in §4.6's table).
func Default() DeviceConfig {
	return DeviceConfig{
		Matrix: MatrixGeometry{
			Width:           64,
			Height:          32,
			Brightness:      60,
			PWMBits:         11,
			HardwareMapping: "regular",
		},
		Refresh: RefreshIntervals{
			PregameSeconds: 30,
			LiveSeconds:    10,
			FinalSeconds:   120,
		},
		Render: RenderOptions{
			Layout:      "stacked",
			LogoVariant: "mini",
		},
		Timezone:        "UTC",
		EnabledLeagues:  []string{"nba", "wnba", "nhl"},
		FavoriteTeams:   map[string][]string{},
		LeagueOverrides: map[string]LeagueOverride{},
	}
}
