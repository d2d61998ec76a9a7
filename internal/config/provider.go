package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Provider merges layered Sources into a validated DeviceConfig and
// implements §4.6's reload policy: periodic staleness or a process-level
// reload-requested flag set by a signal handler.
type Provider struct {
	mu              sync.RWMutex
	sources         []Source // sorted by descending priority
	current         DeviceConfig
	lastLoadedAt    time.Time
	staleAfter      time.Duration
	reloadRequested atomic.Bool
}

// NewProvider builds a Provider from the given sources (order does not
// matter; Provider sorts by priority) and performs the first load
// immediately. Returns an error if that first merged config fails
// validation.
func NewProvider(sources []Source, staleAfter time.Duration) (*Provider, error) {
	if staleAfter <= 0 {
		staleAfter = 60 * time.Second
	}
	p := &Provider{sources: sortedByPriority(sources), staleAfter: staleAfter}
	cfg, err := p.build()
	if err != nil {
		return nil, fmt.Errorf("initial config load: %w", err)
	}
	p.current = cfg
	p.lastLoadedAt = time.Now()
	return p, nil
}

func sortedByPriority(sources []Source) []Source {
	out := make([]Source, len(sources))
	copy(out, sources)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Priority() > out[j-1].Priority(); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Get returns the highest-priority value for key across all sources.
func (p *Provider) Get(key string) (any, bool) {
	for _, s := range p.sources {
		if v, ok := s.Get(key); ok {
			return v, true
		}
	}
	return nil, false
}

// Current returns the active, validated DeviceConfig. Safe for concurrent
// use; the returned value is immutable per tick (§3 Ownership).
func (p *Provider) Current() DeviceConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// RequestReload is called from a signal handler (SIGHUP/SIGUSR1, §6) to
// set the process-level reload flag read by ShouldReload.
func (p *Provider) RequestReload() {
	p.reloadRequested.Store(true)
}

// ShouldReload reports whether the next tick should attempt a reload:
// periodic staleness since the last successful load, or an explicit
// request (§4.6 Reload policy).
func (p *Provider) ShouldReload(now time.Time) bool {
	if p.reloadRequested.Load() {
		return true
	}
	p.mu.RLock()
	last := p.lastLoadedAt
	p.mu.RUnlock()
	return now.Sub(last) >= p.staleAfter
}

// Reload rebuilds DeviceConfig from the current sources and validates it.
// On validation failure the previous config remains in effect (§7); on
// success the new config atomically replaces the old one. Callers should
// invoke Reload between ticks only, never mid-tick (§5 Ordering
// guarantees). Returns (changed, error).
func (p *Provider) Reload(ctx context.Context) (bool, error) {
	p.reloadRequested.Store(false)

	for _, s := range p.sources {
		if cs, ok := s.(CloudSource); ok {
			if err := cs.Refresh(ctx); err != nil {
				// A cloud-store poll failure degrades to the existing
				// cached values in that source; it is not itself a
				// configuration error (§7 Transient upstream error).
				continue
			}
		}
	}

	next, err := p.build()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}

	p.mu.Lock()
	changed := !sameGeometry(p.current.Matrix, next.Matrix)
	p.current = next
	p.lastLoadedAt = time.Now()
	p.mu.Unlock()

	return changed, nil
}

func sameGeometry(a, b MatrixGeometry) bool {
	return a.Width == b.Width && a.Height == b.Height
}

// ErrConfigValidation marks a reload that failed §4.6 validation; the
// orchestrator logs it and keeps running on the previous config (§7).
var ErrConfigValidation = fmt.Errorf("configuration validation failed")

func (p *Provider) build() (DeviceConfig, error) {
	cfg := Default()

	if v, ok := p.Get("matrix.width"); ok {
		cfg.Matrix.Width = toInt(v, cfg.Matrix.Width)
	}
	if v, ok := p.Get("matrix.height"); ok {
		cfg.Matrix.Height = toInt(v, cfg.Matrix.Height)
	}
	if v, ok := p.Get("matrix.brightness"); ok {
		cfg.Matrix.Brightness = toInt(v, cfg.Matrix.Brightness)
	}
	if v, ok := p.Get("matrix.pwm_bits"); ok {
		cfg.Matrix.PWMBits = toInt(v, cfg.Matrix.PWMBits)
	}
	if v, ok := p.Get("matrix.hardware_mapping"); ok {
		cfg.Matrix.HardwareMapping = toString(v, cfg.Matrix.HardwareMapping)
	}

	if v, ok := p.Get("refresh.pregame"); ok {
		cfg.Refresh.PregameSeconds = toInt(v, cfg.Refresh.PregameSeconds)
	}
	if v, ok := p.Get("refresh.live"); ok {
		cfg.Refresh.LiveSeconds = toInt(v, cfg.Refresh.LiveSeconds)
	}
	if v, ok := p.Get("refresh.final"); ok {
		cfg.Refresh.FinalSeconds = toInt(v, cfg.Refresh.FinalSeconds)
	}

	if v, ok := p.Get("render.layout"); ok {
		cfg.Render.Layout = toString(v, cfg.Render.Layout)
	}
	if v, ok := p.Get("render.logo_variant"); ok {
		cfg.Render.LogoVariant = toString(v, cfg.Render.LogoVariant)
	}

	if v, ok := p.Get("timezone"); ok {
		cfg.Timezone = toString(v, cfg.Timezone)
	}

	if v, ok := p.Get("leagues.enabled"); ok {
		if list, ok := toStringSlice(v); ok {
			cfg.EnabledLeagues = list
		}
	}

	if v, ok := p.Get("favorites"); ok {
		if m, ok := v.(map[string]any); ok {
			cfg.FavoriteTeams = toFavoriteMap(m)
		}
	}

	if err := cfg.Validate(); err != nil {
		return DeviceConfig{}, err
	}
	return cfg, nil
}

func toInt(v any, fallback int) int {
	switch t := v.(type) {
	case int:
		return t
	case float64:
		return int(t)
	case string:
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(t), "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}

func toString(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func toStringSlice(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

func toFavoriteMap(m map[string]any) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		if list, ok := toStringSlice(v); ok {
			out[k] = list
		}
	}
	return out
}
