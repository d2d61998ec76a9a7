package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Source is a configuration source at one priority level of §4.6's
// layering table. Higher Priority wins when two sources set the same key.
type Source interface {
	Priority() int
	Get(key string) (any, bool)
}

// CloudSource is the out-of-scope collaborator named in spec.md §1: "the
// cloud configuration store (a key/value source of device config and
// favorites)". It is polled periodically (priority 50); the concrete
// implementation is in external/cloudstore.
type CloudSource interface {
	Source
	Refresh(ctx context.Context) error
}

// staticSource implements Source over a plain map, used for runtime
// arguments (priority 100), environment variables (priority 90), and
// built-in defaults (priority 10).
type staticSource struct {
	priority int
	values   map[string]any
}

func newStaticSource(priority int, values map[string]any) *staticSource {
	return &staticSource{priority: priority, values: values}
}

func (s *staticSource) Priority() int { return s.priority }

func (s *staticSource) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

const (
	PriorityArgs    = 100
	PriorityEnv     = 90
	PriorityCloud   = 50
	PriorityDefault = 10
)

// ArgsSource builds the priority-100 source from parsed CLI flags.
func ArgsSource(values map[string]any) Source {
	return newStaticSource(PriorityArgs, values)
}

// EnvSource builds the priority-90 source, parsing each named variable
// with §6's JSON-then-bool-then-number-then-string order. keys maps a
// Provider dotted config key (e.g. "matrix.width") to the upper-snake
// environment variable that overrides it (e.g. "MATRIX_WIDTH"),
// matching original_source/src/config/loader.py's MATRIX_WIDTH/
// REFRESH_PREGAME_SEC/... naming.
func EnvSource(keys map[string]string) Source {
	values := make(map[string]any, len(keys))
	for dottedKey, envName := range keys {
		if raw, ok := lookupEnv(envName); ok {
			values[dottedKey] = parseEnvValue(raw)
		}
	}
	return newStaticSource(PriorityEnv, values)
}

// StandardEnvKeys is the dotted-key -> env-var-name mapping
// cmd/scoreboard wires into EnvSource for every Provider key that has an
// environment-variable override.
func StandardEnvKeys() map[string]string {
	return map[string]string{
		"matrix.width":            "MATRIX_WIDTH",
		"matrix.height":           "MATRIX_HEIGHT",
		"matrix.brightness":       "MATRIX_BRIGHTNESS",
		"matrix.pwm_bits":         "MATRIX_PWM_BITS",
		"matrix.hardware_mapping": "MATRIX_HARDWARE_MAPPING",
		"refresh.pregame":         "REFRESH_PREGAME_SEC",
		"refresh.live":            "REFRESH_INGAME_SEC",
		"refresh.final":           "REFRESH_FINAL_SEC",
		"render.layout":           "LIVE_LAYOUT",
		"render.logo_variant":     "LOGO_VARIANT",
		"timezone":                "TIMEZONE",
		"leagues.enabled":         "LEAGUES_ENABLED",
	}
}

// DefaultsSource builds the priority-10 source from the built-in defaults.
func DefaultsSource(values map[string]any) Source {
	return newStaticSource(PriorityDefault, values)
}

// FileSource reads the §6 `--config <path>` favorites/config file and
// builds the priority-100 source from its contents — the file is a flat
// JSON object keyed the same way the cloud store's document is (§4.6's
// "runtime arguments" row covers both the parsed CLI flags and whatever
// they point at on disk). A missing file is not an error: it simply
// contributes no values, matching "unknown variables are ignored".
func FileSource(path string) (Source, error) {
	if path == "" {
		return ArgsSource(map[string]any{}), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ArgsSource(map[string]any{}), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return ArgsSource(values), nil
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
