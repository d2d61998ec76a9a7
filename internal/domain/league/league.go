// Package league describes the set of leagues a device can enable and the
// priority order the priority engine (§4.4) scores against.
package league

import (
	"fmt"

	"github.com/ledmatrix/scoreboard/internal/domain/sport"
)

// League is one upstream sports league the aggregator can fetch from.
type League struct {
	Code      string
	Name      string
	Sport     sport.Sport
	IsDefault bool
}

// Validate mirrors the teacher's flat required-field checks.
func (l League) Validate() error {
	if l.Code == "" {
		return fmt.Errorf("league: code is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league %s: name is required", l.Code)
	}
	return nil
}

// Known holds the built-in league catalog; a device's enabled-leagues list
// (§3 DeviceConfig, §4.6 validation: "unknown league code") is validated
// against this set.
var Known = map[string]League{
	"nba":  {Code: "nba", Name: "NBA", Sport: sport.Lookup(sport.Basketball)},
	"wnba": {Code: "wnba", Name: "WNBA", Sport: sport.Lookup(sport.Basketball)},
	"nhl":  {Code: "nhl", Name: "NHL", Sport: sport.Lookup(sport.Hockey)},
	"mlb":  {Code: "mlb", Name: "MLB", Sport: sport.Lookup(sport.Baseball)},
	"nfl":  {Code: "nfl", Name: "NFL", Sport: sport.Lookup(sport.Football)},
}

// IsKnown reports whether code names a league this build can fetch.
func IsKnown(code string) bool {
	_, ok := Known[code]
	return ok
}
