// Package sport describes the per-league rules that shape how a Game's
// period and clock are labeled and when a game is considered complete.
package sport

import "fmt"

// Code identifies a sport family, independent of league.
type Code string

const (
	Basketball Code = "basketball"
	Hockey     Code = "hockey"
	Baseball   Code = "baseball"
	Football   Code = "football"
	Soccer     Code = "soccer"
)

// Sport carries the terminology and structure needed to turn a raw period
// number into a display label, and to decide when overtime/shootout rules
// apply. Sports are immutable, process-wide singletons; see Lookup.
type Sport struct {
	Code              Code
	RegulationPeriods int
	HasOvertime       bool
	HasShootout       bool
	StartVerb         string
}

// PeriodLabel formats a period number the way this sport's broadcasts do,
// e.g. "Q3" for basketball, "P2" for hockey, "OT"/"SO" once regulation ends.
func (s Sport) PeriodLabel(period int, shootout bool) string {
	if shootout && s.HasShootout {
		return "SO"
	}
	if period > s.RegulationPeriods && s.HasOvertime {
		if ot := period - s.RegulationPeriods; ot > 1 {
			return fmt.Sprintf("OT%d", ot)
		}
		return "OT"
	}
	switch s.Code {
	case Basketball, Football:
		return fmt.Sprintf("Q%d", period)
	case Hockey:
		return fmt.Sprintf("P%d", period)
	case Baseball:
		return fmt.Sprintf("%d", period)
	default:
		return fmt.Sprintf("%d", period)
	}
}

// IsOvertime reports whether period is past this sport's regulation length.
func (s Sport) IsOvertime(period int) bool {
	return s.HasOvertime && period > s.RegulationPeriods
}

var registry = map[Code]Sport{
	Basketball: {Code: Basketball, RegulationPeriods: 4, HasOvertime: true, StartVerb: "Tip"},
	Hockey:     {Code: Hockey, RegulationPeriods: 3, HasOvertime: true, HasShootout: true, StartVerb: "Drop"},
	Baseball:   {Code: Baseball, RegulationPeriods: 9, HasOvertime: true, StartVerb: "Start"},
	Football:   {Code: Football, RegulationPeriods: 4, HasOvertime: true, StartVerb: "Start"},
	Soccer:     {Code: Soccer, RegulationPeriods: 2, HasOvertime: true, StartVerb: "Start"},
}

// Lookup returns the Sport definition for code, defaulting to a generic
// one-period shape with no overtime or shootout if code is unknown so
// callers never need a nil check.
func Lookup(code Code) Sport {
	if s, ok := registry[code]; ok {
		return s
	}
	return Sport{Code: code, RegulationPeriods: 1, StartVerb: "Start"}
}
