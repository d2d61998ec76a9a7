// Package priority implements the C4 priority/selection engine (spec.md
// §4.4): picking one "featured" game each tick from across every enabled
// league. Grounded on internal/usecase/scoring_service.go's additive
// point-table style (score a candidate by summing weighted condition
// matches, then argmax) and original_source/src/select/choose.py for the
// exact filter-by-today / manual-override / tie-break sequence.
package priority

import (
	"sort"
	"strings"
	"time"

	"github.com/ledmatrix/scoreboard/internal/domain/game"
)

// Score contributions (§4.4's table). League base is computed per-call
// from the league's index in EnabledLeagues, not a constant.
const (
	leagueBaseUnit    = 1000
	liveBoost         = 500
	favoriteBoost     = 200
	closeGameBonus    = 100
	somewhatCloseBonus = 50
	startingSoonBonus = 150
	startingSoon15Min = 75
	finalPenalty      = -100
	overtimeBonus     = 300
	shootoutBonus     = 400

	startingSoonWindow   = 300 * time.Second
	startingWithin15Min  = 900 * time.Second
	closeGameMargin      = 3
	somewhatCloseMargin  = 7
)

// Rules toggles the rule-dependent contributions (currently just the live
// boost, which spec.md §4.4 gates behind rules.live so a deployment can
// disable the live-preference behavior).
type Rules struct {
	Live bool
}

// ManualOverride forces selection of one event regardless of score, until
// it expires. Mirrors config.ManualOverride's shape without importing the
// config package (priority has no business depending on how config gets
// loaded).
type ManualOverride struct {
	EventID   string
	ExpiresAt time.Time
}

// Candidate is one scored game, kept for the alternatives ledger.
type Candidate struct {
	Game      game.Game
	Score     int
	Rationale []string
}

// Result is choose_featured's full output: the winner (if any), its
// rationale, and the top-five runner-up ledger for observability.
type Result struct {
	Game         *game.Game
	Rationale    []string
	Alternatives []Candidate
}

// ChooseFeatured implements §4.4's contract:
// choose_featured(games_by_league, now_local, favorites_by_league, rules)
// → Game | none. enabledLeagues gives the league priority order (index i
// contributes (N-i)*1000 to that league's candidates); override, if
// non-nil and unexpired, bypasses scoring entirely.
func ChooseFeatured(
	gamesByLeague map[string][]game.Game,
	nowLocal time.Time,
	favoritesByLeague map[string][]string,
	rules Rules,
	enabledLeagues []string,
	override *ManualOverride,
) Result {
	today := todayGames(gamesByLeague, nowLocal)
	if len(today) == 0 {
		return Result{}
	}

	if override != nil && override.ExpiresAt.After(nowLocal) {
		for i := range today {
			if today[i].EventID == override.EventID {
				g := today[i]
				return Result{Game: &g, Rationale: []string{"MANUAL OVERRIDE"}}
			}
		}
	}

	leagueIndex := make(map[string]int, len(enabledLeagues))
	for i, code := range enabledLeagues {
		leagueIndex[code] = i
	}
	n := len(enabledLeagues)

	candidates := make([]Candidate, 0, len(today))
	for _, g := range today {
		score, rationale := scoreGame(g, favoritesByLeague[g.League], rules, leagueIndex, n)
		candidates = append(candidates, Candidate{Game: g, Score: score, Rationale: rationale})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Game.StartTime.Before(candidates[j].Game.StartTime)
	})

	winner := candidates[0]
	alternatives := candidates[1:]
	if len(alternatives) > 5 {
		alternatives = alternatives[:5]
	}

	winnerGame := winner.Game
	return Result{
		Game:         &winnerGame,
		Rationale:    winner.Rationale,
		Alternatives: alternatives,
	}
}

// todayGames flattens gamesByLeague to the games whose start date,
// projected into nowLocal's location, equals nowLocal's date.
func todayGames(gamesByLeague map[string][]game.Game, nowLocal time.Time) []game.Game {
	loc := nowLocal.Location()
	var out []game.Game
	for _, games := range gamesByLeague {
		for _, g := range games {
			if sameDate(g.StartTime.In(loc), nowLocal) {
				out = append(out, g)
			}
		}
	}
	return out
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func scoreGame(g game.Game, favorites []string, rules Rules, leagueIndex map[string]int, n int) (int, []string) {
	var score int
	var rationale []string

	if i, ok := leagueIndex[g.League]; ok {
		base := (n - i) * leagueBaseUnit
		score += base
		rationale = append(rationale, "league base")
	}

	if g.State == game.StateLive && rules.Live {
		score += liveBoost
		rationale = append(rationale, "LIVE game boost")
	}

	if isFavorite(g, favorites) {
		score += favoriteBoost
		rationale = append(rationale, "favorite team")
	}

	if g.State == game.StateLive {
		diff := g.ScoreDiff()
		switch {
		case diff <= closeGameMargin:
			score += closeGameBonus
			rationale = append(rationale, "close game")
		case diff <= somewhatCloseMargin:
			score += somewhatCloseBonus
			rationale = append(rationale, "somewhat close game")
		}
	}

	if g.State == game.StatePre {
		switch {
		case g.SecondsToStart >= 0 && time.Duration(g.SecondsToStart)*time.Second <= startingSoonWindow:
			score += startingSoonBonus
			rationale = append(rationale, "starting soon")
		case time.Duration(g.SecondsToStart)*time.Second <= startingWithin15Min:
			score += startingSoon15Min
			rationale = append(rationale, "starting within 15 minutes")
		}
	}

	if g.State == game.StateFinal {
		score += finalPenalty
		rationale = append(rationale, "final penalty")
	}

	if g.IsOvertime() {
		score += overtimeBonus
		rationale = append(rationale, "overtime")
	}

	if g.SportSpecific.Shootout {
		score += shootoutBonus
		rationale = append(rationale, "shootout")
	}

	return score, rationale
}

// isFavorite matches a favorite case-insensitively across id, display
// name, and abbreviation (§4.4, and §9's Open Question: keep id|name|abbr
// rather than tighten to id-only, since not every league client's ids are
// stable — see DESIGN.md).
func isFavorite(g game.Game, favorites []string) bool {
	for _, fav := range favorites {
		favNorm := strings.ToLower(strings.TrimSpace(fav))
		if favNorm == "" {
			continue
		}
		if matchesTeam(g.Home, favNorm) || matchesTeam(g.Away, favNorm) {
			return true
		}
	}
	return false
}

func matchesTeam(t game.Team, favNorm string) bool {
	return strings.ToLower(t.ID) == favNorm ||
		strings.ToLower(t.Name) == favNorm ||
		strings.ToLower(t.Abbr) == favNorm
}
