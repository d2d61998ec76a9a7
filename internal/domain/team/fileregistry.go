package team

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// fileTeam is the on-disk shape of one assets/teams.json /
// assets/nhl_teams.json row (§6 On-disk layout), tolerant of the
// name/displayName/shortName fallbacks original_source/src/assets/
// teams.py's TeamRegistry.load accepts.
type fileTeam struct {
	ID          string `json:"id"`
	Abbr        string `json:"abbr"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	ShortName   string `json:"shortName"`
	Primary     string `json:"primary"`
	Secondary   string `json:"secondary"`
	Logo        string `json:"logo"`
}

type fileTeamDocument struct {
	Teams []fileTeam `json:"teams"`
}

// FileRegistry is the on-disk team.Registry implementation, one JSON
// document per league, grounded on original_source/src/assets/teams.py's
// TeamRegistry: a lazily-irrelevant (we load eagerly instead), by-id and
// by-abbr indexed map per league code.
type FileRegistry struct {
	byLeague map[string]map[string]Record // league code -> id -> Record
	byAbbr   map[string]map[string]Record // league code -> ABBR -> Record
}

// NewFileRegistry loads one JSON document per entry in paths (league
// code -> file path, e.g. {"nba": "assets/teams.json", "wnba":
// "assets/teams.json", "nhl": "assets/nhl_teams.json"}). A missing file
// contributes an empty roster for that league rather than an error,
// matching teams.py's "file absent -> registry just stays empty" posture.
func NewFileRegistry(paths map[string]string) (*FileRegistry, error) {
	reg := &FileRegistry{
		byLeague: make(map[string]map[string]Record, len(paths)),
		byAbbr:   make(map[string]map[string]Record, len(paths)),
	}
	for leagueCode, path := range paths {
		records, err := loadTeamFile(leagueCode, path)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]Record, len(records))
		byAbbr := make(map[string]Record, len(records))
		for _, r := range records {
			byID[r.ID] = r
			if r.Abbr != "" {
				byAbbr[strings.ToUpper(r.Abbr)] = r
			}
		}
		reg.byLeague[leagueCode] = byID
		reg.byAbbr[leagueCode] = byAbbr
	}
	return reg, nil
}

func loadTeamFile(leagueCode, path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "team: read %q", path)
	}

	var doc fileTeamDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, "team: parse %q", path)
	}

	records := make([]Record, 0, len(doc.Teams))
	for _, t := range doc.Teams {
		name := t.Name
		if name == "" {
			name = t.DisplayName
		}
		if name == "" {
			name = t.ShortName
		}
		r := Record{
			ID:             t.ID,
			LeagueCode:     leagueCode,
			Abbr:           strings.ToUpper(t.Abbr),
			DisplayName:    name,
			PrimaryColor:   t.Primary,
			SecondaryColor: t.Secondary,
			LogoPath:       t.Logo,
		}
		if r.ID == "" {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func (r *FileRegistry) ByID(leagueCode, id string) (Record, bool) {
	rec, ok := r.byLeague[leagueCode][id]
	return rec, ok
}

func (r *FileRegistry) ByAbbr(leagueCode, abbr string) (Record, bool) {
	rec, ok := r.byAbbr[leagueCode][strings.ToUpper(abbr)]
	return rec, ok
}

func (r *FileRegistry) All(leagueCode string) []Record {
	byID := r.byLeague[leagueCode]
	out := make([]Record, 0, len(byID))
	for _, rec := range byID {
		out = append(out, rec)
	}
	return out
}
