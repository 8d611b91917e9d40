// Package fixtures serves the canned, provider-shaped payloads league
// agents fall back to when live fetching is disabled or fails outright
// (§4.2). A missing fixture is never an error: the caller gets zero
// players for that team and the run continues, the same as a provider
// that legitimately has nothing to report.
package fixtures

import (
	"embed"
	"fmt"
	"path"
	"strings"
)

//go:embed data
var data embed.FS

// Load returns the raw JSON fixture for league/teamID, or (nil, false) if
// none exists. The shape of the bytes matches exactly what the live
// fetch path for that league would hand the normalizer.
func Load(league, teamID string) ([]byte, bool) {
	p := path.Join("data", strings.ToLower(league), teamID+".json")
	b, err := data.ReadFile(p)
	if err != nil {
		return nil, false
	}
	return b, true
}

// Teams lists every team ID with a fixture available for league, sorted
// by filename. Used by agents running in fixture mode with no explicit
// focus-teams filter.
func Teams(league string) ([]string, error) {
	dir := path.Join("data", strings.ToLower(league))
	entries, err := data.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("fixtures: no data directory for league %q: %w", league, err)
	}

	teams := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		teams = append(teams, strings.TrimSuffix(e.Name(), ".json"))
	}
	return teams, nil
}
