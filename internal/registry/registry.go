// Package registry holds the static team metadata (location, division,
// league) every ingestion agent needs before it can even issue a fetch:
// the provider-facing team code, the canonical team_id, and the venue/
// timezone information a downstream consumer expects on every Team
// record (§3.2). This is the supplemented feature the distilled spec
// leaves implicit — something has to know that "MLB-STL" means the
// Cardinals play in St. Louis before a readiness report can say so.
package registry

import "github.com/blazeintel/havf-core/internal/athlete"

// Entry is one team's static registration.
type Entry struct {
	TeamID   string
	TeamCode string
	Name     string
	Sport    string
	League   string
	Division string
	Location athlete.Location
}

// Registry is the fixed roster of teams this deployment tracks, keyed by
// team_id.
type Registry struct {
	entries map[string]Entry
	byLeague map[string][]Entry
}

// New builds a Registry from the built-in team list plus any additional
// entries supplied (e.g. loaded from config for a future expansion
// league); duplicates by TeamID overwrite in the order given.
func New(extra ...Entry) *Registry {
	r := &Registry{
		entries:  make(map[string]Entry),
		byLeague: make(map[string][]Entry),
	}
	for _, e := range defaultEntries {
		r.add(e)
	}
	for _, e := range extra {
		r.add(e)
	}
	return r
}

func (r *Registry) add(e Entry) {
	r.entries[e.TeamID] = e
}

// rebuildIndex regenerates the league index; called lazily since
// New never mutates after construction finishes. Kept as a method
// rather than inlined so a future AddLeague can reuse it.
func (r *Registry) rebuildIndex() {
	r.byLeague = make(map[string][]Entry)
	for _, e := range r.entries {
		r.byLeague[e.League] = append(r.byLeague[e.League], e)
	}
}

// Lookup returns a team's registration by team_id.
func (r *Registry) Lookup(teamID string) (Entry, bool) {
	e, ok := r.entries[teamID]
	return e, ok
}

// TeamsForLeague returns every registered team in league. The slice is
// rebuilt from the entry map on first call after construction; callers
// that need stable ordering should sort the result themselves.
func (r *Registry) TeamsForLeague(league string) []Entry {
	if r.byLeague == nil || len(r.byLeague) == 0 {
		r.rebuildIndex()
	}
	return r.byLeague[league]
}

// defaultEntries are the teams this deployment tracks out of the box,
// including the four focus teams the orchestrator prioritizes.
var defaultEntries = []Entry{
	{TeamID: "MLB-STL", TeamCode: "STL", Name: "St. Louis Cardinals", Sport: "MLB", League: "MLB", Division: "NL Central",
		Location: athlete.Location{City: "St. Louis", State: "MO", Country: "USA", Venue: "Busch Stadium", Timezone: "America/Chicago"}},
	{TeamID: "NFL-TEN", TeamCode: "TEN", Name: "Tennessee Titans", Sport: "NFL", League: "NFL", Division: "AFC South",
		Location: athlete.Location{City: "Nashville", State: "TN", Country: "USA", Venue: "Nissan Stadium", Timezone: "America/Chicago"}},
	{TeamID: "NCAA-TEX", TeamCode: "TEX", Name: "Texas Longhorns", Sport: "NCAA-FB", League: "NCAA", Division: "SEC",
		Location: athlete.Location{City: "Austin", State: "TX", Country: "USA", Venue: "Darrell K Royal Stadium", Timezone: "America/Chicago"}},
	{TeamID: "NBA-MEM", TeamCode: "MEM", Name: "Memphis Grizzlies", Sport: "NBA", League: "NBA", Division: "Southwest",
		Location: athlete.Location{City: "Memphis", State: "TN", Country: "USA", Venue: "FedExForum", Timezone: "America/Chicago"}},
	{TeamID: "HS-STL-001", TeamCode: "CBC", Name: "CBC Cadets", Sport: "HS-FB", League: "HS", Division: "MSHSAA 6",
		Location: athlete.Location{City: "St. Louis", State: "MO", Country: "USA", Venue: "CBC Stadium", Timezone: "America/Chicago"}},
	{TeamID: "NIL-TEX-OLYMPIC", TeamCode: "TEX", Name: "Texas Olympic Sports", Sport: "SWIM", League: "NIL", Division: "",
		Location: athlete.Location{City: "Austin", State: "TX", Country: "USA", Venue: "Lee and Joe Jamail Swimming Center", Timezone: "America/Chicago"}},
	{TeamID: "INTL-NPB-01", TeamCode: "YOM", Name: "Yomiuri Giants", Sport: "MLB", League: "INTL", Division: "NPB Central",
		Location: athlete.Location{City: "Tokyo", State: "", Country: "Japan", Venue: "Tokyo Dome", Timezone: "Asia/Tokyo"}},
}
