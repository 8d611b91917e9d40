package athlete

// Location carries a team's venue geography.
type Location struct {
	City     string
	State    string
	Country  string
	Venue    string
	Timezone string
}

// Season carries a team's current win/loss record. WinPct is nil when
// the league tier doesn't report a season win percentage (HS, NIL, and
// international feeds have no standings source).
type Season struct {
	Wins   int
	Losses int
	Ties   int
	WinPct *float64
}

// Team is the canonical team record (§3.2). Roster holds ordered
// PlayerID references rather than embedded Athlete records — rosters
// and athletes are persisted and read independently.
type Team struct {
	TeamID   string
	Name     string
	Sport    string
	League   string
	Division string
	Location Location
	Season   Season
	Roster   []string
}
