// Package readiness rolls up per-athlete HAV-F composite scores into the
// per-team and per-league readiness report (§4.7, C7). A team's score is
// the average composite across its roster — athletes with no composite
// yet contribute the documented 50.0 default rather than being excluded,
// so a team with partial HAV-F coverage isn't penalized for athletes
// still mid-pipeline — adjusted toward the team's actual win percentage,
// then banded the same way an individual athlete's composite would be.
package readiness

import (
	"math"
	"sort"
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
)

const compositeDefault = 50.0

// starThreshold is the composite score above which an athlete counts as
// a "star" toward a team's StarsCount (§4.7).
const starThreshold = 80.0

// TeamSummary is one team's readiness rollup.
type TeamSummary struct {
	TeamID       string                 `json:"team_id"`
	League       string                 `json:"league"`
	AverageScore float64                `json:"average_readiness"`
	Status       athlete.ReadinessStatus `json:"status"`
	PlayersCount int                    `json:"players_count"`
	StarsCount   int                    `json:"stars_count"`
}

// LeagueSummary groups every team's rollup within one league plus the
// league-wide average.
type LeagueSummary struct {
	Teams          []TeamSummary `json:"teams"`
	AverageReadiness float64     `json:"averageReadiness"`
}

// Report is the full readiness.json payload.
type Report struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Sports      map[string]LeagueSummary `json:"sports"`
	Featured    []TeamSummary            `json:"featured"`
}

// TeamRoster is the input to BuildTeamSummary: a team's registered win
// percentage plus the athletes normalized onto its roster this run.
// WinPct is nil for league tiers with no standings source (HS, NIL,
// international) — the win-pct adjustment term then stays neutral
// instead of penalizing the team for an assumed 0.0 win rate.
type TeamRoster struct {
	TeamID   string
	League   string
	WinPct   *float64
	Athletes []athlete.Athlete
}

// BuildTeamSummary computes one team's readiness rollup (§4.7 step 1-3).
func BuildTeamSummary(roster TeamRoster) TeamSummary {
	var sum float64
	stars := 0

	for _, a := range roster.Athletes {
		score := compositeDefault
		if a.HavF.CompositeScore != nil {
			score = *a.HavF.CompositeScore
		}
		sum += score
		if score >= starThreshold {
			stars++
		}
	}

	avgComposite := compositeDefault
	if len(roster.Athletes) > 0 {
		avgComposite = sum / float64(len(roster.Athletes))
	}

	winAdjusted := 50.0
	if roster.WinPct != nil {
		winAdjusted = 50 + 40*(*roster.WinPct-0.5)
	}
	finalScore := (avgComposite + winAdjusted) / 2

	return TeamSummary{
		TeamID:       roster.TeamID,
		League:       roster.League,
		AverageScore: round1(finalScore),
		Status:       athlete.Band(finalScore),
		PlayersCount: len(roster.Athletes),
		StarsCount:   stars,
	}
}

// BuildReport assembles the full readiness report from every team
// summary computed this run, plus the declared focus-team order (§8 S6:
// featured teams must appear in the order declared, not alphabetically
// or by score).
func BuildReport(now time.Time, summaries []TeamSummary, focusTeamOrder []string) Report {
	byLeague := make(map[string][]TeamSummary)
	for _, s := range summaries {
		byLeague[s.League] = append(byLeague[s.League], s)
	}

	sports := make(map[string]LeagueSummary, len(byLeague))
	for league, teams := range byLeague {
		sort.Slice(teams, func(i, j int) bool { return teams[i].TeamID < teams[j].TeamID })

		var sum float64
		for _, t := range teams {
			sum += t.AverageScore
		}
		avg := 0.0
		if len(teams) > 0 {
			avg = sum / float64(len(teams))
		}

		sports[league] = LeagueSummary{Teams: teams, AverageReadiness: round1(avg)}
	}

	byTeamID := make(map[string]TeamSummary, len(summaries))
	for _, s := range summaries {
		byTeamID[s.TeamID] = s
	}

	featured := make([]TeamSummary, 0, len(focusTeamOrder))
	for _, teamID := range focusTeamOrder {
		if s, ok := byTeamID[teamID]; ok {
			featured = append(featured, s)
		}
	}

	return Report{
		GeneratedAt: now,
		Sports:      sports,
		Featured:    featured,
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
