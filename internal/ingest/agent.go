// Package ingest runs one league's ingestion agent through its state
// machine: idle -> fetching -> normalizing -> scoring -> writing -> done,
// with a failed branch off any of the I/O-bearing states that is
// non-fatal to the orchestrator — one league failing never stops the
// others (§3.5, §7).
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/blazeintel/havf-core/internal/athlete"
	"github.com/blazeintel/havf-core/internal/clock"
	"github.com/blazeintel/havf-core/internal/fetch"
	"github.com/blazeintel/havf-core/internal/fixtures"
	"github.com/blazeintel/havf-core/internal/havf"
	"github.com/blazeintel/havf-core/internal/normalize"
	"github.com/blazeintel/havf-core/internal/registry"
	"github.com/blazeintel/havf-core/internal/store"
)

// State names one step of the agent's lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateFetching    State = "fetching"
	StateNormalizing State = "normalizing"
	StateScoring     State = "scoring"
	StateWriting     State = "writing"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// TeamPayload turns raw bytes (live or fixture) for one team into
// normalized athletes, given the injected clock for Meta.UpdatedAt and
// trajectory scoring. The MLB, NFL, NCAA and NBA raw payloads carry
// their own win_pct field, which the Normalize<League> call reads
// directly off the parsed payload; the HS, NIL and international
// payloads have none and leave Result.WinPct nil.
type TeamPayload func(raw []byte, teamID, teamCode string, now time.Time) normalize.Result

// TeamResult is one team's outcome within a league run.
type TeamResult struct {
	TeamID   string
	State    State
	Athletes []athlete.Athlete
	Errors   []normalize.Error
	WinPct   *float64
	Err      error
}

// LeagueResult is the full outcome of one league agent's run.
type LeagueResult struct {
	League  string
	Teams   []TeamResult
	RowCount int
}

// Agent runs one league's fetch -> normalize -> score -> write pipeline
// across every team registered for it.
type Agent struct {
	League    string
	Registry  *registry.Registry
	Fetcher   *fetch.Client
	Store     *store.Store
	Clock     clock.Clock
	Live      bool
	Logger    *log.Logger
	LiveURL   func(teamID, teamCode string) string
	Normalize TeamPayload
}

// Run executes the agent's state machine for every team registered to
// its league, writing the league envelope on success. A single team's
// failure is recorded in its TeamResult and does not abort the others.
func (a *Agent) Run(ctx context.Context) (LeagueResult, error) {
	teams := a.Registry.TeamsForLeague(a.League)
	result := LeagueResult{League: a.League}

	var allAthletes []athlete.Athlete

	for _, team := range teams {
		tr := a.runTeam(ctx, team)
		result.Teams = append(result.Teams, tr)
		if tr.State == StateDone {
			allAthletes = append(allAthletes, tr.Athletes...)
		}
	}

	result.RowCount = len(allAthletes)

	env := store.LeagueEnvelope{
		League:      a.League,
		GeneratedAt: a.Clock.Now(),
		Players:     allAthletes,
	}
	if err := a.Store.WriteLeague(env); err != nil {
		return result, fmt.Errorf("ingest[%s]: persist: %w", a.League, err)
	}

	return result, nil
}

func (a *Agent) runTeam(ctx context.Context, team registry.Entry) TeamResult {
	tr := TeamResult{TeamID: team.TeamID, State: StateFetching}

	raw, err := a.fetchTeam(ctx, team)
	if err != nil {
		tr.State = StateFailed
		tr.Err = err
		a.logf("fetch failed for %s: %v", team.TeamID, err)
		return tr
	}

	tr.State = StateNormalizing
	normResult := a.Normalize(raw, team.TeamID, team.TeamCode, a.Clock.Now())
	tr.Errors = normResult.Errors
	for _, ne := range normResult.Errors {
		a.logf("normalize error in record %d for %s: %s", ne.RecordIndex, team.TeamID, ne.Reason)
	}

	tr.State = StateScoring
	for i := range normResult.Athletes {
		normResult.Athletes[i].HavF = havf.Compute(&normResult.Athletes[i], a.Clock)
	}

	tr.State = StateWriting
	tr.Athletes = normResult.Athletes
	tr.WinPct = normResult.WinPct
	tr.State = StateDone
	return tr
}

func (a *Agent) fetchTeam(ctx context.Context, team registry.Entry) ([]byte, error) {
	if a.Live && a.Fetcher != nil && a.LiveURL != nil {
		urlStr := a.LiveURL(team.TeamID, team.TeamCode)
		body, _, err := a.Fetcher.Fetch(ctx, urlStr, nil, nil)
		if err == nil {
			return body, nil
		}
		a.logf("live fetch failed for %s, falling back to fixture: %v", team.TeamID, err)
	}

	raw, ok := fixtures.Load(a.League, team.TeamID)
	if !ok {
		return []byte(`{"players":[]}`), nil
	}
	return raw, nil
}

func (a *Agent) logf(format string, args ...any) {
	if a.Logger == nil {
		return
	}
	a.Logger.Warnf(format, args...)
}
