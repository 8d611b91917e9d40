package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
	"github.com/blazeintel/havf-core/internal/clock"
	"github.com/blazeintel/havf-core/internal/fetch"
	"github.com/blazeintel/havf-core/internal/normalize"
	"github.com/blazeintel/havf-core/internal/registry"
	"github.com/blazeintel/havf-core/internal/store"
)

func testRegistry() *registry.Registry {
	return registry.New(registry.Entry{
		TeamID: "TEST-ONE", TeamCode: "ONE", Name: "Test Team", Sport: "TEST", League: "TEST",
	})
}

func echoNormalizer(wantEmpty bool) TeamPayload {
	return func(raw []byte, teamID, teamCode string, now time.Time) normalize.Result {
		if wantEmpty {
			return normalize.Result{}
		}
		winPct := 0.6
		return normalize.Result{
			Athletes: []athlete.Athlete{
				{PlayerID: normalize.PlayerID("TEST", teamCode, "1"), Name: "Example", TeamID: teamID},
			},
			WinPct: &winPct,
		}
	}
}

func TestAgent_Run_NoFixtureStillCompletesWithEmptyRoster(t *testing.T) {
	dir := t.TempDir()
	st, err := store.New(dir)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	a := &Agent{
		League:    "TEST",
		Registry:  testRegistry(),
		Store:     st,
		Clock:     &clock.Frozen{At: time.Now()},
		Normalize: echoNormalizer(true),
	}

	result, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.RowCount != 0 {
		t.Errorf("RowCount = %d, want 0", result.RowCount)
	}
	if len(result.Teams) != 1 || result.Teams[0].State != StateDone {
		t.Errorf("expected one team to reach StateDone, got %+v", result.Teams)
	}

	env, ok := st.ReadLeague("TEST")
	if !ok {
		t.Fatal("expected the league envelope to be persisted")
	}
	if len(env.Players) != 0 {
		t.Errorf("expected 0 persisted players, got %d", len(env.Players))
	}
}

func TestAgent_Run_NormalizedAthleteIsScoredAndPersisted(t *testing.T) {
	dir := t.TempDir()
	st, _ := store.New(dir)

	a := &Agent{
		League:    "TEST",
		Registry:  testRegistry(),
		Store:     st,
		Clock:     &clock.Frozen{At: time.Now()},
		Normalize: echoNormalizer(false),
	}

	result, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.RowCount != 1 {
		t.Fatalf("RowCount = %d, want 1", result.RowCount)
	}

	team := result.Teams[0]
	if team.WinPct == nil || *team.WinPct != 0.6 {
		t.Errorf("WinPct = %v, want 0.6", team.WinPct)
	}
	// HavF.Compute runs over every normalized athlete even though Sport
	// is empty here, so ChampionReadiness should be nil rather than the
	// record being skipped.
	if team.Athletes[0].HavF.LastComputedAt.IsZero() {
		t.Error("expected HavF.LastComputedAt to be stamped")
	}
	if team.Athletes[0].HavF.ChampionReadiness != nil {
		t.Errorf("ChampionReadiness = %v, want nil for an empty Sport", *team.Athletes[0].HavF.ChampionReadiness)
	}

	env, ok := st.ReadLeague("TEST")
	if !ok || len(env.Players) != 1 {
		t.Fatalf("expected the persisted envelope to carry 1 player, got ok=%v players=%d", ok, len(env.Players))
	}
}

func TestAgent_Run_NoRegisteredTeamsWritesEmptyEnvelope(t *testing.T) {
	dir := t.TempDir()
	st, _ := store.New(dir)

	a := &Agent{
		League:    "EMPTY",
		Registry:  registry.New(),
		Store:     st,
		Clock:     &clock.Frozen{At: time.Now()},
		Normalize: echoNormalizer(true),
	}

	result, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Teams) != 0 {
		t.Errorf("expected no teams for an unregistered league, got %d", len(result.Teams))
	}
}

func TestAgent_Run_LiveFetchFailureFallsBackToFixtures(t *testing.T) {
	dir := t.TempDir()
	st, _ := store.New(dir)

	frozen := &clock.Frozen{At: time.Now()}
	fetcher := fetch.NewClient(fetch.Limit{Calls: 10, Period: time.Minute}, frozen, nil)

	a := &Agent{
		League:   "TEST",
		Registry: testRegistry(),
		Store:    st,
		Clock:    frozen,
		Live:     true,
		Fetcher:  fetcher,
		LiveURL: func(teamID, teamCode string) string {
			return "http://127.0.0.1:1/unreachable"
		},
		Normalize: echoNormalizer(true),
	}

	result, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Teams) != 1 || result.Teams[0].State != StateDone {
		t.Errorf("expected the agent to recover via fixture fallback, got %+v", result.Teams)
	}
}
