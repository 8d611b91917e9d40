package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
	"github.com/blazeintel/havf-core/internal/clock"
	"github.com/blazeintel/havf-core/internal/store"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, 0},
		{"exitError with code 2", &exitError{code: 2, err: errors.New("config")}, 2},
		{"exitError with code 1", &exitError{code: 1, err: errors.New("stage failed")}, 1},
		{"plain error defaults to 1", errors.New("boom"), 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExitCode(tc.err); got != tc.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestSplitCSVArg(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"mlb", []string{"mlb"}},
		{"mlb,nfl, ncaa ,", []string{"mlb", "nfl", "ncaa"}},
	}

	for _, tc := range cases {
		got := splitCSVArg(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("splitCSVArg(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitCSVArg(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}

func TestResolveLeagues_AgentFlagOverridesEverything(t *testing.T) {
	got, err := resolveLeagues("mlb,nfl", "ncaa")
	if err != nil {
		t.Fatalf("resolveLeagues: %v", err)
	}
	if len(got) != 1 || got[0] != "ncaa" {
		t.Errorf("got %v, want [ncaa]", got)
	}
}

func TestResolveLeagues_UnknownAgentErrors(t *testing.T) {
	_, err := resolveLeagues("", "xfl")
	if err == nil {
		t.Fatal("expected an error for an unknown --agent value")
	}
}

func TestResolveLeagues_EmptyFlagsReturnsEveryLeague(t *testing.T) {
	got, err := resolveLeagues("", "")
	if err != nil {
		t.Fatalf("resolveLeagues: %v", err)
	}
	if len(got) != len(leagueDefs) {
		t.Errorf("got %d leagues, want %d (all of them)", len(got), len(leagueDefs))
	}
}

func TestResolveLeagues_UnknownLeagueInCSVErrors(t *testing.T) {
	_, err := resolveLeagues("mlb,xfl", "")
	if err == nil {
		t.Fatal("expected an error for an unknown league in --leagues")
	}
}

func TestResolveLeagues_ExplicitCSVIsHonored(t *testing.T) {
	got, err := resolveLeagues("nba,mlb", "")
	if err != nil {
		t.Fatalf("resolveLeagues: %v", err)
	}
	if len(got) != 2 || got[0] != "nba" || got[1] != "mlb" {
		t.Errorf("got %v, want [nba mlb] in the given order", got)
	}
}

func TestRosterIDs(t *testing.T) {
	players := []athlete.Athlete{{PlayerID: "a"}, {PlayerID: "b"}}
	ids := rosterIDs(players)
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("rosterIDs = %v", ids)
	}
}

func TestRunValidationStage(t *testing.T) {
	good := athlete.Athlete{
		PlayerID: "MLB-STL-aaaaaaaa",
		Meta:     athlete.Meta{Sources: []string{"fixture"}, UpdatedAt: time.Now()},
	}
	if err := runValidationStage([]athlete.Athlete{good}); err != nil {
		t.Errorf("expected a valid batch to pass, got %v", err)
	}

	bad := athlete.Athlete{PlayerID: ""}
	if err := runValidationStage([]athlete.Athlete{bad}); err == nil {
		t.Error("expected an invalid batch to fail validation")
	}
}

func TestRunReadinessStage_WritesReportFile(t *testing.T) {
	dir := t.TempDir()
	st, err := store.New(dir)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	winPct := 0.6
	teams := []athlete.Team{
		{TeamID: "MLB-STL", League: "MLB", Season: athlete.Season{WinPct: &winPct}},
	}
	players := []athlete.Athlete{
		{PlayerID: "MLB-STL-aaaaaaaa", TeamID: "MLB-STL"},
	}

	err = runReadinessStage(st, teams, players, []string{"MLB-STL"}, &clock.Frozen{At: time.Now()})
	if err != nil {
		t.Fatalf("runReadinessStage: %v", err)
	}
}
