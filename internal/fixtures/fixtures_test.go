package fixtures

import "testing"

func TestLoad_KnownFixtureReturnsData(t *testing.T) {
	b, ok := Load("mlb", "MLB-STL")
	if !ok {
		t.Fatal("expected the MLB-STL fixture to exist")
	}
	if len(b) == 0 {
		t.Error("expected non-empty fixture bytes")
	}
}

func TestLoad_UnknownTeamReturnsFalseNotError(t *testing.T) {
	_, ok := Load("mlb", "MLB-NOPE")
	if ok {
		t.Error("expected a missing fixture to report false rather than panicking or erroring")
	}
}

func TestLoad_LeagueIsCaseInsensitive(t *testing.T) {
	_, ok := Load("MLB", "MLB-STL")
	if !ok {
		t.Error("expected league lookup to be case-insensitive")
	}
}

func TestTeams_ListsEveryFixtureForALeague(t *testing.T) {
	cases := map[string]string{
		"mlb":  "MLB-STL",
		"nfl":  "NFL-TEN",
		"ncaa": "NCAA-TEX",
		"nba":  "NBA-MEM",
		"hs":   "HS-STL-001",
		"nil":  "NIL-TEX-OLYMPIC",
		"intl": "INTL-NPB-01",
	}

	for league, wantTeam := range cases {
		teams, err := Teams(league)
		if err != nil {
			t.Errorf("Teams(%q): %v", league, err)
			continue
		}
		found := false
		for _, tm := range teams {
			if tm == wantTeam {
				found = true
			}
		}
		if !found {
			t.Errorf("Teams(%q) = %v, want to include %q", league, teams, wantTeam)
		}
	}
}

func TestTeams_UnknownLeagueErrors(t *testing.T) {
	_, err := Teams("xfl")
	if err == nil {
		t.Error("expected an error for a league with no fixture directory")
	}
}
