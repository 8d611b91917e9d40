package normalize

import (
	"testing"

	"github.com/blazeintel/havf-core/internal/athlete"
)

func TestPlayerID(t *testing.T) {
	id1 := PlayerID("MLB", "STL", "12345")
	id2 := PlayerID("MLB", "STL", "12345")
	id3 := PlayerID("MLB", "STL", "67890")

	if id1 != id2 {
		t.Errorf("PlayerID should be deterministic: %q != %q", id1, id2)
	}
	if id1 == id3 {
		t.Error("different provider IDs should not collide")
	}

	wantPrefix := "MLB-STL-"
	if len(id1) != len(wantPrefix)+8 {
		t.Errorf("PlayerID %q does not have the expected <LEAGUE>-<TEAM>-<8 char hash> shape", id1)
	}
	if id1[:len(wantPrefix)] != wantPrefix {
		t.Errorf("PlayerID %q missing prefix %q", id1, wantPrefix)
	}
}

func TestMergePerformances_OnlyNonNilOptionalMetricsSurvive(t *testing.T) {
	avg := 0.293
	base := map[athlete.Metric]float64{"mlb.war": 3.2, "mlb.wpa": 1.1}
	optional := map[athlete.Metric]*float64{"mlb.avg": &avg, "mlb.era": nil}

	got := mergePerformances(base, optional)

	if got["mlb.war"] != 3.2 || got["mlb.wpa"] != 1.1 {
		t.Errorf("base metrics not carried through: %+v", got)
	}
	if got["mlb.avg"] != 0.293 {
		t.Errorf("mlb.avg = %v, want 0.293", got["mlb.avg"])
	}
	if _, ok := got["mlb.era"]; ok {
		t.Error("expected a nil optional metric to be omitted, not zero-valued")
	}
}

func TestRequiredFieldsPresent(t *testing.T) {
	cases := []struct {
		name                          string
		athleteName, sport, team, pos string
		want                          bool
	}{
		{"all present", "Paul Goldschmidt", "MLB", "MLB-STL", "1B", true},
		{"missing name", "", "MLB", "MLB-STL", "1B", false},
		{"missing sport", "Paul Goldschmidt", "", "MLB-STL", "1B", false},
		{"missing team", "Paul Goldschmidt", "MLB", "", "1B", false},
		{"missing position", "Paul Goldschmidt", "MLB", "MLB-STL", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := requiredFieldsPresent(tc.athleteName, tc.sport, tc.team, tc.pos); got != tc.want {
				t.Errorf("requiredFieldsPresent(%q, %q, %q, %q) = %v, want %v",
					tc.athleteName, tc.sport, tc.team, tc.pos, got, tc.want)
			}
		})
	}
}
