package normalize

import (
	"testing"
	"time"

	"github.com/blazeintel/havf-core/internal/providers/mlbapi"
)

func TestNormalizeMLB(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid roster normalizes every player in order", func(t *testing.T) {
		payload := MLBRosterPayload{
			TeamID:   "MLB-STL",
			TeamCode: "STL",
			WinPct:   0.58,
			Players: []MLBPlayerPayload{
				{
					MLBPerson: mlbapi.MLBPerson{
						ID:              665487,
						FullName:        "Goldy Example",
						BirthDate:       "1988-09-10",
						BirthCity:       "Wilmington",
						Height:          "6-3",
						Weight:          220,
						PrimaryPosition: &mlbapi.MLBPosition{Abbreviation: "1B"},
						BatSide:         &mlbapi.MLBHandedness{Code: "R"},
					},
					WAR: 3.2,
					WPA: 1.1,
				},
				{
					MLBPerson: mlbapi.MLBPerson{
						ID:              543829,
						FullName:        "Second Example",
						PrimaryPosition: &mlbapi.MLBPosition{Abbreviation: "SS"},
					},
					WAR: 1.5,
					WPA: 0.4,
				},
			},
		}

		result := NormalizeMLB(payload, now)

		if len(result.Errors) != 0 {
			t.Fatalf("expected no errors, got %v", result.Errors)
		}
		if len(result.Athletes) != 2 {
			t.Fatalf("expected 2 athletes, got %d", len(result.Athletes))
		}
		if result.WinPct == nil || *result.WinPct != 0.58 {
			t.Errorf("WinPct = %v, want 0.58", result.WinPct)
		}

		first := result.Athletes[0]
		if first.Name != "Goldy Example" {
			t.Errorf("Name = %q", first.Name)
		}
		if first.League != "MLB" || first.Sport != "MLB" {
			t.Errorf("League/Sport not set correctly: %+v", first)
		}
		if first.Bio == nil || first.Bio.DOB == nil {
			t.Fatal("expected DOB to be parsed")
		}
		if first.Bio.HeightCM == nil {
			t.Error("expected height to be parsed")
		}
		if first.Bio.WeightKG == nil {
			t.Error("expected weight to be parsed")
		}
		if first.Bio.Handedness != "R" {
			t.Errorf("Handedness = %q, want R", first.Bio.Handedness)
		}
		if len(first.Meta.Sources) == 0 || first.Meta.UpdatedAt.IsZero() {
			t.Error("expected Meta to carry sources and updated_at")
		}
		if first.NILProfile == nil {
			t.Error("expected a present-but-empty NILProfile when no NIL fields supplied")
		}

		second := result.Athletes[1]
		if second.Bio.DOB != nil {
			t.Error("expected no DOB when birth date is absent")
		}
	})

	t.Run("player missing position is dropped with a reported error", func(t *testing.T) {
		payload := MLBRosterPayload{
			TeamID:   "MLB-STL",
			TeamCode: "STL",
			Players: []MLBPlayerPayload{
				{MLBPerson: mlbapi.MLBPerson{ID: 1, FullName: "No Position"}},
			},
		}

		result := NormalizeMLB(payload, now)

		if len(result.Athletes) != 0 {
			t.Fatalf("expected the record to be dropped, got %d athletes", len(result.Athletes))
		}
		if len(result.Errors) != 1 {
			t.Fatalf("expected 1 error, got %d", len(result.Errors))
		}
		if result.Errors[0].Reason != ReasonMissingRequired {
			t.Errorf("Reason = %q, want %q", result.Errors[0].Reason, ReasonMissingRequired)
		}
	})

	t.Run("one bad record does not abort the rest of the batch", func(t *testing.T) {
		payload := MLBRosterPayload{
			TeamID:   "MLB-STL",
			TeamCode: "STL",
			Players: []MLBPlayerPayload{
				{MLBPerson: mlbapi.MLBPerson{ID: 1, FullName: "No Position"}},
				{MLBPerson: mlbapi.MLBPerson{ID: 2, FullName: "Has Position", PrimaryPosition: &mlbapi.MLBPosition{Abbreviation: "RP"}}},
			},
		}

		result := NormalizeMLB(payload, now)

		if len(result.Athletes) != 1 {
			t.Fatalf("expected 1 surviving athlete, got %d", len(result.Athletes))
		}
		if len(result.Errors) != 1 {
			t.Fatalf("expected 1 error, got %d", len(result.Errors))
		}
		if result.Errors[0].RecordIndex != 0 {
			t.Errorf("RecordIndex = %d, want 0 (original position preserved)", result.Errors[0].RecordIndex)
		}
	})

	t.Run("hitting and pitching splits are only carried when the provider supplies them", func(t *testing.T) {
		avg, era := 0.293, 3.41
		payload := MLBRosterPayload{
			TeamID:   "MLB-STL",
			TeamCode: "STL",
			Players: []MLBPlayerPayload{
				{
					MLBPerson: mlbapi.MLBPerson{ID: 1, FullName: "Two-Way Player", PrimaryPosition: &mlbapi.MLBPosition{Abbreviation: "DH"}},
					WAR:       2.0, WPA: 0.5,
					AVG: &avg, ERA: &era,
				},
				{
					MLBPerson: mlbapi.MLBPerson{ID: 2, FullName: "Pure Pitcher", PrimaryPosition: &mlbapi.MLBPosition{Abbreviation: "SP"}},
					WAR:       1.0, WPA: 0.2,
				},
			},
		}

		result := NormalizeMLB(payload, now)
		if len(result.Athletes) != 2 {
			t.Fatalf("expected 2 athletes, got %d", len(result.Athletes))
		}

		twoWay := result.Athletes[0].Stats.Performances
		if twoWay["mlb.avg"] != 0.293 {
			t.Errorf("mlb.avg = %v, want 0.293", twoWay["mlb.avg"])
		}
		if twoWay["mlb.era"] != 3.41 {
			t.Errorf("mlb.era = %v, want 3.41", twoWay["mlb.era"])
		}

		pitcherOnly := result.Athletes[1].Stats.Performances
		if _, ok := pitcherOnly["mlb.avg"]; ok {
			t.Error("expected mlb.avg to be absent when the provider never supplied it")
		}
		if pitcherOnly["mlb.war"] != 1.0 {
			t.Errorf("mlb.war = %v, want 1.0", pitcherOnly["mlb.war"])
		}
	})

	t.Run("biometrics and NIL profile only attached when provider supplies them", func(t *testing.T) {
		hrv := 62.0
		valuation := 50000.0
		payload := MLBRosterPayload{
			TeamID:   "MLB-STL",
			TeamCode: "STL",
			Players: []MLBPlayerPayload{
				{
					MLBPerson:       mlbapi.MLBPerson{ID: 1, FullName: "Has Biometrics", PrimaryPosition: &mlbapi.MLBPosition{Abbreviation: "C"}},
					HRVRMSSDMs:      &hrv,
					NILValuationUSD: &valuation,
				},
			},
		}

		result := NormalizeMLB(payload, now)
		if len(result.Athletes) != 1 {
			t.Fatalf("expected 1 athlete, got %d", len(result.Athletes))
		}

		a := result.Athletes[0]
		if a.Biometrics == nil || a.Biometrics.HRVRMSSDMs == nil {
			t.Error("expected Biometrics to be attached")
		}
		if a.NILProfile == nil || a.NILProfile.ValuationUSD == nil {
			t.Error("expected NILProfile to be attached")
		}
	})
}
