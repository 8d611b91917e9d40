package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
)

func TestWriteAndReadLeague(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	env := LeagueEnvelope{
		League:      "MLB",
		GeneratedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Players: []athlete.Athlete{
			{PlayerID: "MLB-STL-abcd1234", Name: "Example Player"},
		},
	}

	if err := s.WriteLeague(env); err != nil {
		t.Fatalf("WriteLeague: %v", err)
	}

	got, ok := s.ReadLeague("MLB")
	if !ok {
		t.Fatal("expected ReadLeague to find the just-written file")
	}
	if got.League != "MLB" || len(got.Players) != 1 {
		t.Errorf("ReadLeague returned %+v", got)
	}
	if got.Players[0].PlayerID != "MLB-STL-abcd1234" {
		t.Errorf("PlayerID = %q", got.Players[0].PlayerID)
	}
}

func TestReadLeague_MissingFileReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)

	_, ok := s.ReadLeague("NFL")
	if ok {
		t.Error("expected ok=false for a league that was never written")
	}
}

func TestWriteAtomic_NoPartialFileOnDiskAfterWrite(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)

	env := LeagueEnvelope{League: "NBA", GeneratedAt: time.Now()}
	if err := s.WriteLeague(env); err != nil {
		t.Fatalf("WriteLeague: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "leagues"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	for _, e := range entries {
		if e.Name() != "NBA.json" {
			t.Errorf("expected only the final file NBA.json, found leftover %q", e.Name())
		}
	}
}

func TestWriteUnified(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)

	env := UnifiedEnvelope{
		Version:     UnifiedVersion,
		GeneratedAt: time.Now(),
		Teams:       []athlete.Team{{TeamID: "MLB-STL"}},
		Players:     []athlete.Athlete{{PlayerID: "MLB-STL-abcd1234"}},
	}

	if err := s.WriteUnified(env); err != nil {
		t.Fatalf("WriteUnified: %v", err)
	}

	path := filepath.Join(dir, "unified", "unified_data_latest.json")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected unified file at %s: %v", path, err)
	}
}

func TestWriteReadiness(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)

	if err := s.WriteReadiness(map[string]string{"status": "ok"}); err != nil {
		t.Fatalf("WriteReadiness: %v", err)
	}

	path := filepath.Join(dir, "readiness.json")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected readiness file at %s: %v", path, err)
	}
}

func TestLeagueFileInfo(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)

	if _, ok := s.LeagueFileInfo("MLB"); ok {
		t.Error("expected no file info before any write")
	}

	if err := s.WriteLeague(LeagueEnvelope{League: "MLB"}); err != nil {
		t.Fatalf("WriteLeague: %v", err)
	}

	mtime, ok := s.LeagueFileInfo("MLB")
	if !ok {
		t.Fatal("expected file info after write")
	}
	if mtime.IsZero() {
		t.Error("expected a non-zero mod time")
	}
}

func TestWriteLeague_OverwritesPreviousContent(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)

	if err := s.WriteLeague(LeagueEnvelope{League: "MLB", Players: []athlete.Athlete{{PlayerID: "a"}}}); err != nil {
		t.Fatalf("first WriteLeague: %v", err)
	}
	if err := s.WriteLeague(LeagueEnvelope{League: "MLB", Players: []athlete.Athlete{{PlayerID: "b"}, {PlayerID: "c"}}}); err != nil {
		t.Fatalf("second WriteLeague: %v", err)
	}

	got, ok := s.ReadLeague("MLB")
	if !ok {
		t.Fatal("expected to read back the league file")
	}
	if len(got.Players) != 2 {
		t.Errorf("expected the second write to fully replace the first, got %d players", len(got.Players))
	}
}
