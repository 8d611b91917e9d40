// Package store persists league and unified data to the filesystem
// layout every downstream consumer reads (§6.4): leagues/<league>.json
// per-league envelopes, unified/unified_data_latest.json for the
// cross-league combined view, and readiness.json for the aggregator's
// output. Every write is atomic — temp file, fsync, rename — so a
// concurrent reader never observes a partially written file, and a
// crash mid-write leaves the previous good file in place.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blazeintel/havf-core/internal/athlete"
)

// LeagueEnvelope is the persisted shape of leagues/<league>.json.
type LeagueEnvelope struct {
	League      string            `json:"league"`
	GeneratedAt time.Time         `json:"generated_at"`
	Players     []athlete.Athlete `json:"players"`
}

// UnifiedEnvelope is the persisted shape of unified/unified_data_latest.json.
type UnifiedEnvelope struct {
	Version     string            `json:"version"`
	GeneratedAt time.Time         `json:"generated_at"`
	Teams       []athlete.Team    `json:"teams"`
	Players     []athlete.Athlete `json:"players"`
}

// UnifiedVersion is stamped onto every unified envelope this build
// produces (§6.5 schema contract).
const UnifiedVersion = "1.0"

// Store writes JSON envelopes beneath Root using atomic file replacement.
type Store struct {
	Root string
}

// New returns a Store rooted at root, creating the directory if needed.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("store: create root %q: %w", root, err)
	}
	return &Store{Root: root}, nil
}

// WriteLeague persists one league's envelope to leagues/<league>.json.
func (s *Store) WriteLeague(env LeagueEnvelope) error {
	dir := filepath.Join(s.Root, "leagues")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: create leagues dir: %w", err)
	}
	target := filepath.Join(dir, env.League+".json")
	return writeAtomic(target, env)
}

// WriteUnified persists the cross-league combined view to
// unified/unified_data_latest.json.
func (s *Store) WriteUnified(env UnifiedEnvelope) error {
	dir := filepath.Join(s.Root, "unified")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: create unified dir: %w", err)
	}
	target := filepath.Join(dir, "unified_data_latest.json")
	return writeAtomic(target, env)
}

// WriteReadiness persists the aggregator's output to readiness.json at
// the store root.
func (s *Store) WriteReadiness(v any) error {
	target := filepath.Join(s.Root, "readiness.json")
	return writeAtomic(target, v)
}

// ReadLeague loads a previously written league envelope, or
// (LeagueEnvelope{}, false) if none exists yet.
func (s *Store) ReadLeague(league string) (LeagueEnvelope, bool) {
	var env LeagueEnvelope
	target := filepath.Join(s.Root, "leagues", league+".json")
	b, err := os.ReadFile(target)
	if err != nil {
		return env, false
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return env, false
	}
	return env, true
}

// LeagueFileInfo reports a league file's last-write time for freshness
// checks (used by the status command), or (time.Time{}, false) if the
// file doesn't exist.
func (s *Store) LeagueFileInfo(league string) (time.Time, bool) {
	target := filepath.Join(s.Root, "leagues", league+".json")
	fi, err := os.Stat(target)
	if err != nil {
		return time.Time{}, false
	}
	return fi.ModTime(), true
}

// writeAtomic marshals v to indented JSON and replaces target's contents
// without ever exposing a partial write: write to a sibling temp file,
// fsync it, then rename over target (rename is atomic on the same
// filesystem on every platform this runs on).
func writeAtomic(target string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", target, err)
	}

	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: rename into place: %w", err)
	}
	return nil
}
