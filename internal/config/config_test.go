package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsAppliedWhenNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "does-not-exist.toml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Vision.Host != "127.0.0.1" {
		t.Errorf("Vision.Host = %q, want 127.0.0.1", cfg.Vision.Host)
	}
	if cfg.Vision.Workers != 4 {
		t.Errorf("Vision.Workers = %d, want 4", cfg.Vision.Workers)
	}
	if cfg.Vision.MaxLatencyMs != 33 {
		t.Errorf("Vision.MaxLatencyMs = %d, want 33", cfg.Vision.MaxLatencyMs)
	}
	if cfg.Cache.TTLs.Upstream != 120 {
		t.Errorf("Cache.TTLs.Upstream = %d, want 120", cfg.Cache.TTLs.Upstream)
	}
	want := []string{"MLB-STL", "NFL-TEN", "NCAA-TEX", "NBA-MEM"}
	if len(cfg.FocusTeams) != len(want) {
		t.Fatalf("FocusTeams = %v, want %v", cfg.FocusTeams, want)
	}
	for i, team := range want {
		if cfg.FocusTeams[i] != team {
			t.Errorf("FocusTeams[%d] = %q, want %q", i, cfg.FocusTeams[i], team)
		}
	}
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://custom/havf")
	t.Setenv("LIVE_FETCH", "true")
	t.Setenv("FOCUS_TEAMS", "MLB-STL, NFL-TEN")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.URL != "postgres://custom/havf" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
	if !cfg.Live.Enabled {
		t.Error("expected LIVE_FETCH=true to enable live fetching")
	}
	if len(cfg.FocusTeams) != 2 || cfg.FocusTeams[0] != "MLB-STL" || cfg.FocusTeams[1] != "NFL-TEN" {
		t.Errorf("FocusTeams = %v", cfg.FocusTeams)
	}
}

func TestLoad_ExplicitConfigFileIsRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.toml")
	contents := "[vision]\nworkers = 8\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Vision.Workers != 8 {
		t.Errorf("Vision.Workers = %d, want 8 from the config file", cfg.Vision.Workers)
	}
}

func TestGet_PanicsBeforeLoad(t *testing.T) {
	globalConfig = nil
	defer func() {
		if recover() == nil {
			t.Error("expected Get() to panic before any Load() call")
		}
	}()
	Get()
}

func TestMustLoad_ReturnsConfigOnSuccess(t *testing.T) {
	cfg := MustLoad(filepath.Join(t.TempDir(), "missing.toml"))
	if cfg == nil {
		t.Fatal("expected a non-nil config")
	}
}
