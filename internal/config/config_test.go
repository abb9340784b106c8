package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// isolate points HOME at an empty directory so user config files don't leak in.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	var fromYAML Config
	if err := yaml.Unmarshal(DefaultYAML(), &fromYAML); err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if fromYAML != DefaultConfig() {
		t.Errorf("embedded default = %+v, want %+v", fromYAML, DefaultConfig())
	}
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	if cfg.Game.Spawn4Prob != 0.10 {
		t.Errorf("Spawn4Prob = %v, want 0.10", cfg.Game.Spawn4Prob)
	}
	if want := filepath.Join(home, ".t2048", "scores.db"); cfg.Storage.DBPath != want {
		t.Errorf("DBPath = %q, want %q", cfg.Storage.DBPath, want)
	}
	if cfg.Session.TTL != 720*time.Hour {
		t.Errorf("TTL = %v, want 720h", cfg.Session.TTL)
	}
	if lvl, _ := cfg.LogLevel(); lvl != log.InfoLevel {
		t.Errorf("LogLevel = %v, want info", lvl)
	}
}

func TestLoadCustomPathOverlays(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := `
game:
  seed: 42
storage:
  db_path: /tmp/custom.db
leaderboard:
  limit: 25
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Game.Seed != 42 || cfg.Storage.DBPath != "/tmp/custom.db" || cfg.Leaderboard.Limit != 25 {
		t.Errorf("custom values not applied: %+v", cfg)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Game.Spawn4Prob != 0.10 || cfg.Log.Prefix != "t2048" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".t2048")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() should fail for missing custom path")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("game: [not, a, map"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("Load() should fail for malformed YAML")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("T2048_SEED", "7")
	t.Setenv("T2048_SPAWN4_PROB", "0.25")
	t.Setenv("T2048_DB_PATH", "/var/lib/t2048/scores.db")
	t.Setenv("T2048_SESSION_TTL", "2h")
	t.Setenv("T2048_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Game.Seed != 7 || cfg.Game.Spawn4Prob != 0.25 {
		t.Errorf("game env overrides not applied: %+v", cfg.Game)
	}
	if cfg.Storage.DBPath != "/var/lib/t2048/scores.db" {
		t.Errorf("DBPath = %q", cfg.Storage.DBPath)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("TTL = %v, want 2h", cfg.Session.TTL)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"spawn prob too high", func(c *Config) { c.Game.Spawn4Prob = 1.5 }, "spawn4_prob"},
		{"spawn prob negative", func(c *Config) { c.Game.Spawn4Prob = -0.1 }, "spawn4_prob"},
		{"empty db path", func(c *Config) { c.Storage.DBPath = " " }, "db_path"},
		{"zero ttl", func(c *Config) { c.Session.TTL = 0 }, "ttl"},
		{"no secret source", func(c *Config) { c.Session.KeyPath = "" }, "secret"},
		{"zero limit", func(c *Config) { c.Leaderboard.Limit = 0 }, "limit"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestRuntime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Game.Seed = 99

	rt := cfg.Runtime()
	if rt.Seed != 99 || rt.Spawn4Prob != cfg.Game.Spawn4Prob {
		t.Errorf("Runtime() = %+v", rt)
	}
}

func TestExpandHome(t *testing.T) {
	home := isolate(t)

	tests := map[string]string{
		"~/x/y.db":  filepath.Join(home, "x", "y.db"),
		"~":         home,
		"/abs/y.db": "/abs/y.db",
		"rel/y.db":  "rel/y.db",
		"~other/y":  "~other/y",
	}
	for in, want := range tests {
		got, err := ExpandHome(in)
		if err != nil {
			t.Fatalf("ExpandHome(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ExpandHome(%q) = %q, want %q", in, got, want)
		}
	}
}
