package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tile2048/internal/core"
	"github.com/vovakirdan/tile2048/internal/games/t2048"
)

func TestParseMoves(t *testing.T) {
	const (
		U = t2048.DirUp
		D = t2048.DirDown
		L = t2048.DirLeft
		R = t2048.DirRight
	)

	tests := []struct {
		script string
		want   []t2048.Direction
	}{
		{"lurd", []t2048.Direction{L, U, R, D}},
		{"left,up", []t2048.Direction{L, U}},
		{"Left Down  right", []t2048.Direction{L, D, R}},
		{"ll, d", []t2048.Direction{L, L, D}},
		{"u", []t2048.Direction{U}},
	}

	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			got, err := parseMoves(tt.script)
			if err != nil {
				t.Fatalf("parseMoves(%q) failed: %v", tt.script, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseMoves(%q) = %v, want %v", tt.script, got, tt.want)
			}
		})
	}
}

func TestParseMovesErrors(t *testing.T) {
	for _, script := range []string{"", " , ", "lux", "sideways"} {
		if _, err := parseMoves(script); err == nil {
			t.Errorf("parseMoves(%q) should fail", script)
		}
	}
}

func TestLoadPositionAcceptsPlayOutput(t *testing.T) {
	report := playReport{
		Snapshot: t2048.Snapshot{
			Board: t2048.Board{{2, 4, 2, 4}, {4, 2, 4, 2}, {2, 4, 2, 8}, {0, 8, 16, 32}},
			Score: 120,
			Moves: 30,
			State: t2048.StatePlaying,
		},
		Seed:   42,
		Driver: "greedy",
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "last.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := loadPosition(path)
	if err != nil {
		t.Fatalf("loadPosition() failed: %v", err)
	}
	if snap.Board != report.Board || snap.Score != 120 || snap.Moves != 30 {
		t.Errorf("loadPosition() = %+v, want %+v", snap, report.Snapshot)
	}

	// The position is one left move from game over.
	game := t2048.New(core.DefaultConfig())
	if err := game.Restore(snap); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if !game.Move(t2048.DirLeft) || !game.Snapshot().GameOver {
		t.Errorf("restored position did not end on left: %+v", game.Snapshot())
	}
}

func TestLoadPositionErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := loadPosition(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("loadPosition() should fail for a missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("board: [[2, 4], oops"), 0o644)
	if _, err := loadPosition(bad); err == nil {
		t.Error("loadPosition() should fail for malformed YAML")
	}
}
