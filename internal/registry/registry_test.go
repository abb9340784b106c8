package registry

import (
	"testing"

	"github.com/vovakirdan/tile2048/internal/games/t2048"
)

type fixedStrategy struct {
	id  string
	dir t2048.Direction
}

func (s fixedStrategy) ID() string { return s.id }

func (s fixedStrategy) Choose(board t2048.Board) (t2048.Direction, bool) {
	return s.dir, t2048.Slide(board, s.dir).Changed
}

func TestRegisterCreate(t *testing.T) {
	var seeds []int64
	Register(StrategyInfo{ID: "test_fixed_left", Title: "Fixed left"}, func(seed int64) Strategy {
		seeds = append(seeds, seed)
		return fixedStrategy{id: "test_fixed_left", dir: t2048.DirLeft}
	})

	if !Exists("test_fixed_left") {
		t.Fatal("Exists() = false after Register()")
	}
	if len(seeds) != 0 {
		t.Errorf("Register() called the factory %d times, want 0", len(seeds))
	}

	s, err := Create("test_fixed_left", 9)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if s.ID() != "test_fixed_left" {
		t.Errorf("ID() = %q", s.ID())
	}
	if len(seeds) != 1 || seeds[0] != 9 {
		t.Errorf("factory seeds = %v, want [9]", seeds)
	}

	found := false
	for _, info := range List() {
		if info.ID == "test_fixed_left" {
			found = true
			if info.Title != "Fixed left" {
				t.Errorf("Title = %q, want %q", info.Title, "Fixed left")
			}
		}
	}
	if !found {
		t.Error("List() does not include registered strategy")
	}
}

func TestRegisterDefaultsTitleToID(t *testing.T) {
	Register(StrategyInfo{ID: "test_untitled"}, func(int64) Strategy {
		return fixedStrategy{id: "test_untitled"}
	})

	for _, info := range List() {
		if info.ID == "test_untitled" && info.Title != "test_untitled" {
			t.Errorf("Title = %q, want id", info.Title)
		}
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no_such_strategy", 1); err == nil {
		t.Error("Create() should fail for unknown id")
	}
	if Exists("no_such_strategy") {
		t.Error("Exists() should be false for unknown id")
	}
}

func TestRegisterPanics(t *testing.T) {
	f := func(int64) Strategy { return fixedStrategy{id: "test_dup", dir: t2048.DirUp} }
	Register(StrategyInfo{ID: "test_dup"}, f)

	tests := map[string]StrategyInfo{
		"duplicate": {ID: "test_dup"},
		"empty id":  {Title: "Nameless"},
	}
	for name, info := range tests {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Register() should panic")
				}
			}()
			Register(info, f)
		})
	}
}

func TestListSorted(t *testing.T) {
	Register(StrategyInfo{ID: "test_b"}, func(int64) Strategy { return fixedStrategy{id: "test_b"} })
	Register(StrategyInfo{ID: "test_a"}, func(int64) Strategy { return fixedStrategy{id: "test_a"} })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Errorf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}
