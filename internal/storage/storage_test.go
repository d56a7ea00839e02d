package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestStorage(t *testing.T) {
	s := openTest(t)

	t.Run("EmptyStats", func(t *testing.T) {
		stats, err := s.LoadStats()
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(NewGameStats(), stats); diff != "" {
			t.Errorf("stats mismatch (-want +got):\n%s", diff)
		}
		if stats.DrawRate() != 0 {
			t.Errorf("Expected 0 draw rate")
		}
	})

	records := []GameRecord{
		{Result: ResultBlackWins, Reason: "checkmate", Mode: ModeHumanVsHuman, Moves: []string{"f3", "e5", "g4", "Qh4#"}, Duration: time.Minute},
		{Result: ResultDraw, Reason: "stalemate", Mode: ModeHumanVsComputer, Difficulty: "easy", Moves: []string{"e4"}, Duration: time.Second},
		{Result: ResultWhiteWins, Reason: "checkmate", Mode: ModeComputerVsComputer, Difficulty: "hard", Moves: []string{"e4", "e5", "Qh5", "Nc6", "Bc4", "Nf6", "Qxf7#"}},
	}
	for i := range records {
		id, err := s.RecordGame(records[i])
		if err != nil {
			t.Fatalf("RecordGame: %v", err)
		}
		if id != uint64(i+1) {
			t.Errorf("RecordGame id = %d, want %d", id, i+1)
		}
		records[i].ID = id
	}

	t.Run("Games", func(t *testing.T) {
		games, err := s.Games()
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(records, games, cmpopts.IgnoreFields(GameRecord{}, "Finished")); diff != "" {
			t.Errorf("games mismatch (-want +got):\n%s", diff)
		}
		for _, g := range games {
			if g.Finished.IsZero() {
				t.Errorf("game %d has no finish time", g.ID)
			}
		}
	})

	t.Run("Game", func(t *testing.T) {
		got, err := s.Game(2)
		if err != nil {
			t.Fatal(err)
		}
		if got.Reason != "stalemate" || got.Difficulty != "easy" {
			t.Errorf("Game(2) = %+v", got)
		}
		if _, err := s.Game(99); !errors.Is(err, ErrNotFound) {
			t.Errorf("Game(99) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Stats", func(t *testing.T) {
		stats, err := s.LoadStats()
		if err != nil {
			t.Fatal(err)
		}
		want := &GameStats{
			GamesPlayed:   3,
			WhiteWins:     1,
			BlackWins:     1,
			Draws:         1,
			ByReason:      map[string]int{"checkmate": 2, "stalemate": 1},
			ByMode:        map[string]int{"hvh": 1, "hvc": 1, "cvc": 1},
			TotalMoves:    12,
			LongestGame:   7,
			TotalPlayTime: time.Minute + time.Second,
		}
		if diff := cmp.Diff(want, stats); diff != "" {
			t.Errorf("stats mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDrawRate(t *testing.T) {
	stats := &GameStats{
		GamesPlayed: 10,
		WhiteWins:   5,
		BlackWins:   3,
		Draws:       2,
	}
	rate := stats.DrawRate()
	if rate != 20 {
		t.Errorf("Expected 20%% draw rate, got %.2f%%", rate)
	}
}

func TestOpenDir(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.RecordGame(GameRecord{Result: ResultDraw, Reason: "ply limit"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
