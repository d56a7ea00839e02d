// Package storage keeps finished game records and aggregate statistics.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyStats      = "stats"
	keyGamePrefix = "game/"
)

// ErrNotFound is returned when a game record does not exist.
var ErrNotFound = errors.New("not found")

// GameMode represents who played the game.
type GameMode int

const (
	ModeHumanVsHuman GameMode = iota
	ModeHumanVsComputer
	ModeComputerVsComputer
)

func (m GameMode) String() string {
	switch m {
	case ModeHumanVsHuman:
		return "hvh"
	case ModeHumanVsComputer:
		return "hvc"
	case ModeComputerVsComputer:
		return "cvc"
	}
	return "unknown"
}

// Results as recorded, in PGN notation.
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
)

// GameRecord is one finished game.
type GameRecord struct {
	ID         uint64        `json:"id"`
	Result     string        `json:"result"`
	Reason     string        `json:"reason"`
	Mode       GameMode      `json:"mode"`
	Difficulty string        `json:"difficulty,omitempty"`
	Moves      []string      `json:"moves"`
	FinalFEN   string        `json:"final_fen"`
	Finished   time.Time     `json:"finished"`
	Duration   time.Duration `json:"duration"`
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed   int            `json:"games_played"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Draws         int            `json:"draws"`
	ByReason      map[string]int `json:"by_reason"`
	ByMode        map[string]int `json:"by_mode"`
	TotalMoves    int            `json:"total_moves"`
	LongestGame   int            `json:"longest_game"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		ByReason: make(map[string]int),
		ByMode:   make(map[string]int),
	}
}

// add folds one game into the statistics.
func (s *GameStats) add(rec *GameRecord) {
	s.GamesPlayed++
	switch rec.Result {
	case ResultWhiteWins:
		s.WhiteWins++
	case ResultBlackWins:
		s.BlackWins++
	case ResultDraw:
		s.Draws++
	}
	if rec.Reason != "" {
		s.ByReason[rec.Reason]++
	}
	s.ByMode[rec.Mode.String()]++
	s.TotalMoves += len(rec.Moves)
	if len(rec.Moves) > s.LongestGame {
		s.LongestGame = len(rec.Moves)
	}
	s.TotalPlayTime += rec.Duration
}

// DrawRate returns the share of drawn games as a percentage (0-100)
func (s *GameStats) DrawRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.GamesPlayed) * 100
}

// Store wraps BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens a store in dir, or an in-memory store when dir is empty.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%08d", keyGamePrefix, id))
}

// loadStats reads the statistics inside txn, returning empty stats if none
// have been saved.
func loadStats(txn *badger.Txn) (*GameStats, error) {
	stats := NewGameStats()
	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil // Use empty stats
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Store) LoadStats() (*GameStats, error) {
	var stats *GameStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}

// RecordGame stores a finished game and updates the statistics in one
// transaction. The record's ID is assigned here and returned.
func (s *Store) RecordGame(rec GameRecord) (uint64, error) {
	if rec.Finished.IsZero() {
		rec.Finished = time.Now()
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		stats, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats.add(&rec)
		rec.ID = uint64(stats.GamesPlayed)

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := txn.Set(gameKey(rec.ID), data); err != nil {
			return err
		}

		data, err = json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), data)
	})
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// Game loads one game record by ID.
func (s *Store) Game(id uint64) (GameRecord, error) {
	var rec GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: game %d", ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, err
}

// Games returns every recorded game in the order it was recorded.
func (s *Store) Games() ([]GameRecord, error) {
	var games []GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyGamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			games = append(games, rec)
		}
		return nil
	})
	return games, err
}
