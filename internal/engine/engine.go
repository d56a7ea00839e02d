package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/hailam/chessroom/internal/board"
)

// ErrNoLegalMoves is returned when the side to move has nothing to play.
var ErrNoLegalMoves = errors.New("no legal moves")

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply
	Medium                   // 3 ply
	Hard                     // 4 ply
)

// difficultyDepth maps difficulty to a fixed search depth.
var difficultyDepth = map[Difficulty]int{
	Easy:   2,
	Medium: 3,
	Hard:   4,
}

// Depth returns the search depth in plies for the difficulty.
func (d Difficulty) Depth() int {
	if depth, ok := difficultyDepth[d]; ok {
		return depth
	}
	return difficultyDepth[Medium]
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// ParseDifficulty parses "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Result is the outcome of a fixed-depth search.
type Result struct {
	Move  board.Move
	Score int
	Nodes uint64
}

// Engine is the chess AI. It holds no per-search state and may be shared
// between games.
type Engine struct {
	threads int
	cacheMB int

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine whose workers each get an evaluation cache of
// the given size in MB.
func NewEngine(cacheMB int) *Engine {
	if cacheMB < 1 {
		cacheMB = 1
	}
	return &Engine{threads: 1, cacheMB: cacheMB}
}

// SetThreads sets the number of root workers.
func (e *Engine) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	e.threads = n
}

// Threads returns the number of root workers.
func (e *Engine) Threads() int {
	return e.threads
}

// BestMove returns the move with the best backed-up value for the side to
// move at the difficulty's depth. ok is false when there is no legal move.
// The board passed in is never modified.
func (e *Engine) BestMove(b *board.Board, d Difficulty) (board.Move, bool) {
	res, err := e.SearchDepth(b, d.Depth())
	if err != nil {
		return board.NoMove, false
	}
	return res.Move, true
}

// SearchDepth searches a snapshot of b to the given depth.
func (e *Engine) SearchDepth(b *board.Board, depth int) (Result, error) {
	if depth < 1 {
		depth = 1
	}
	if depth > MaxPly-1 {
		depth = MaxPly - 1
	}
	if _, pending := b.PendingPromotion(); pending {
		return Result{}, board.ErrPromotionPending
	}
	if b.InSetup() {
		if err := b.Validate(); err != nil {
			return Result{}, err
		}
	}

	startTime := time.Now()
	snapshot := b.Clone()
	roots := snapshot.GenerateLegalMoves(snapshot.Turn())
	if roots.Len() == 0 {
		return Result{}, ErrNoLegalMoves
	}
	orderMoves(snapshot, roots)

	var res Result
	var err error
	if e.threads > 1 && roots.Len() > 1 {
		res, err = e.searchParallel(snapshot, roots, depth)
	} else {
		w := newWorker(snapshot, NewEvalCache(e.cacheMB))
		res, err = w.searchRoot(roots, depth)
	}
	if err != nil {
		return Result{}, err
	}

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth: depth,
			Score: res.Score,
			Nodes: res.Nodes,
			Time:  time.Since(startTime),
			Move:  res.Move,
		})
	}
	return res, nil
}

// Perft performs a perft test on a copy of b (for debugging move generation).
func (e *Engine) Perft(b *board.Board, depth int) uint64 {
	return b.Clone().Perft(depth)
}
