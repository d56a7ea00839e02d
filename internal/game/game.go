// Package game is the string-based front of the rule engine. A Game owns one
// board and serializes every command against it.
package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hailam/chessroom/internal/board"
	"github.com/hailam/chessroom/internal/engine"
)

// Mover picks a move for the side to move on a board snapshot.
type Mover interface {
	BestMove(b *board.Board, d engine.Difficulty) (board.Move, bool)
}

// Game is one chess game. All methods are safe for concurrent use.
type Game struct {
	mu sync.Mutex
	b  *board.Board

	san []string

	// version counts mutations so an AI search can detect that the board
	// moved on while it was thinking.
	version uint64
}

// New creates a game from the standard starting position.
func New() *Game {
	return &Game{b: board.NewBoard()}
}

// NewSandbox creates a game on an empty board open for placement.
func NewSandbox() *Game {
	return &Game{b: board.NewEmptyBoard()}
}

// FromFEN creates a game from a FEN position.
func FromFEN(fen string) (*Game, error) {
	b, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{b: b}, nil
}

// Place adds a piece during sandbox setup, e.g. "e4wq". It returns false if
// the square is occupied.
func (g *Game) Place(spec string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ok, err := g.b.Place(spec)
	if ok {
		g.version++
	}
	return ok, err
}

// Unplace removes a piece during sandbox setup, e.g. "e4". It returns false
// if the square is empty.
func (g *Game) Unplace(spec string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ok, err := g.b.Remove(spec)
	if ok {
		g.version++
	}
	return ok, err
}

// SubmitMove parses and plays a move such as "e2->e4" for the side to move.
func (g *Game) SubmitMove(spec string) (Outcome, error) {
	m, err := board.ParseMove(spec)
	if err != nil {
		return Malformed, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.commit(m)
}

// commit plays m and records it. The caller holds the lock.
func (g *Game) commit(m board.Move) (Outcome, error) {
	if _, pending := g.b.PendingPromotion(); pending {
		return Blocked, board.ErrPromotionPending
	}
	if g.over() {
		return Blocked, ErrGameOver
	}

	san := g.b.SAN(m)
	ok, err := g.b.MakeMove(m)
	switch {
	case errors.Is(err, board.ErrMalformed):
		return Malformed, err
	case err != nil:
		return Illegal, err
	case !ok:
		return Illegal, nil
	}

	// A pending promotion is recorded once the piece is chosen.
	if _, pending := g.b.PendingPromotion(); !pending {
		g.san = append(g.san, san)
	}
	g.version++
	return Applied, nil
}

// ResolvePromotion completes a pending promotion with "q", "r", "b" or "n".
func (g *Game) ResolvePromotion(code string) error {
	k, err := board.ParsePromotionKind(code)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	sq, pending := g.b.PendingPromotion()
	if !pending {
		return board.ErrNoPromotion
	}
	history := g.b.History()
	last := history[len(history)-1]
	if last.To != sq {
		return fmt.Errorf("%w: pending promotion on %s but last move ended on %s", board.ErrCorrupt, sq, last.To)
	}

	before := g.b.Clone()
	before.Undo()
	san := before.SAN(board.NewPromotion(last.From, last.To, k))

	if err := g.b.ResolvePromotion(k); err != nil {
		return err
	}
	g.san = append(g.san, san)
	g.version++
	return nil
}

// Undo takes back the last move, or the unresolved pawn move of a pending
// promotion. It returns false if there is nothing to undo.
func (g *Game) Undo() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, pending := g.b.PendingPromotion()
	if !g.b.Undo() {
		return false
	}
	if !pending && len(g.san) > 0 {
		g.san = g.san[:len(g.san)-1]
	}
	g.version++
	return true
}

// LegalDestinations returns the legal destinations of the piece on square,
// in generation order. The result is empty, never nil, for an empty square.
func (g *Game) LegalDestinations(square string) ([]string, error) {
	from, err := board.ParseCoord(square)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	dests := g.b.LegalDestinations(from)
	out := make([]string, 0, len(dests))
	for _, d := range dests {
		out = append(out, d.String())
	}
	return out, nil
}

// ExportBoard returns the piece codes indexed [row][col], row 0 being rank 1.
// Empty squares are "".
func (g *Game) ExportBoard() [8][8]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.Export()
}

// IsGameOver returns true on checkmate, stalemate or the ply cap. A sandbox
// position that is not yet playable is never over.
func (g *Game) IsGameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.over()
}

func (g *Game) over() bool {
	if g.b.InSetup() && g.b.Validate() != nil {
		return false
	}
	return g.b.IsGameOver()
}

// IsCheckmate returns true if c is checkmated.
func (g *Game) IsCheckmate(c board.Color) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.IsCheckmate(c)
}

// IsStalemate returns true if c is stalemated.
func (g *Game) IsStalemate(c board.Color) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.IsStalemate(c)
}

// Result returns the game result and why it was reached.
func (g *Game) Result() (Result, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return result(g.b)
}

// Turn returns the side to move.
func (g *Game) Turn() board.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.Turn()
}

// PendingPromotion returns the square awaiting a promotion choice.
func (g *Game) PendingPromotion() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sq, ok := g.b.PendingPromotion()
	if !ok {
		return "", false
	}
	return sq.String(), true
}

// History returns the moves played so far in SAN.
func (g *Game) History() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string{}, g.san...)
}

// FEN returns the current position as FEN.
func (g *Game) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.FEN()
}

// LoadFEN replaces the position and clears the move log.
func (g *Game) LoadFEN(fen string) error {
	b, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.b = b
	g.san = nil
	g.version++
	return nil
}

// Snapshot returns a copy of the board.
func (g *Game) Snapshot() *board.Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.Clone()
}

// String returns a visual representation of the board.
func (g *Game) String() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.String()
}

// PlayAI lets ai choose and play a move for the side to move. The search runs
// on a snapshot without holding the lock; if the game changed meanwhile the
// move is discarded with ErrStaleSearch.
func (g *Game) PlayAI(ai Mover, d engine.Difficulty) (board.Move, error) {
	g.mu.Lock()
	if _, pending := g.b.PendingPromotion(); pending {
		g.mu.Unlock()
		return board.NoMove, board.ErrPromotionPending
	}
	if g.b.InSetup() {
		if err := g.b.Validate(); err != nil {
			g.mu.Unlock()
			return board.NoMove, err
		}
	}
	if g.b.IsGameOver() {
		g.mu.Unlock()
		return board.NoMove, ErrGameOver
	}
	snapshot := g.b.Clone()
	version := g.version
	g.mu.Unlock()

	m, ok := ai.BestMove(snapshot, d)
	if !ok {
		return board.NoMove, ErrGameOver
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.version != version {
		return board.NoMove, ErrStaleSearch
	}
	outcome, err := g.commit(m)
	if err != nil {
		return board.NoMove, err
	}
	if outcome != Applied {
		return board.NoMove, fmt.Errorf("%w: engine move %s was %s", board.ErrCorrupt, m, outcome)
	}
	return m, nil
}
