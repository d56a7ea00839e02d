package engine

import (
	"github.com/hailam/chessroom/internal/board"
)

// CaptureBase lifts every capture above all quiet moves.
const CaptureBase = 1000

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores
// Higher score = search first
// Score = victimValue * 10 - attackerValue
var mvvLva = [6][6]int{
	//       P    N    B    R    Q    K  (attacker)
	/* P */ {15, 14, 14, 13, 12, 11}, // Pawn victim
	/* N */ {25, 24, 24, 23, 22, 21}, // Knight victim
	/* B */ {35, 34, 34, 33, 32, 31}, // Bishop victim
	/* R */ {45, 44, 44, 43, 42, 41}, // Rook victim
	/* Q */ {55, 54, 54, 53, 52, 51}, // Queen victim
	/* K */ {0, 0, 0, 0, 0, 0},       // King can't be captured
}

// scoreMove returns the ordering score for a single move.
func scoreMove(b *board.Board, m board.Move) int {
	attacker, ok := b.PieceAt(m.From)
	if !ok {
		return 0
	}
	if victim, ok := b.PieceAt(m.To); ok && victim.Color() != attacker.Color() {
		return CaptureBase + mvvLva[victim.Kind()][attacker.Kind()]
	}
	// A pawn moving diagonally onto an empty square captures en passant.
	if attacker.Kind() == board.Pawn && m.From.Col() != m.To.Col() {
		return CaptureBase + mvvLva[board.Pawn][board.Pawn]
	}
	return 0
}

// orderMoves sorts captures first by MVV-LVA. The sort is stable, so moves
// with equal scores keep generation order.
func orderMoves(b *board.Board, moves *board.MoveList) {
	n := moves.Len()
	var buf [256]int
	scores := buf[:n]
	for i := 0; i < n; i++ {
		scores[i] = scoreMove(b, moves.Get(i))
	}
	// Insertion sort: lists are short and already mostly in order.
	for i := 1; i < n; i++ {
		for j := i; j > 0 && scores[j] > scores[j-1]; j-- {
			scores[j], scores[j-1] = scores[j-1], scores[j]
			moves.Swap(j, j-1)
		}
	}
}
