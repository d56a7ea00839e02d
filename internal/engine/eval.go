// Package engine implements the chess AI search engine.
package engine

import (
	"github.com/hailam/chessroom/internal/board"
)

// Evaluation constants, in centipawns.
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 0

	// CenterPawnBonus is awarded for each pawn on d4, e4, d5 or e5.
	CenterPawnBonus = 20
)

// Piece values array for quick lookup
var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

// PieceValue returns the material value of a piece kind.
func PieceValue(k board.Kind) int {
	if int(k) >= len(pieceValues) {
		return 0
	}
	return pieceValues[k]
}

// isCenter returns true for d4, e4, d5 and e5.
func isCenter(c board.Coord) bool {
	return (c.Row() == 3 || c.Row() == 4) && (c.Col() == 3 || c.Col() == 4)
}

// EvaluateColor returns the material plus centre pawn score of color c.
func EvaluateColor(b *board.Board, c board.Color) int {
	score := 0
	for s := board.Slot(0); s < board.SlotsPerSide; s++ {
		p := b.Piece(c, s)
		if !p.Active() {
			continue
		}
		score += PieceValue(p.Kind())
		if p.Kind() == board.Pawn && isCenter(p.Coord()) {
			score += CenterPawnBonus
		}
	}
	return score
}

// Evaluate returns the static evaluation from the side to move's perspective.
func Evaluate(b *board.Board) int {
	us := b.Turn()
	return EvaluateColor(b, us) - EvaluateColor(b, us.Other())
}
