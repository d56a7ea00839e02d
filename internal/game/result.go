package game

import "github.com/hailam/chessroom/internal/board"

// Outcome classifies a submitted move.
type Outcome int

const (
	Applied   Outcome = iota // committed
	Illegal                  // not legal here, board unchanged
	Malformed                // the move text could not be parsed
	Blocked                  // a promotion is pending or the game is over
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Illegal:
		return "illegal"
	case Malformed:
		return "malformed"
	case Blocked:
		return "blocked"
	}
	return "unknown"
}

// Result is the state of the game in PGN terms.
type Result int

const (
	Ongoing Result = iota
	WhiteWins
	BlackWins
	Draw
)

func (r Result) String() string {
	switch r {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	}
	return "*"
}

// Winner returns the winning color, or NoColor for draws and ongoing games.
func (r Result) Winner() board.Color {
	switch r {
	case WhiteWins:
		return board.White
	case BlackWins:
		return board.Black
	}
	return board.NoColor
}

// result derives the result and its reason from a board.
func result(b *board.Board) (Result, string) {
	if b.InSetup() && b.Validate() != nil {
		return Ongoing, ""
	}
	switch {
	case b.IsCheckmate(board.White):
		return BlackWins, "checkmate"
	case b.IsCheckmate(board.Black):
		return WhiteWins, "checkmate"
	case b.IsStalemate(b.Turn()), b.IsStalemate(b.Turn().Other()):
		return Draw, "stalemate"
	case b.IsDraw():
		return Draw, "ply limit"
	}
	return Ongoing, ""
}
