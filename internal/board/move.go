package board

import (
	"fmt"
	"strings"
)

// Move is a request to move the piece on From to To. Promotion names the
// replacement kind for a pawn reaching the last rank; NoKind leaves the
// choice pending on the board.
type Move struct {
	From      Coord
	To        Coord
	Promotion Kind
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoCoord, To: NoCoord, Promotion: NoKind}

// NewMove creates a move without a promotion choice.
func NewMove(from, to Coord) Move {
	return Move{From: from, To: to, Promotion: NoKind}
}

// NewPromotion creates a pawn move that promotes to kind.
func NewPromotion(from, to Coord, kind Kind) Move {
	return Move{From: from, To: to, Promotion: kind}
}

// String returns the move in "<from>-><to>" form, with the promotion letter
// appended when one is set (e.g. "e7->e8q").
func (m Move) String() string {
	s := m.From.String() + "->" + m.To.String()
	if m.Promotion != NoKind {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove parses a "<from>-><to>" move string such as "e2->e4".
func ParseMove(s string) (Move, error) {
	if len(s) != 6 || s[2:4] != "->" {
		return NoMove, fmt.Errorf("%w: move %q must look like e2->e4", ErrMalformed, s)
	}
	from, err := ParseCoord(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseCoord(s[4:6])
	if err != nil {
		return NoMove, err
	}
	return NewMove(from, to), nil
}

// ParsePromotionKind parses the kind a pawn may promote to ("q", "r", "b", "n").
func ParsePromotionKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 1 {
		return NoKind, fmt.Errorf("%w: promotion %q must be one letter", ErrMalformed, s)
	}
	k, ok := ParseKind(s[0])
	if !ok || !isPromotionKind(k) {
		return NoKind, fmt.Errorf("%w: cannot promote to %q", ErrMalformed, s)
	}
	return k, nil
}

func isPromotionKind(k Kind) bool {
	return k == Knight || k == Bishop || k == Rook || k == Queen
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Record is one history entry. Castling writes two records: the king's,
// then the rook's with Linked set, and undo reverses both together.
type Record struct {
	From       Coord
	To         Coord
	Color      Color
	Kind       Kind // kind of the mover before the move
	Slot       Slot
	Capture    bool
	Captured   Slot // opponent slot, valid when Capture is set
	CapturedAt Coord
	EnPassant  bool
	Linked     bool
	Promotion  Kind // kind chosen on promotion, NoKind otherwise

	prevPromo Coord
	seed      bool // synthesized from a FEN en passant field; never undone
}

// Move returns the record as a move.
func (r Record) Move() Move {
	return Move{From: r.From, To: r.To, Promotion: r.Promotion}
}

// IsDoublePush returns true if the record is a two-square pawn advance.
func (r Record) IsDoublePush() bool {
	d := r.To.Row() - r.From.Row()
	return r.Kind == Pawn && !r.Linked && (d == 2 || d == -2)
}
