package board

import (
	"fmt"
	"strings"
)

// DrawPlyCap is the value of the ply counter at which the game is drawn.
const DrawPlyCap = 100

// Board is a complete game state: an 8x8 grid of references into the two
// piece registries, plus turn, counters, pending promotion and history.
type Board struct {
	grid   [8][8]ref
	pieces [2][SlotsPerSide]Piece

	turn    Color
	plies   int   // incremented after each Black move
	promo   Coord // pawn waiting for a promotion choice, NoCoord if none
	history []Record

	// setup is true while sandbox placement is allowed.
	setup bool

	// Zobrist hash, maintained incrementally by link/unlink.
	hash uint64
}

// NewEmptyBoard creates an empty sandbox board with White to move.
func NewEmptyBoard() *Board {
	b := &Board{
		turn:  White,
		promo: NoCoord,
		setup: true,
	}
	for c := White; c <= Black; c++ {
		for s := Slot(0); s < SlotsPerSide; s++ {
			b.pieces[c][s] = Piece{color: c, kind: slotKind(s), at: NoCoord}
		}
	}
	return b
}

// backRank lists the slot occupying each file of the home row.
var backRank = [8]Slot{8, 10, 12, 14, 15, 13, 11, 9}

// NewBoard creates the standard starting position.
func NewBoard() *Board {
	b := NewEmptyBoard()
	for c := White; c <= Black; c++ {
		for col := 0; col < 8; col++ {
			b.link(at(c.pawnRow(), col), makeRef(c, Slot(col)))
			b.link(at(c.homeRow(), col), makeRef(c, backRank[col]))
		}
	}
	b.setup = false
	return b
}

// Clone creates a deep copy of the board.
func (b *Board) Clone() *Board {
	nb := *b
	nb.history = append([]Record(nil), b.history...)
	return &nb
}

// Turn returns the side to move.
func (b *Board) Turn() Color {
	return b.turn
}

// Plies returns the ply counter.
func (b *Board) Plies() int {
	return b.plies
}

// Hash returns the Zobrist hash of the position.
func (b *Board) Hash() uint64 {
	return b.hash
}

// InSetup returns true while sandbox placement is still allowed.
func (b *Board) InSetup() bool {
	return b.setup
}

// PendingPromotion returns the square of a pawn awaiting its promotion choice.
func (b *Board) PendingPromotion() (Coord, bool) {
	return b.promo, b.promo != NoCoord
}

// History returns a copy of the move history.
func (b *Board) History() []Record {
	return append([]Record(nil), b.history...)
}

// Piece returns the registry record in the given slot.
func (b *Board) Piece(c Color, s Slot) Piece {
	return b.pieces[c][s]
}

// PieceAt returns the piece on the square and whether there is one.
func (b *Board) PieceAt(c Coord) (Piece, bool) {
	if !c.IsValid() {
		return Piece{}, false
	}
	r := b.grid[c.row][c.col]
	if r.empty() {
		return Piece{}, false
	}
	return b.pieces[r.color()][r.slot()], true
}

// IsEmpty returns true if the square holds no piece. Squares off the board
// are never empty.
func (b *Board) IsEmpty(c Coord) bool {
	if !c.IsValid() {
		return false
	}
	return b.grid[c.row][c.col].empty()
}

// cell returns the reference stored at c.
func (b *Board) cell(c Coord) ref {
	return b.grid[c.row][c.col]
}

// holds returns true if c is occupied by a piece of the given color and kind.
func (b *Board) holds(c Coord, color Color, kind Kind) bool {
	r := b.cell(c)
	if r.empty() || r.color() != color {
		return false
	}
	return b.pieces[color][r.slot()].kind == kind
}

// link attaches the slot r to square c.
func (b *Board) link(c Coord, r ref) {
	p := &b.pieces[r.color()][r.slot()]
	b.grid[c.row][c.col] = r
	p.at = c
	p.active = true
	b.hash ^= zobristPiece[p.color][p.kind][c.index()]
}

// unlink detaches whatever is on c and deactivates it.
func (b *Board) unlink(c Coord) ref {
	r := b.cell(c)
	if r.empty() {
		return r
	}
	p := &b.pieces[r.color()][r.slot()]
	b.hash ^= zobristPiece[p.color][p.kind][c.index()]
	b.grid[c.row][c.col] = 0
	p.at = NoCoord
	p.active = false
	return r
}

// setKind changes the kind of an active piece, keeping its slot.
func (b *Board) setKind(c Color, s Slot, k Kind) {
	p := &b.pieces[c][s]
	if p.active {
		b.hash ^= zobristPiece[c][p.kind][p.at.index()]
		b.hash ^= zobristPiece[c][k][p.at.index()]
	}
	p.kind = k
}

func (b *Board) flipTurn() {
	b.turn = b.turn.Other()
	b.hash ^= zobristSideToMove
}

// freeSlot returns the first inactive slot reserved for kind.
func (b *Board) freeSlot(c Color, k Kind) (Slot, bool) {
	r := slotRanges[k]
	for s := r[0]; s <= r[1]; s++ {
		if !b.pieces[c][s].active {
			return s, true
		}
	}
	return 0, false
}

// Place adds a piece during sandbox setup. The spec is a square followed by a
// piece code, e.g. "e4wq". It returns false without changing anything if the
// square is already occupied.
func (b *Board) Place(spec string) (bool, error) {
	if len(spec) != 4 {
		return false, fmt.Errorf("%w: placement %q must be 4 characters", ErrMalformed, spec)
	}
	sq, err := ParseCoord(spec[:2])
	if err != nil {
		return false, err
	}
	color, kind, err := ParsePieceCode(spec[2:])
	if err != nil {
		return false, err
	}
	if !b.setup {
		return false, ErrSetupClosed
	}
	if !b.IsEmpty(sq) {
		return false, nil
	}
	slot, ok := b.freeSlot(color, kind)
	if !ok {
		return false, fmt.Errorf("%w: %s %s", ErrNoFreeSlot, color, kind)
	}
	b.put(color, slot, kind, sq)
	return true, nil
}

// put activates slot as kind on sq.
func (b *Board) put(c Color, s Slot, k Kind, sq Coord) {
	p := &b.pieces[c][s]
	p.kind = k
	p.moves = 0
	b.link(sq, makeRef(c, s))
}

// Remove takes a piece off the board during sandbox setup. The spec is a
// square such as "e4". It returns false if the square was already empty.
func (b *Board) Remove(spec string) (bool, error) {
	sq, err := ParseCoord(spec)
	if err != nil {
		return false, err
	}
	if !b.setup {
		return false, ErrSetupClosed
	}
	r := b.unlink(sq)
	if r.empty() {
		return false, nil
	}
	b.pieces[r.color()][r.slot()].kind = slotKind(r.slot())
	return true, nil
}

// Validate checks that the position can be played from.
func (b *Board) Validate() error {
	for c := White; c <= Black; c++ {
		if !b.pieces[c][KingSlot].active {
			return fmt.Errorf("%w: %s has no king", ErrInvalidPosition, c)
		}
		for _, p := range b.pieces[c] {
			if p.active && p.kind == Pawn && (p.at.Row() == 0 || p.at.Row() == 7) {
				return fmt.Errorf("%w: pawn on %s", ErrInvalidPosition, p.at)
			}
		}
	}
	if b.inCheck(b.turn.Other()) {
		return fmt.Errorf("%w: %s is in check but not to move", ErrInvalidPosition, b.turn.Other())
	}
	return nil
}

// Start ends sandbox setup after validating the position.
func (b *Board) Start() error {
	if !b.setup {
		return nil
	}
	if err := b.Validate(); err != nil {
		return err
	}
	b.setup = false
	return nil
}

// KingCoord returns the square of the king of color c.
func (b *Board) KingCoord(c Color) (Coord, error) {
	k := b.pieces[c][KingSlot]
	if !k.active || k.kind != King {
		return NoCoord, fmt.Errorf("%w: %s king missing", ErrCorrupt, c)
	}
	return k.at, nil
}

// Export returns the board as piece codes indexed [row][col]; empty squares
// are "".
func (b *Board) Export() [8][8]string {
	var out [8][8]string
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p, ok := b.PieceAt(at(row, col)); ok {
				out[row][col] = p.Code()
			}
		}
	}
	return out
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 7; row >= 0; row-- {
		fmt.Fprintf(&sb, "%d  ", row+1)
		for col := 0; col < 8; col++ {
			p, ok := b.PieceAt(at(row, col))
			if !ok {
				sb.WriteString(". ")
				continue
			}
			ch := p.kind.Char()
			if p.color == White {
				ch -= 'a' - 'A'
			}
			sb.WriteByte(ch)
			sb.WriteByte(' ')
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.turn)
	fmt.Fprintf(&sb, "Plies: %d\n", b.plies)
	if sq, ok := b.PendingPromotion(); ok {
		fmt.Fprintf(&sb, "Promotion pending: %s\n", sq)
	}
	return sb.String()
}
