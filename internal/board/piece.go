package board

import "fmt"

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Code returns the one-letter code used in piece codes ('w' or 'b').
func (c Color) Code() byte {
	if c == Black {
		return 'b'
	}
	return 'w'
}

// ParseColor parses a color code ('w' or 'b').
func ParseColor(code byte) (Color, bool) {
	switch code {
	case 'w':
		return White, true
	case 'b':
		return Black, true
	}
	return NoColor, false
}

// forward is the row delta of a pawn push.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

// homeRow is the row the king and rooks start on.
func (c Color) homeRow() int {
	if c == White {
		return 0
	}
	return 7
}

func (c Color) pawnRow() int {
	if c == White {
		return 1
	}
	return 6
}

func (c Color) lastRow() int {
	return c.Other().homeRow()
}

// Kind is the type of a chess piece.
type Kind uint8

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoKind Kind = 6
)

// String returns the piece kind name.
func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the lowercase letter for the kind.
func (k Kind) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if k > NoKind {
		return ' '
	}
	return chars[k]
}

// ParseKind parses a lowercase kind letter.
func ParseKind(c byte) (Kind, bool) {
	switch c {
	case 'p':
		return Pawn, true
	case 'n':
		return Knight, true
	case 'b':
		return Bishop, true
	case 'r':
		return Rook, true
	case 'q':
		return Queen, true
	case 'k':
		return King, true
	}
	return NoKind, false
}

// Slot is a stable index into one side's piece registry.
type Slot uint8

// SlotsPerSide is the fixed capacity of a side's registry.
const SlotsPerSide = 16

// KingSlot is the registry index of a side's king.
const KingSlot Slot = 15

// slotRanges maps each kind to the registry indices reserved for it:
// 0-7 pawns, 8-9 rooks, 10-11 knights, 12-13 bishops, 14 queen, 15 king.
var slotRanges = [6][2]Slot{
	Pawn:   {0, 7},
	Knight: {10, 11},
	Bishop: {12, 13},
	Rook:   {8, 9},
	Queen:  {14, 14},
	King:   {15, 15},
}

// slotKind returns the kind a slot is reserved for.
func slotKind(s Slot) Kind {
	for k, r := range slotRanges {
		if s >= r[0] && s <= r[1] {
			return Kind(k)
		}
	}
	return NoKind
}

// Piece is one registry record. Captured or unplaced pieces are inactive.
type Piece struct {
	color  Color
	kind   Kind
	moves  int
	at     Coord
	active bool
}

// Color returns the piece color.
func (p Piece) Color() Color { return p.color }

// Kind returns the piece kind.
func (p Piece) Kind() Kind { return p.kind }

// Moves returns how many times a king or rook has moved.
func (p Piece) Moves() int { return p.moves }

// Active returns true if the piece is on the board.
func (p Piece) Active() bool { return p.active }

// Coord returns the square of the piece, or NoCoord if it is inactive.
func (p Piece) Coord() Coord {
	if !p.active {
		return NoCoord
	}
	return p.at
}

// Code returns the two-letter piece code, e.g. "wp" or "bn".
func (p Piece) Code() string {
	return string([]byte{p.color.Code(), p.kind.Char()})
}

// ParsePieceCode parses a two-letter piece code such as "wq".
func ParsePieceCode(s string) (Color, Kind, error) {
	if len(s) != 2 {
		return NoColor, NoKind, fmt.Errorf("%w: piece code %q must be 2 characters", ErrMalformed, s)
	}
	c, ok := ParseColor(s[0])
	if !ok {
		return NoColor, NoKind, fmt.Errorf("%w: invalid color %q", ErrMalformed, s[0])
	}
	k, ok := ParseKind(s[1])
	if !ok {
		return NoColor, NoKind, fmt.Errorf("%w: invalid piece kind %q", ErrMalformed, s[1])
	}
	return c, k, nil
}

// ref addresses a registry slot from a grid cell. The zero value is an empty cell.
type ref uint8

func makeRef(c Color, s Slot) ref {
	return ref(uint8(c)*SlotsPerSide + uint8(s) + 1)
}

func (r ref) empty() bool  { return r == 0 }
func (r ref) color() Color { return Color((r - 1) / SlotsPerSide) }
func (r ref) slot() Slot   { return Slot((r - 1) % SlotsPerSide) }
