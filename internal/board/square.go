// Package board implements the chess rule engine: coordinates, the per-side
// piece registry, the board grid, move generation and legality.
package board

import "fmt"

// Coord is a square on the board. Row 0 is the 1st rank, column 0 the a-file.
type Coord struct {
	row, col int8
}

// NoCoord is the sentinel reported for pieces that are not on the board.
var NoCoord = Coord{-1, -1}

// NewCoord creates a coordinate from row and column indices (0-7).
func NewCoord(row, col int) (Coord, error) {
	if !inBounds(row, col) {
		return NoCoord, fmt.Errorf("%w: coordinate (%d,%d) out of range", ErrMalformed, row, col)
	}
	return Coord{int8(row), int8(col)}, nil
}

// at builds a coordinate from indices already known to be in range.
func at(row, col int) Coord {
	return Coord{int8(row), int8(col)}
}

func inBounds(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

// ParseCoord parses algebraic notation (e.g. "e4") into a Coord.
func ParseCoord(s string) (Coord, error) {
	if len(s) != 2 {
		return NoCoord, fmt.Errorf("%w: square %q must be 2 characters", ErrMalformed, s)
	}
	file, rank := s[0], s[1]
	if !isLetter(file) {
		return NoCoord, fmt.Errorf("%w: file %q is not a letter", ErrMalformed, file)
	}
	if rank < '0' || rank > '9' {
		return NoCoord, fmt.Errorf("%w: rank %q is not a digit", ErrMalformed, rank)
	}
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return NoCoord, fmt.Errorf("%w: square %q out of range", ErrMalformed, s)
	}
	return at(int(rank-'1'), int(file-'a')), nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Row returns the row (rank index) of the coordinate.
func (c Coord) Row() int {
	return int(c.row)
}

// Col returns the column (file index) of the coordinate.
func (c Coord) Col() int {
	return int(c.col)
}

// IsValid returns true if the coordinate is a board square.
func (c Coord) IsValid() bool {
	return inBounds(int(c.row), int(c.col))
}

// Offset returns the coordinate shifted by (dr, dc) and whether it is still
// on the board.
func (c Coord) Offset(dr, dc int) (Coord, bool) {
	r, f := int(c.row)+dr, int(c.col)+dc
	if !c.IsValid() || !inBounds(r, f) {
		return NoCoord, false
	}
	return at(r, f), true
}

// String returns the algebraic notation for the coordinate (e.g. "e4").
func (c Coord) String() string {
	if !c.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+c.col, '1'+c.row)
}

// index maps the coordinate to 0-63, A1=0 and H8=63.
func (c Coord) index() int {
	return int(c.row)*8 + int(c.col)
}
