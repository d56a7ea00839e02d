package board

var (
	knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookDirs      = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs    = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs     = append(append([][2]int{}, rookDirs...), bishopDirs...)
)

// IsAttacked returns true if any piece of color by attacks c. Pawns attack
// diagonally only and the king by adjacency, so a king's own safety never
// recurses into move generation.
func (b *Board) IsAttacked(c Coord, by Color) bool {
	back := -by.forward()
	for _, dc := range [2]int{-1, 1} {
		if sq, ok := c.Offset(back, dc); ok && b.holds(sq, by, Pawn) {
			return true
		}
	}
	for _, o := range knightOffsets {
		if sq, ok := c.Offset(o[0], o[1]); ok && b.holds(sq, by, Knight) {
			return true
		}
	}
	for _, o := range kingOffsets {
		if sq, ok := c.Offset(o[0], o[1]); ok && b.holds(sq, by, King) {
			return true
		}
	}
	return b.rayAttacked(c, by, rookDirs, Rook) || b.rayAttacked(c, by, bishopDirs, Bishop)
}

// rayAttacked looks along dirs for the first piece and reports whether it is
// a slider of color by moving like kind (or a queen).
func (b *Board) rayAttacked(c Coord, by Color, dirs [][2]int, kind Kind) bool {
	for _, d := range dirs {
		for sq, ok := c.Offset(d[0], d[1]); ok; sq, ok = sq.Offset(d[0], d[1]) {
			if b.IsEmpty(sq) {
				continue
			}
			if b.holds(sq, by, kind) || b.holds(sq, by, Queen) {
				return true
			}
			break
		}
	}
	return false
}

// inCheck returns true if the king of color c is attacked. A side without a
// king (possible only during sandbox setup) is never in check.
func (b *Board) inCheck(c Color) bool {
	k := b.pieces[c][KingSlot]
	if !k.active {
		return false
	}
	return b.IsAttacked(k.at, c.Other())
}

// InCheck returns true if the king of color c is in check.
func (b *Board) InCheck(c Color) bool {
	return b.inCheck(c)
}
