package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string into a board ready for play. Castling rights
// become king and rook move counts, the en passant square becomes a seed
// history record, and the full-move number sets the ply counter. The
// half-move clock is accepted and ignored.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("%w: FEN needs at least 4 fields, got %d", ErrMalformed, len(parts))
	}

	b := NewEmptyBoard()

	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		b.turn = White
	case "b":
		b.turn = Black
		b.hash ^= zobristSideToMove
	default:
		return nil, fmt.Errorf("%w: invalid side to move %q", ErrMalformed, parts[1])
	}

	if err := parseCastlingRights(b, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		if err := parseEnPassant(b, parts[3]); err != nil {
			return nil, err
		}
	}

	if len(parts) > 4 {
		if _, err := strconv.Atoi(parts[4]); err != nil {
			return nil, fmt.Errorf("%w: invalid half-move clock %q", ErrMalformed, parts[4])
		}
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, fmt.Errorf("%w: invalid full-move number %q", ErrMalformed, parts[5])
		}
		b.plies = fmn - 1
	}

	if err := b.Start(); err != nil {
		return nil, err
	}
	return b, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
// Pieces beyond their reserved slots (promoted pieces) take free pawn slots.
func parsePiecePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrMalformed, len(ranks))
	}

	for i, rankStr := range ranks {
		row := 7 - i
		col := 0

		for _, c := range rankStr {
			if col > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrMalformed, row+1)
			}

			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}

			color := White
			lower := c
			if c >= 'a' && c <= 'z' {
				color = Black
			} else {
				lower = c + ('a' - 'A')
			}
			kind, ok := ParseKind(byte(lower))
			if !ok {
				return fmt.Errorf("%w: invalid piece character %q", ErrMalformed, c)
			}
			slot, ok := b.freeSlot(color, kind)
			if !ok && kind != King {
				slot, ok = b.freeSlot(color, Pawn)
			}
			if !ok {
				return fmt.Errorf("%w: too many %s %ss", ErrNoFreeSlot, color, kind)
			}
			b.put(color, slot, kind, at(row, col))
			col++
		}

		if col != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrMalformed, row+1, col)
		}
	}

	return nil
}

// parseCastlingRights marks every king and rook as moved, then clears the
// count of those the rights name.
func parseCastlingRights(b *Board, castling string) error {
	for c := White; c <= Black; c++ {
		for s := range b.pieces[c] {
			p := &b.pieces[c][s]
			if p.active && (p.kind == King || p.kind == Rook) {
				p.moves = 1
			}
		}
	}
	if castling == "-" {
		return nil
	}

	for _, ch := range castling {
		var color Color
		var rookCol int
		switch ch {
		case 'K':
			color, rookCol = White, 7
		case 'Q':
			color, rookCol = White, 0
		case 'k':
			color, rookCol = Black, 7
		case 'q':
			color, rookCol = Black, 0
		default:
			return fmt.Errorf("%w: invalid castling character %q", ErrMalformed, ch)
		}
		row := color.homeRow()
		king, rook := at(row, 4), at(row, rookCol)
		if !b.holds(king, color, King) || !b.holds(rook, color, Rook) {
			return fmt.Errorf("%w: castling right %q without king and rook in place", ErrInvalidPosition, ch)
		}
		b.pieces[color][b.cell(king).slot()].moves = 0
		b.pieces[color][b.cell(rook).slot()].moves = 0
	}
	return nil
}

// parseEnPassant records the double push implied by an en passant square.
func parseEnPassant(b *Board, field string) error {
	sq, err := ParseCoord(field)
	if err != nil {
		return err
	}
	them := b.turn.Other()
	to, ok1 := sq.Offset(them.forward(), 0)
	from, ok2 := sq.Offset(-them.forward(), 0)
	if !ok1 || !ok2 || from.Row() != them.pawnRow() || !b.holds(to, them, Pawn) || !b.IsEmpty(sq) {
		return fmt.Errorf("%w: en passant square %s", ErrInvalidPosition, field)
	}
	b.history = append(b.history, Record{
		From:       from,
		To:         to,
		Color:      them,
		Kind:       Pawn,
		Slot:       b.cell(to).slot(),
		CapturedAt: NoCoord,
		Promotion:  NoKind,
		prevPromo:  NoCoord,
		seed:       true,
	})
	return nil
}

// FEN returns the FEN representation of the board.
func (b *Board) FEN() string {
	var sb strings.Builder

	for row := 7; row >= 0; row-- {
		empty := 0
		for col := 0; col < 8; col++ {
			p, ok := b.PieceAt(at(row, col))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			ch := p.kind.Char()
			if p.color == White {
				ch -= 'a' - 'A'
			}
			sb.WriteByte(ch)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}

	if b.turn == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	rights := ""
	for _, r := range []struct {
		color   Color
		rookCol int
		ch      string
	}{{White, 7, "K"}, {White, 0, "Q"}, {Black, 7, "k"}, {Black, 0, "q"}} {
		if b.castlingRight(r.color, r.rookCol) {
			rights += r.ch
		}
	}
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)

	ep := "-"
	if n := len(b.history); n > 0 && b.history[n-1].IsDoublePush() {
		last := b.history[n-1]
		if mid, ok := last.From.Offset(last.Color.forward(), 0); ok {
			ep = mid.String()
		}
	}
	sb.WriteString(" " + ep)

	fmt.Fprintf(&sb, " 0 %d", b.plies+1)
	return sb.String()
}

// castlingRight reports whether the unmoved king and rook are still in place,
// regardless of whether castling is currently possible.
func (b *Board) castlingRight(c Color, rookCol int) bool {
	row := c.homeRow()
	king, rook := at(row, 4), at(row, rookCol)
	if !b.holds(king, c, King) || !b.holds(rook, c, Rook) {
		return false
	}
	return b.pieces[c][b.cell(king).slot()].moves == 0 && b.pieces[c][b.cell(rook).slot()].moves == 0
}
