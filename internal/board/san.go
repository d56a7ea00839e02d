package board

import (
	"strings"
)

// SAN converts a legal move to Standard Algebraic Notation. It must be
// called before the move is made; moves that are not legal fall back to
// m.String().
func (b *Board) SAN(m Move) string {
	p, ok := b.PieceAt(m.From)
	if !ok || !b.IsValidMove(m.From, m.To) {
		return m.String()
	}

	var sb strings.Builder

	if p.kind == King && abs(m.To.Col()-m.From.Col()) == 2 {
		if m.To.Col() > m.From.Col() {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		if p.kind != Pawn {
			sb.WriteByte("PNBRQK"[p.kind])
			sb.WriteString(b.disambiguation(m, p))
		}

		isCapture := !b.IsEmpty(m.To)
		if p.kind == Pawn {
			if _, ok := b.enPassantVictim(m.From, m.To, p.color); ok {
				isCapture = true
			}
		}
		if isCapture {
			if p.kind == Pawn {
				sb.WriteByte('a' + byte(m.From.Col()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(m.To.String())

		if p.kind == Pawn && isPromotionKind(m.Promotion) {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion])
		}
	}

	// Make the move temporarily to find check and mate
	them := p.color.Other()
	b.apply(m)
	if b.inCheck(them) {
		if b.HasLegalMoves(them) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	b.undo()

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed when another
// piece of the same kind can also reach the destination.
func (b *Board) disambiguation(m Move, p Piece) string {
	var candidates []Coord
	for _, other := range b.pieces[p.color] {
		if !other.active || other.kind != p.kind || other.at == m.From {
			continue
		}
		if b.IsValidMove(other.at, m.To) {
			candidates = append(candidates, other.at)
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile := false
	sameRank := false
	for _, c := range candidates {
		if c.Col() == m.From.Col() {
			sameFile = true
		}
		if c.Row() == m.From.Row() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + m.From.Col()))
	}
	if !sameRank {
		return string(rune('1' + m.From.Row()))
	}
	return m.From.String()
}
