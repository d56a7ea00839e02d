package board

import "fmt"

// pseudoLegal appends the destinations of the piece on from, ignoring
// whether the move would leave its own king in check.
func (b *Board) pseudoLegal(from Coord, dst []Coord) []Coord {
	r := b.cell(from)
	if r.empty() {
		return dst
	}
	p := b.pieces[r.color()][r.slot()]
	switch p.kind {
	case Pawn:
		return b.pawnMoves(from, p.color, dst)
	case Knight:
		return b.knightMoves(from, p.color, dst)
	case Bishop:
		return b.slidingMoves(from, p.color, bishopDirs, dst)
	case Rook:
		return b.slidingMoves(from, p.color, rookDirs, dst)
	case Queen:
		return b.slidingMoves(from, p.color, queenDirs, dst)
	case King:
		return b.kingMoves(from, p.color, dst)
	}
	return dst
}

func (b *Board) isEnemy(c Coord, us Color) bool {
	r := b.cell(c)
	return !r.empty() && r.color() != us
}

func (b *Board) pawnMoves(from Coord, us Color, dst []Coord) []Coord {
	fwd := us.forward()
	if one, ok := from.Offset(fwd, 0); ok && b.IsEmpty(one) {
		dst = append(dst, one)
		if from.Row() == us.pawnRow() {
			if two, ok := from.Offset(2*fwd, 0); ok && b.IsEmpty(two) {
				dst = append(dst, two)
			}
		}
	}
	for _, dc := range [2]int{-1, 1} {
		to, ok := from.Offset(fwd, dc)
		if !ok {
			continue
		}
		if b.isEnemy(to, us) {
			dst = append(dst, to)
		} else if _, ok := b.enPassantVictim(from, to, us); ok {
			dst = append(dst, to)
		}
	}
	return dst
}

// enPassantVictim returns the pawn captured if a pawn of color us on from
// moves diagonally to to en passant. That requires the last history record
// to be an opponent double push that ended beside from on the same row.
func (b *Board) enPassantVictim(from, to Coord, us Color) (Coord, bool) {
	if len(b.history) == 0 {
		return NoCoord, false
	}
	last := b.history[len(b.history)-1]
	if last.Color == us || !last.IsDoublePush() {
		return NoCoord, false
	}
	victim := last.To
	if victim.Row() != from.Row() || abs(victim.Col()-from.Col()) != 1 {
		return NoCoord, false
	}
	if to.Col() != victim.Col() || to.Row() != from.Row()+us.forward() {
		return NoCoord, false
	}
	if !b.holds(victim, last.Color, Pawn) || !b.IsEmpty(to) {
		return NoCoord, false
	}
	return victim, true
}

func (b *Board) knightMoves(from Coord, us Color, dst []Coord) []Coord {
	for _, o := range knightOffsets {
		to, ok := from.Offset(o[0], o[1])
		if !ok {
			continue
		}
		if b.IsEmpty(to) || b.isEnemy(to, us) {
			dst = append(dst, to)
		}
	}
	return dst
}

func (b *Board) slidingMoves(from Coord, us Color, dirs [][2]int, dst []Coord) []Coord {
	for _, d := range dirs {
		for to, ok := from.Offset(d[0], d[1]); ok; to, ok = to.Offset(d[0], d[1]) {
			if b.IsEmpty(to) {
				dst = append(dst, to)
				continue
			}
			if b.isEnemy(to, us) {
				dst = append(dst, to)
			}
			break
		}
	}
	return dst
}

// kingMoves generates the adjacent squares not attacked by the opponent,
// then the castling destinations.
func (b *Board) kingMoves(from Coord, us Color, dst []Coord) []Coord {
	them := us.Other()
	for _, o := range kingOffsets {
		to, ok := from.Offset(o[0], o[1])
		if !ok {
			continue
		}
		if !b.IsEmpty(to) && !b.isEnemy(to, us) {
			continue
		}
		if b.IsAttacked(to, them) {
			continue
		}
		dst = append(dst, to)
	}
	row := us.homeRow()
	for _, rookCol := range [2]int{7, 0} {
		if b.CanCastle(from, at(row, rookCol)) {
			dst = append(dst, at(row, 4+2*sign(rookCol-4)))
		}
	}
	return dst
}

// CanCastle reports whether the king on king may castle with the rook on
// rook: neither has moved, the squares between are empty, and neither the
// squares the king crosses (start and destination included) nor the rook's
// square are attacked.
func (b *Board) CanCastle(king, rook Coord) bool {
	if !king.IsValid() || !rook.IsValid() {
		return false
	}
	kr, rr := b.cell(king), b.cell(rook)
	if kr.empty() || rr.empty() || kr.color() != rr.color() {
		return false
	}
	us := kr.color()
	kp, rp := b.pieces[us][kr.slot()], b.pieces[us][rr.slot()]
	if kp.kind != King || rp.kind != Rook || kp.moves != 0 || rp.moves != 0 {
		return false
	}
	row := us.homeRow()
	if king.Row() != row || rook.Row() != row || king.Col() != 4 {
		return false
	}
	if rook.Col() != 0 && rook.Col() != 7 {
		return false
	}

	step := sign(rook.Col() - king.Col())
	for col := king.Col() + step; col != rook.Col(); col += step {
		if !b.IsEmpty(at(row, col)) {
			return false
		}
	}

	them := us.Other()
	dest := king.Col() + 2*step
	for col := king.Col(); ; col += step {
		if b.IsAttacked(at(row, col), them) {
			return false
		}
		if col == dest {
			break
		}
	}
	return !b.IsAttacked(rook, them)
}

// IsValidMove returns true if moving the piece on from to to is pseudo-legal
// and does not leave the mover's king in check.
func (b *Board) IsValidMove(from, to Coord) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	r := b.cell(from)
	if r.empty() {
		return false
	}
	var buf [32]Coord
	for _, d := range b.pseudoLegal(from, buf[:0]) {
		if d == to {
			return b.keepsKingSafe(NewMove(from, to), r.color())
		}
	}
	return false
}

// keepsKingSafe applies m, tests the mover's king and undoes m. The board is
// left exactly as it was.
func (b *Board) keepsKingSafe(m Move, us Color) bool {
	b.apply(m)
	safe := !b.inCheck(us)
	b.undo()
	return safe
}

// LegalDestinations returns the legal destinations of the piece on from in
// generation order.
func (b *Board) LegalDestinations(from Coord) []Coord {
	if !from.IsValid() {
		return nil
	}
	r := b.cell(from)
	if r.empty() {
		return nil
	}
	var buf [32]Coord
	var out []Coord
	for _, to := range b.pseudoLegal(from, buf[:0]) {
		if b.keepsKingSafe(NewMove(from, to), r.color()) {
			out = append(out, to)
		}
	}
	return out
}

// GenerateLegalMoves returns every legal move for color c, in registry slot
// order. Pawn moves onto the last rank carry no promotion choice.
func (b *Board) GenerateLegalMoves(c Color) *MoveList {
	ml := NewMoveList()
	var buf [32]Coord
	for s := Slot(0); s < SlotsPerSide; s++ {
		p := b.pieces[c][s]
		if !p.active {
			continue
		}
		from := p.at
		for _, to := range b.pseudoLegal(from, buf[:0]) {
			m := NewMove(from, to)
			if b.keepsKingSafe(m, c) {
				ml.Add(m)
			}
		}
	}
	return ml
}

// HasLegalMoves returns true if color c has any legal move.
func (b *Board) HasLegalMoves(c Color) bool {
	var buf [32]Coord
	for s := Slot(0); s < SlotsPerSide; s++ {
		p := b.pieces[c][s]
		if !p.active {
			continue
		}
		for _, to := range b.pseudoLegal(p.at, buf[:0]) {
			if b.keepsKingSafe(NewMove(p.at, to), c) {
				return true
			}
		}
	}
	return false
}

// IsCheckmate returns true if color c is in check and has no legal move.
func (b *Board) IsCheckmate(c Color) bool {
	return b.inCheck(c) && !b.HasLegalMoves(c)
}

// IsStalemate returns true if color c is not in check and has no legal move.
func (b *Board) IsStalemate(c Color) bool {
	return !b.inCheck(c) && !b.HasLegalMoves(c)
}

// IsDraw returns true if the ply cap has been reached.
func (b *Board) IsDraw() bool {
	return b.plies >= DrawPlyCap
}

// IsGameOver returns true when either side is checkmated or stalemated, or
// when the ply cap is reached.
func (b *Board) IsGameOver() bool {
	if b.IsDraw() {
		return true
	}
	for c := White; c <= Black; c++ {
		if !b.HasLegalMoves(c) {
			return true
		}
	}
	return false
}

// MakeMove validates and commits a move for the side to move. It returns
// false, leaving the board untouched, if the move is not legal. A first move
// on a sandbox board closes setup after validating the position.
func (b *Board) MakeMove(m Move) (bool, error) {
	if b.promo != NoCoord {
		return false, ErrPromotionPending
	}
	if !m.From.IsValid() || !m.To.IsValid() {
		return false, fmt.Errorf("%w: move %s", ErrMalformed, m)
	}
	if b.setup {
		if err := b.Validate(); err != nil {
			return false, err
		}
	}
	p, ok := b.PieceAt(m.From)
	if !ok || p.color != b.turn {
		return false, nil
	}
	if m.Promotion != NoKind {
		if p.kind != Pawn || m.To.Row() != p.color.lastRow() || !isPromotionKind(m.Promotion) {
			return false, nil
		}
	}
	if !b.IsValidMove(m.From, m.To) {
		return false, nil
	}
	b.setup = false
	b.apply(m)
	return true, nil
}

// Commit plays a move taken from GenerateLegalMoves for the side to move
// without validating it again. Moves from any other source go through
// MakeMove; a move that does not start on a piece of the side to move is
// reported as ErrCorrupt.
func (b *Board) Commit(m Move) error {
	if b.promo != NoCoord {
		return ErrPromotionPending
	}
	if !m.From.IsValid() || !m.To.IsValid() {
		return fmt.Errorf("%w: move %s", ErrCorrupt, m)
	}
	r := b.cell(m.From)
	if r.empty() || r.color() != b.turn {
		return fmt.Errorf("%w: no %s piece on %s", ErrCorrupt, b.turn, m.From)
	}
	b.setup = false
	b.apply(m)
	return nil
}

// ResolvePromotion replaces the pending pawn with a piece of kind k.
func (b *Board) ResolvePromotion(k Kind) error {
	if b.promo == NoCoord {
		return ErrNoPromotion
	}
	if !isPromotionKind(k) {
		return fmt.Errorf("%w: cannot promote to %s", ErrMalformed, k)
	}
	r := b.cell(b.promo)
	if r.empty() || len(b.history) == 0 {
		return fmt.Errorf("%w: no pawn on %s", ErrCorrupt, b.promo)
	}
	b.setKind(r.color(), r.slot(), k)
	b.history[len(b.history)-1].Promotion = k
	b.promo = NoCoord
	return nil
}

// Undo reverses the last move, including both halves of castling. It
// returns false if there is nothing to undo.
func (b *Board) Undo() bool {
	return b.undo()
}

// apply commits m without any legality checks. The piece on m.From moves
// regardless of whose turn it is; the turn still flips, so undo restores it.
func (b *Board) apply(m Move) {
	r := b.cell(m.From)
	us, slot := r.color(), r.slot()
	p := &b.pieces[us][slot]

	rec := Record{
		From:       m.From,
		To:         m.To,
		Color:      us,
		Kind:       p.kind,
		Slot:       slot,
		CapturedAt: NoCoord,
		Promotion:  NoKind,
		prevPromo:  b.promo,
	}

	if p.kind == Pawn {
		if victim, ok := b.enPassantVictim(m.From, m.To, us); ok {
			rec.Capture = true
			rec.EnPassant = true
			rec.Captured = b.unlink(victim).slot()
			rec.CapturedAt = victim
		}
	}
	if !rec.Capture && !b.IsEmpty(m.To) {
		rec.Capture = true
		rec.Captured = b.unlink(m.To).slot()
		rec.CapturedAt = m.To
	}

	b.unlink(m.From)
	b.link(m.To, r)
	if p.kind == King || p.kind == Rook {
		p.moves++
	}
	b.history = append(b.history, rec)

	if p.kind == King && abs(m.To.Col()-m.From.Col()) == 2 {
		rookFrom, rookTo := at(m.From.Row(), 7), at(m.From.Row(), 5)
		if m.To.Col() < m.From.Col() {
			rookFrom, rookTo = at(m.From.Row(), 0), at(m.From.Row(), 3)
		}
		rr := b.unlink(rookFrom)
		b.link(rookTo, rr)
		b.pieces[us][rr.slot()].moves++
		b.history = append(b.history, Record{
			From:       rookFrom,
			To:         rookTo,
			Color:      us,
			Kind:       Rook,
			Slot:       rr.slot(),
			CapturedAt: NoCoord,
			Linked:     true,
			Promotion:  NoKind,
			prevPromo:  b.promo,
		})
	}

	if p.kind == Pawn && m.To.Row() == us.lastRow() {
		if isPromotionKind(m.Promotion) {
			b.setKind(us, slot, m.Promotion)
			b.history[len(b.history)-1].Promotion = m.Promotion
		} else {
			b.promo = m.To
		}
	}

	b.flipTurn()
	if us == Black {
		b.plies++
	}
}

// undo pops history records until a whole move has been reversed.
func (b *Board) undo() bool {
	for len(b.history) > 0 {
		rec := b.history[len(b.history)-1]
		if rec.seed {
			return false
		}
		b.history = b.history[:len(b.history)-1]

		r := b.unlink(rec.To)
		p := &b.pieces[rec.Color][rec.Slot]
		p.kind = rec.Kind
		b.link(rec.From, r)
		if rec.Kind == King || rec.Kind == Rook {
			p.moves--
		}
		if rec.Capture {
			b.link(rec.CapturedAt, makeRef(rec.Color.Other(), rec.Captured))
		}

		if !rec.Linked {
			b.promo = rec.prevPromo
			b.flipTurn()
			if rec.Color == Black {
				b.plies--
			}
			return true
		}
	}
	return false
}

// promotionKinds lists the choices a pawn reaching the last rank expands to
// when counting the move tree.
var promotionKinds = [4]Kind{Queen, Rook, Bishop, Knight}

// Perft counts the leaf nodes of the legal move tree to the given depth.
// A pawn move onto the last rank counts once per promotion kind.
func (b *Board) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}
	ml := b.GenerateLegalMoves(b.turn)
	var nodes uint64
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if !b.promotes(m) {
			nodes += b.perftChild(m, depth)
			continue
		}
		for _, k := range promotionKinds {
			nodes += b.perftChild(NewPromotion(m.From, m.To, k), depth)
		}
	}
	return nodes
}

func (b *Board) perftChild(m Move, depth int) uint64 {
	if depth == 1 {
		return 1
	}
	b.apply(m)
	n := b.Perft(depth - 1)
	b.undo()
	return n
}

// promotes returns true if m takes a pawn onto its last rank.
func (b *Board) promotes(m Move) bool {
	r := b.cell(m.From)
	if r.empty() {
		return false
	}
	us := r.color()
	return b.pieces[us][r.slot()].kind == Pawn && m.To.Row() == us.lastRow()
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
