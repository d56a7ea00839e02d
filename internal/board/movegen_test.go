package board

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustFEN(t *testing.T, fen string) *Board {
	t.Helper()
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func play(t *testing.T, b *Board, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		ok, err := b.MakeMove(m)
		if err != nil || !ok {
			t.Fatalf("MakeMove(%s) = %v, %v\n%s", s, ok, err, b)
		}
	}
}

func destinations(t *testing.T, b *Board, sq string) []string {
	t.Helper()
	out := []string{}
	for _, c := range b.LegalDestinations(mustCoord(t, sq)) {
		out = append(out, c.String())
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestStartingDestinations(t *testing.T) {
	b := NewBoard()
	if diff := cmp.Diff([]string{"e3", "e4"}, destinations(t, b, "e2")); diff != "" {
		t.Errorf("e2 destinations (-want +got):\n%s", diff)
	}
	if got := destinations(t, b, "e3"); len(got) != 0 {
		t.Errorf("e3 destinations = %v, want none", got)
	}
	// Knight destinations follow the offset table: c3 comes before a3.
	if diff := cmp.Diff([]string{"c3", "a3"}, destinations(t, b, "b1")); diff != "" {
		t.Errorf("b1 destinations (-want +got):\n%s", diff)
	}
	if got := b.GenerateLegalMoves(White).Len(); got != 20 {
		t.Errorf("white has %d moves, want 20", got)
	}
}

func TestMakeMoveRejects(t *testing.T) {
	b := NewBoard()
	before := b.Clone()

	for _, s := range []string{"e2->e5", "e7->e5", "e3->e4", "g1->g3", "a1->a3"} {
		m, _ := ParseMove(s)
		ok, err := b.MakeMove(m)
		if err != nil || ok {
			t.Errorf("MakeMove(%s) = %v, %v; want false, nil", s, ok, err)
		}
	}
	if diff := cmp.Diff(before, b, boardOpts...); diff != "" {
		t.Errorf("rejected moves changed the board (-before +after):\n%s", diff)
	}
}

func TestUndoRestoresState(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"r3k2r/1P6/8/8/8/8/6p1/R3K2R b KQkq - 0 40",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			b := mustFEN(t, fen)
			ml := b.GenerateLegalMoves(b.Turn())
			if ml.Len() == 0 {
				t.Fatal("position has no moves")
			}
			for _, m := range ml.Slice() {
				before := b.Clone()
				ok, err := b.MakeMove(m)
				if err != nil || !ok {
					t.Fatalf("MakeMove(%s) = %v, %v", m, ok, err)
				}
				checkLinkage(t, b)
				if _, pending := b.PendingPromotion(); pending {
					if err := b.ResolvePromotion(Queen); err != nil {
						t.Fatalf("ResolvePromotion after %s: %v", m, err)
					}
				}
				if !b.Undo() {
					t.Fatalf("Undo after %s returned false", m)
				}
				if diff := cmp.Diff(before, b, boardOpts...); diff != "" {
					t.Fatalf("undo of %s did not restore the board (-before +after):\n%s", m, diff)
				}
			}
		})
	}
}

func TestTrialMovesLeaveBoardIntact(t *testing.T) {
	b := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before := b.Clone()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			b.LegalDestinations(at(row, col))
		}
	}
	b.IsGameOver()
	if diff := cmp.Diff(before, b, boardOpts...); diff != "" {
		t.Errorf("legality queries changed the board (-before +after):\n%s", diff)
	}
}

func TestCommitMatchesMakeMove(t *testing.T) {
	for _, fen := range []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"r3k2r/1P6/8/8/8/8/6p1/R3K2R b KQkq - 0 40",
	} {
		t.Run(fen, func(t *testing.T) {
			b := mustFEN(t, fen)
			for _, m := range b.GenerateLegalMoves(b.Turn()).Slice() {
				want := b.Clone()
				if ok, err := want.MakeMove(m); !ok || err != nil {
					t.Fatalf("MakeMove(%s) = %v, %v", m, ok, err)
				}
				got := b.Clone()
				if err := got.Commit(m); err != nil {
					t.Fatalf("Commit(%s): %v", m, err)
				}
				if diff := cmp.Diff(want, got, boardOpts...); diff != "" {
					t.Fatalf("Commit(%s) differs from MakeMove (-want +got):\n%s", m, diff)
				}
				checkLinkage(t, got)
			}
		})
	}
}

func TestCommitRejects(t *testing.T) {
	b := NewBoard()
	m, _ := ParseMove("e7->e5")
	if err := b.Commit(m); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Commit of a Black move on White's turn: %v, want ErrCorrupt", err)
	}
	m, _ = ParseMove("e4->e5")
	if err := b.Commit(m); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Commit from an empty square: %v, want ErrCorrupt", err)
	}
	if err := b.Commit(NoMove); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Commit(NoMove): %v, want ErrCorrupt", err)
	}

	b = mustFEN(t, "7k/P7/8/8/8/8/8/K7 w - - 0 1")
	play(t, b, "a7->a8")
	m, _ = ParseMove("h8->g8")
	if err := b.Commit(m); !errors.Is(err, ErrPromotionPending) {
		t.Errorf("Commit with a promotion pending: %v, want ErrPromotionPending", err)
	}
}

func TestCastling(t *testing.T) {
	const fen = "r3k2r/p6p/8/8/8/8/P6P/R3K2R w KQkq - 0 1"

	t.Run("BothSides", func(t *testing.T) {
		b := mustFEN(t, fen)
		got := destinations(t, b, "e1")
		if !contains(got, "g1") || !contains(got, "c1") {
			t.Fatalf("e1 destinations %v should include g1 and c1", got)
		}
		play(t, b, "e1->g1")
		if p, _ := b.PieceAt(mustCoord(t, "f1")); p.Kind() != Rook {
			t.Errorf("rook should be on f1 after castling:\n%s", b)
		}
		if b.Turn() != Black {
			t.Error("castling is a single move")
		}
		if n := len(b.History()); n != 2 || !b.History()[1].Linked {
			t.Errorf("castling should write a king record and a linked rook record, got %d", n)
		}
		b.Undo()
		if p, _ := b.PieceAt(mustCoord(t, "h1")); p.Kind() != Rook || p.Moves() != 0 {
			t.Errorf("undo should return the unmoved rook to h1:\n%s", b)
		}
		if b.Turn() != White {
			t.Error("undo should give the move back to White")
		}
	})

	t.Run("RookMoved", func(t *testing.T) {
		b := mustFEN(t, fen)
		play(t, b, "h1->g1", "a8->b8", "g1->h1", "b8->a8")
		got := destinations(t, b, "e1")
		if contains(got, "g1") {
			t.Errorf("e1 destinations %v must not include g1 after the rook moved", got)
		}
		if !contains(got, "c1") {
			t.Errorf("e1 destinations %v should still include c1", got)
		}
	})

	t.Run("KingMoved", func(t *testing.T) {
		b := mustFEN(t, fen)
		play(t, b, "e1->f1", "e8->f8", "f1->e1", "f8->e8")
		got := destinations(t, b, "e1")
		if contains(got, "g1") || contains(got, "c1") {
			t.Errorf("e1 destinations %v must not castle after the king moved", got)
		}
	})

	t.Run("PathAttacked", func(t *testing.T) {
		b := mustFEN(t, "r3k2r/p6p/8/8/8/8/P4r1P/R3K2R w KQkq - 0 1")
		got := destinations(t, b, "e1")
		if contains(got, "g1") {
			t.Errorf("cannot castle through the attacked f1: %v", got)
		}
	})

	t.Run("PathBlocked", func(t *testing.T) {
		b := mustFEN(t, "r3k2r/p6p/8/8/8/8/P6P/RN2K2R w KQkq - 0 1")
		if contains(destinations(t, b, "e1"), "c1") {
			t.Error("cannot castle with b1 occupied")
		}
	})

	t.Run("InCheck", func(t *testing.T) {
		b := mustFEN(t, "r3k2r/p6p/8/8/8/8/P3r2P/R3K2R w KQkq - 0 1")
		got := destinations(t, b, "e1")
		if contains(got, "g1") || contains(got, "c1") {
			t.Errorf("cannot castle out of check: %v", got)
		}
	})
}

func TestEnPassant(t *testing.T) {
	b := NewBoard()
	play(t, b, "e2->e4", "a7->a6", "e4->e5", "d7->d5")

	if got := destinations(t, b, "e5"); !contains(got, "d6") {
		t.Fatalf("e5 destinations %v should include d6", got)
	}

	play(t, b, "e5->d6")
	if _, ok := b.PieceAt(mustCoord(t, "d5")); ok {
		t.Error("en passant should remove the pawn on d5")
	}
	last := b.History()[len(b.History())-1]
	if !last.EnPassant || last.CapturedAt.String() != "d5" {
		t.Errorf("unexpected record %+v", last)
	}

	b.Undo()
	if p, ok := b.PieceAt(mustCoord(t, "d5")); !ok || p.Kind() != Pawn || p.Color() != Black {
		t.Error("undo should restore the captured pawn on d5")
	}

	t.Run("OnlyImmediately", func(t *testing.T) {
		play(t, b, "h2->h3", "h7->h6")
		if got := destinations(t, b, "e5"); contains(got, "d6") {
			t.Errorf("en passant must be taken at once, got %v", got)
		}
	})
}

func TestEnPassantFromFEN(t *testing.T) {
	b := mustFEN(t, "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")
	got := destinations(t, b, "e5")
	if !contains(got, "f6") || contains(got, "d6") {
		t.Errorf("e5 destinations = %v, want f6 but not d6", got)
	}
	if b.Undo() {
		t.Error("the FEN en passant seed must not be undoable")
	}
}

func TestSelfCheckRejected(t *testing.T) {
	b := mustFEN(t, "4k3/4r3/8/8/8/8/4N3/4K3 w - - 0 1")

	var buf [32]Coord
	if len(b.pseudoLegal(mustCoord(t, "e2"), buf[:0])) == 0 {
		t.Fatal("pinned knight should have pseudo-legal moves")
	}
	if got := destinations(t, b, "e2"); len(got) != 0 {
		t.Errorf("pinned knight destinations = %v, want none", got)
	}
	if b.IsValidMove(mustCoord(t, "e2"), mustCoord(t, "c3")) {
		t.Error("IsValidMove should reject exposing the king")
	}
	for _, sq := range destinations(t, b, "e1") {
		if sq == "e2" {
			t.Error("king cannot capture its own knight")
		}
	}
}

func TestKingCannotCaptureDefended(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/8/8/8/3rn3/4K3 w - - 0 1")
	got := destinations(t, b, "e1")
	if contains(got, "e2") {
		t.Errorf("the knight on e2 is defended by d2, got %v", got)
	}
	if !contains(got, "d2") {
		t.Errorf("d2 is undefended and should be capturable, got %v", got)
	}
}

func TestPromotion(t *testing.T) {
	b := mustFEN(t, "7k/P7/8/8/8/8/8/K7 w - - 0 1")
	play(t, b, "a7->a8")

	sq, pending := b.PendingPromotion()
	if !pending || sq.String() != "a8" {
		t.Fatalf("pending promotion = %v, %v; want a8", sq, pending)
	}

	m, _ := ParseMove("h8->g8")
	if _, err := b.MakeMove(m); !errors.Is(err, ErrPromotionPending) {
		t.Errorf("move during pending promotion error = %v, want ErrPromotionPending", err)
	}
	if err := b.ResolvePromotion(King); !errors.Is(err, ErrMalformed) {
		t.Errorf("promote to king error = %v, want ErrMalformed", err)
	}
	if err := b.ResolvePromotion(Queen); err != nil {
		t.Fatal(err)
	}
	if err := b.ResolvePromotion(Queen); !errors.Is(err, ErrNoPromotion) {
		t.Errorf("second resolution error = %v, want ErrNoPromotion", err)
	}

	p, _ := b.PieceAt(mustCoord(t, "a8"))
	if p.Kind() != Queen {
		t.Fatalf("a8 holds %s, want Queen", p.Kind())
	}
	if !b.InCheck(Black) {
		t.Error("the new queen should give check along the 8th rank")
	}
	checkLinkage(t, b)

	b.Undo()
	p, _ = b.PieceAt(mustCoord(t, "a7"))
	if p.Kind() != Pawn || b.Turn() != White {
		t.Errorf("undo should restore the pawn on a7 with White to move:\n%s", b)
	}
	checkLinkage(t, b)
}

func TestDirectPromotion(t *testing.T) {
	b := mustFEN(t, "7k/P7/8/8/8/8/8/K7 w - - 0 1")
	ok, err := b.MakeMove(NewPromotion(mustCoord(t, "a7"), mustCoord(t, "a8"), Knight))
	if err != nil || !ok {
		t.Fatalf("MakeMove = %v, %v", ok, err)
	}
	if _, pending := b.PendingPromotion(); pending {
		t.Error("a move carrying its promotion should not leave it pending")
	}
	if p, _ := b.PieceAt(mustCoord(t, "a8")); p.Kind() != Knight {
		t.Errorf("a8 holds %s, want Knight", p.Kind())
	}

	b2 := mustFEN(t, "7k/P7/8/8/8/8/8/K7 w - - 0 1")
	if ok, _ := b2.MakeMove(NewPromotion(mustCoord(t, "a1"), mustCoord(t, "a2"), Queen)); ok {
		t.Error("a king move cannot carry a promotion")
	}
}

func TestPliesAndDraw(t *testing.T) {
	b := NewBoard()
	play(t, b, "g1->f3")
	if b.Plies() != 0 {
		t.Errorf("plies after White's move = %d, want 0", b.Plies())
	}
	play(t, b, "g8->f6")
	if b.Plies() != 1 {
		t.Errorf("plies after Black's move = %d, want 1", b.Plies())
	}

	d := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 b - - 0 100")
	if d.IsGameOver() {
		t.Fatal("game should not be over yet")
	}
	play(t, d, "e8->d7")
	if !d.IsDraw() || !d.IsGameOver() {
		t.Errorf("plies = %d, want draw at %d", d.Plies(), DrawPlyCap)
	}
}
