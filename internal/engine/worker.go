package engine

import "github.com/hailam/chessroom/internal/board"

// Worker searches one board by committing and undoing moves in place.
type Worker struct {
	b     *board.Board
	cache *EvalCache
	nodes uint64
}

func newWorker(b *board.Board, cache *EvalCache) *Worker {
	return &Worker{b: b, cache: cache}
}

// searchRoot runs alpha-beta over the ordered root moves and returns the
// first move reaching the best value.
func (w *Worker) searchRoot(roots *board.MoveList, depth int) (Result, error) {
	res := Result{Move: board.NoMove, Score: -Infinity}
	alpha := -Infinity
	for i := 0; i < roots.Len(); i++ {
		m := withPromotion(w.b, roots.Get(i))
		score, err := w.searchChild(m, depth, alpha, Infinity)
		if err != nil {
			return Result{}, err
		}
		if score > res.Score {
			res.Score = score
			res.Move = m
		}
		if score > alpha {
			alpha = score
		}
	}
	res.Nodes = w.nodes
	return res, nil
}

// searchChild plays m from the root and returns its value for the mover.
func (w *Worker) searchChild(m board.Move, depth, alpha, beta int) (int, error) {
	m = withPromotion(w.b, m)
	if err := w.play(m); err != nil {
		return 0, err
	}
	score, err := w.negamax(depth-1, 1, -beta, -alpha)
	w.b.Undo()
	return -score, err
}

// negamax implements minimax with alpha-beta pruning. Scores are from the
// point of view of the side to move and the bounds are fail-hard.
func (w *Worker) negamax(depth, ply, alpha, beta int) (int, error) {
	w.nodes++

	if w.b.IsDraw() {
		return 0, nil
	}
	if depth <= 0 || ply >= MaxPly {
		return w.evaluate(), nil
	}

	us := w.b.Turn()
	moves := w.b.GenerateLegalMoves(us)
	if moves.Len() == 0 {
		if w.b.InCheck(us) {
			return -(MateScore - ply), nil
		}
		return 0, nil
	}
	orderMoves(w.b, moves)

	for i := 0; i < moves.Len(); i++ {
		m := withPromotion(w.b, moves.Get(i))
		if err := w.play(m); err != nil {
			return 0, err
		}
		score, err := w.negamax(depth-1, ply+1, -beta, -alpha)
		w.b.Undo()
		if err != nil {
			return 0, err
		}
		score = -score

		if score >= beta {
			return beta, nil
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha, nil
}

// play commits a generated move without validating it a second time.
func (w *Worker) play(m board.Move) error {
	return w.b.Commit(m)
}

// withPromotion makes a pawn move onto the last rank promote to a queen.
func withPromotion(b *board.Board, m board.Move) board.Move {
	p, ok := b.PieceAt(m.From)
	if !ok || p.Kind() != board.Pawn {
		return m
	}
	if m.To.Row() == 0 || m.To.Row() == 7 {
		return board.NewPromotion(m.From, m.To, board.Queen)
	}
	return m
}

// evaluate returns the static evaluation, using the cache when possible.
func (w *Worker) evaluate() int {
	key := w.b.Hash()
	if score, ok := w.cache.Probe(key); ok {
		return score
	}
	score := Evaluate(w.b)
	w.cache.Store(key, score)
	return score
}
