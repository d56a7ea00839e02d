package engine

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessroom/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 64
)

// rootResult is the value of one root move.
type rootResult struct {
	score int
	nodes uint64
}

// searchParallel splits the root moves between workers. Each worker owns a
// clone of the root and its own evaluation cache and pulls moves by index.
// Every root move is searched with the full window so its value is exact,
// which makes the choice identical to the sequential search.
func (e *Engine) searchParallel(root *board.Board, roots *board.MoveList, depth int) (Result, error) {
	results := make([]rootResult, roots.Len())
	var next atomic.Int64

	var g errgroup.Group
	threads := min(e.threads, roots.Len())
	for t := 0; t < threads; t++ {
		w := newWorker(root.Clone(), NewEvalCache(e.cacheMB))
		g.Go(func() error {
			for {
				i := int(next.Add(1) - 1)
				if i >= roots.Len() {
					return nil
				}
				start := w.nodes
				score, err := w.searchChild(roots.Get(i), depth, -Infinity, Infinity)
				if err != nil {
					return err
				}
				results[i] = rootResult{score: score, nodes: w.nodes - start}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Move: board.NoMove, Score: -Infinity}
	for i, r := range results {
		res.Nodes += r.nodes
		if r.score > res.Score {
			res.Score = r.score
			res.Move = withPromotion(root, roots.Get(i))
		}
	}
	return res, nil
}

// IsMateScore returns true if score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}
