package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][7][64]uint64 // [Color][Kind][Square] - 7 to handle NoKind safely
	zobristSideToMove uint64           // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for k := Pawn; k <= King; k++ {
			for sq := 0; sq < 64; sq++ {
				zobristPiece[c][k][sq] = rng.next()
			}
		}
	}

	zobristSideToMove = rng.next()
}

// ComputeHash recomputes the hash from scratch. It always equals Hash() on a
// consistent board.
func (b *Board) ComputeHash() uint64 {
	var h uint64
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			r := b.grid[row][col]
			if r.empty() {
				continue
			}
			p := b.pieces[r.color()][r.slot()]
			h ^= zobristPiece[p.color][p.kind][at(row, col).index()]
		}
	}
	if b.turn == Black {
		h ^= zobristSideToMove
	}
	return h
}
