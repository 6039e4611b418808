package field

import (
	"hash/maphash"
	"math/rand/v2"
)

// PlacementStrategy decides which cells hold mines once the first cell to be
// opened is known. The returned slice is indexed row-major and must contain
// exactly the requested number of mines, none of them at exclude.
type PlacementStrategy interface {
	PlaceMines(p Params, exclude Point) []bool
}

// RandomPlacement scatters mines uniformly over the board.
type RandomPlacement struct {
	rnd *rand.Rand
}

func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// NewRandomPlacement validates p and returns a strategy drawing from rnd. A
// nil rnd is replaced with an entropy-seeded generator.
func NewRandomPlacement(p Params, rnd *rand.Rand) (*RandomPlacement, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = NewRand()
	}
	return &RandomPlacement{rnd: rnd}, nil
}

// PlaceMines picks a random cell for every mine. When the cell is taken or
// excluded it scans forward row by row, wrapping around the board, until a
// free one turns up. Termination relies on MineCount < Area.
func (r *RandomPlacement) PlaceMines(p Params, exclude Point) []bool {
	area := p.Area()
	grid := make([]bool, area)
	excluded := p.index(exclude.X, exclude.Y)

	for range p.MineCount {
		i := r.rnd.IntN(area)
		for grid[i] || i == excluded {
			i++
			if i == area {
				i = 0
			}
		}
		grid[i] = true
	}

	return grid
}
