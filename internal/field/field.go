package field

import (
	"fmt"
	"iter"
	"math/rand/v2"
)

// Field is the authoritative model of one minesweeper board. The grid is
// generated lazily on first access so that the first cell touched is never a
// mine.
//
// A Field is not safe for concurrent use.
type Field struct {
	params   Params
	strategy PlacementStrategy

	grid      []Cell
	generated bool

	flags    int
	covered  int /* cells neither opened nor flagged */
	exploded bool
	won      bool
}

type options struct {
	rnd      *rand.Rand
	strategy PlacementStrategy
}

type Option func(*options)

// WithSeed makes mine placement repeatable.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rnd = NewSeededRand(seed)
	}
}

func WithRand(rnd *rand.Rand) Option {
	return func(o *options) {
		o.rnd = rnd
	}
}

// WithStrategy replaces the default [RandomPlacement].
func WithStrategy(s PlacementStrategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

func New(p Params, opts ...Option) (*Field, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.strategy == nil {
		rp, err := NewRandomPlacement(p, o.rnd)
		if err != nil {
			return nil, err
		}
		o.strategy = rp
	} else if err := p.Validate(); err != nil {
		return nil, err
	}

	f := &Field{
		params:   p,
		strategy: o.strategy,
	}
	return f, nil
}

func (f *Field) Params() Params { return f.params }

func (f *Field) Width() int { return f.params.Width }

func (f *Field) Height() int { return f.params.Height }

func (f *Field) MineCount() int { return f.params.MineCount }

func (f *Field) FlagCount() int { return f.flags }

// Generated reports whether mines have been placed yet.
func (f *Field) Generated() bool { return f.generated }

// Lost is true once a mine has been opened.
func (f *Field) Lost() bool { return f.exploded }

// Won is true once every cell is either opened or flagged. Flags are not
// checked against mines. The result latches: once true it never changes.
func (f *Field) Won() bool {
	if f.won {
		return true
	}
	if !f.generated || f.exploded {
		return false
	}
	f.won = f.covered == 0
	return f.won
}

// Finished is true for a lost or won field.
func (f *Field) Finished() bool {
	return f.Lost() || f.Won()
}

// Cell returns the cell at (x, y). The first call to any of Cell, Open or
// ToggleFlag generates the board with (x, y) kept free of mines.
func (f *Field) Cell(x, y int) (*Cell, error) {
	if !f.params.PointInBounds(x, y) {
		return nil, fmt.Errorf(
			"%w: (%d, %d) on a %dx%d field",
			ErrOutOfBounds, x, y, f.params.Width, f.params.Height,
		)
	}
	if err := f.generate(x, y); err != nil {
		return nil, err
	}
	return f.at(x, y), nil
}

// All yields every cell in row-major order. Nothing is yielded before the
// board is generated.
func (f *Field) All() iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		for i := range f.grid {
			if !yield(&f.grid[i]) {
				return
			}
		}
	}
}

// Open reveals the cell at (x, y). Opening a mine loses the game and reveals
// the whole board. Opening a safe cell also opens every safe cell reachable
// from it through up/down/left/right steps.
func (f *Field) Open(x, y int) (*ChangeSet, error) {
	c, err := f.Cell(x, y)
	if err != nil {
		return nil, err
	}

	if f.exploded {
		return newChangeSet(true), nil
	}
	if c.opened || f.Won() {
		return newChangeSet(false), nil
	}
	if c.mine {
		return f.explode(), nil
	}

	cs := newChangeSet(false)
	f.reveal(c, cs)
	f.cascade(c, cs)
	return cs, nil
}

// ToggleFlag sets or clears the flag on a hidden cell. The returned set holds
// the cell and every neighbour whose flag counter changed.
func (f *Field) ToggleFlag(x, y int) (*ChangeSet, error) {
	c, err := f.Cell(x, y)
	if err != nil {
		return nil, err
	}

	if f.exploded {
		return newChangeSet(true), nil
	}
	if c.opened || f.Won() {
		return newChangeSet(false), nil
	}

	c.flagged = !c.flagged
	if c.flagged {
		f.covered--
	} else {
		f.covered++
	}

	cs := newChangeSet(false, c)
	f.updateNearestFlags(c, cs)
	return cs, nil
}

func (f *Field) at(x, y int) *Cell {
	return &f.grid[f.params.index(x, y)]
}

func (f *Field) generate(sx, sy int) error {
	if f.generated {
		return nil
	}

	width, height, mineCount := f.params.Unpack()
	area := f.params.Area()

	mines := f.strategy.PlaceMines(f.params, Point{sx, sy})
	if len(mines) != area {
		return PlacementError{fmt.Sprintf(
			"expected %d cells, got %d", area, len(mines),
		)}
	}
	if mines[f.params.index(sx, sy)] {
		return PlacementError{fmt.Sprintf("mine in starting cell (%d, %d)", sx, sy)}
	}

	grid := make([]Cell, area)
	placed := 0
	for i := range grid {
		p := f.params.point(i)
		grid[i] = Cell{x: p.X, y: p.Y, mine: mines[i]}
		if mines[i] {
			placed++
		}
	}
	if placed != mineCount {
		return PlacementError{fmt.Sprintf(
			"expected %d mines, got %d", mineCount, placed,
		)}
	}

	f.grid = grid
	for y := range height {
		for x := range width {
			c := f.at(x, y)
			if c.mine {
				continue
			}
			for n := range f.around(x, y) {
				if n.mine {
					c.adjacentMines++
				}
			}
		}
	}

	f.covered = area
	f.generated = true
	return nil
}

// around yields the in-bounds cells of the 3x3 block centred on (x, y),
// excluding the centre itself.
func (f *Field) around(x, y int) iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if !f.params.PointInBounds(x+dx, y+dy) {
					continue
				}
				if !yield(f.at(x+dx, y+dy)) {
					return
				}
			}
		}
	}
}

var orthogonal = [4]Point{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

func (f *Field) orthogonal(x, y int) iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		for _, d := range orthogonal {
			if !f.params.PointInBounds(x+d.X, y+d.Y) {
				continue
			}
			if !yield(f.at(x+d.X, y+d.Y)) {
				return
			}
		}
	}
}

// reveal opens a single safe cell. A flag on it is removed first so that the
// flag total keeps matching the flagged cells.
func (f *Field) reveal(c *Cell, cs *ChangeSet) {
	if c.flagged {
		c.flagged = false
		f.covered++
		f.updateNearestFlags(c, cs)
	}
	c.opened = true
	f.covered--
	cs.add(c)
}

// cascade floods open every safe cell orthogonally connected to start. It
// does not stop at numbered cells. A cell's own opened flag marks it visited.
func (f *Field) cascade(start *Cell, cs *ChangeSet) {
	stack := []*Cell{start}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for n := range f.orthogonal(c.x, c.y) {
			if n.mine || n.opened {
				continue
			}
			f.reveal(n, cs)
			stack = append(stack, n)
		}
	}
}

func (f *Field) updateNearestFlags(c *Cell, cs *ChangeSet) {
	if c.flagged {
		f.flags++
	} else {
		f.flags--
	}

	cs.add(c)
	for n := range f.around(c.x, c.y) {
		if c.flagged {
			n.addNearFlag()
		} else {
			n.removeNearFlag()
		}
		cs.add(n)
	}
}

// explode loses the game and opens every cell on the board.
func (f *Field) explode() *ChangeSet {
	f.exploded = true
	cs := newChangeSet(true)
	for i := range f.grid {
		c := &f.grid[i]
		c.opened = true
		cs.add(c)
	}
	f.covered = 0
	return cs
}
