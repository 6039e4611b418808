package field

import (
	"iter"
	"slices"
)

// ChangeSet holds the cells whose observable state changed during a single
// [Field] operation. A cell is present at most once.
type ChangeSet struct {
	cells    map[Point]*Cell
	exploded bool
}

func newChangeSet(exploded bool, init ...*Cell) *ChangeSet {
	cs := &ChangeSet{
		cells:    make(map[Point]*Cell, len(init)),
		exploded: exploded,
	}
	for _, c := range init {
		cs.add(c)
	}
	return cs
}

func (cs *ChangeSet) add(c *Cell) {
	cs.cells[c.Point()] = c
}

// Exploded reports whether the operation hit a mine, or was attempted on an
// already lost field.
func (cs *ChangeSet) Exploded() bool {
	return cs.exploded
}

func (cs *ChangeSet) Len() int {
	return len(cs.cells)
}

func (cs *ChangeSet) Empty() bool {
	return len(cs.cells) == 0
}

func (cs *ChangeSet) Contains(x, y int) bool {
	_, ok := cs.cells[Point{x, y}]
	return ok
}

// Cells returns the changed cells in row-major order.
func (cs *ChangeSet) Cells() []*Cell {
	cells := make([]*Cell, 0, len(cs.cells))
	for _, c := range cs.cells {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, func(a, b *Cell) int {
		if a.y != b.y {
			return a.y - b.y
		}
		return a.x - b.x
	})
	return cells
}

func (cs *ChangeSet) All() iter.Seq[*Cell] {
	return slices.Values(cs.Cells())
}
