package field

// Cell is a single grid position. Cells are owned by their [Field]; every
// state transition goes through the field so that neighbour counters and the
// flag total stay consistent.
type Cell struct {
	x, y int

	mine    bool
	opened  bool
	flagged bool

	adjacentMines int
	nearFlags     int
}

func (c *Cell) X() int { return c.x }

func (c *Cell) Y() int { return c.y }

func (c *Cell) Point() Point { return Point{c.x, c.y} }

// IsMine is true only for an opened mine; a hidden mine reports false.
func (c *Cell) IsMine() bool {
	return c.opened && c.mine
}

func (c *Cell) IsOpened() bool { return c.opened }

func (c *Cell) IsFlagged() bool { return c.flagged }

// AdjacentMines is the number of mines among the up to 8 surrounding cells.
// Always 0 for a mine.
func (c *Cell) AdjacentMines() int { return c.adjacentMines }

// NearFlags is the number of flagged cells among the up to 8 surrounding cells.
func (c *Cell) NearFlags() int { return c.nearFlags }

// FlagsOverflow marks an opened cell that has more flagged neighbours than
// mines around it.
func (c *Cell) FlagsOverflow() bool {
	return c.opened && !c.mine && c.nearFlags > c.adjacentMines
}

func (c *Cell) addNearFlag() {
	c.nearFlags++
}

func (c *Cell) removeNearFlag() {
	if c.nearFlags != 0 {
		c.nearFlags--
	}
}
