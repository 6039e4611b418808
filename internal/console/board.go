package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/vancomm/minefield/internal/field"
	"github.com/vancomm/minefield/internal/game"
)

const (
	hiddenCell = '.'
	mineCell   = '*'
	flagCell   = '#'
)

func cellRune(c *field.Cell) rune {
	switch {
	case c.IsMine():
		return mineCell
	case c.IsOpened():
		return rune('0' + c.AdjacentMines())
	case c.IsFlagged():
		return flagCell
	}
	return hiddenCell
}

// Render draws the board one row per line followed by the flag counter and
// the timer. A finished game ends with the verdict.
func Render(w io.Writer, s game.State) error {
	width, height, mines := s.Params.Unpack()

	rows := make([][]rune, height)
	for y := range rows {
		rows[y] = []rune(strings.Repeat(string(hiddenCell), width))
	}
	for i := range s.Cells {
		c := &s.Cells[i]
		rows[c.Y()][c.X()] = cellRune(c)
	}

	var b strings.Builder
	for _, row := range rows {
		for i, r := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d/%d, %d sec.\n", s.Flags, mines, s.Elapsed)
	switch {
	case s.Won:
		b.WriteString("YOU WIN!\n")
	case s.Lost:
		b.WriteString("YOU LOSE!\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
