package game

import "github.com/vancomm/minefield/internal/field"

// Diff is a copy of a [field.ChangeSet] together with the aggregate state
// after the move. It does not share memory with the session, so it can be
// rendered after the session lock is released.
type Diff struct {
	Cells    []field.Cell
	Exploded bool
	Won      bool
	Lost     bool
	Flags    int
	Elapsed  int
}

// State is a full copy of a session.
type State struct {
	ID        string
	Nick      string
	Params    field.Params
	Generated bool
	Flags     int
	Won       bool
	Lost      bool
	Elapsed   int
	Cells     []field.Cell
}

func copyCells(cells []*field.Cell) []field.Cell {
	res := make([]field.Cell, len(cells))
	for i, c := range cells {
		res[i] = *c
	}
	return res
}
