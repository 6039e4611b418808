package handlers

import (
	"fmt"

	"github.com/gorilla/schema"

	"github.com/vancomm/minefield/internal/field"
	"github.com/vancomm/minefield/internal/game"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func decode[T any](src map[string][]string) (T, error) {
	var dto T
	err := decoder.Decode(&dto, src)
	return dto, err
}

// ParamsDTO describes a board either field by field or with a w:h:m seed.
// Omitted values fall back to the defaults.
type ParamsDTO struct {
	Width     int    `schema:"width"`
	Height    int    `schema:"height"`
	MineCount int    `schema:"mine_count"`
	Seed      string `schema:"seed"`
}

func (dto ParamsDTO) Params(defaults field.Params) (field.Params, error) {
	if dto.Seed != "" {
		p, err := field.ParseSeed(dto.Seed)
		if err != nil {
			return field.Params{}, err
		}
		return *p, nil
	}
	p := defaults
	if dto.Width != 0 {
		p.Width = dto.Width
	}
	if dto.Height != 0 {
		p.Height = dto.Height
	}
	if dto.MineCount != 0 {
		p.MineCount = dto.MineCount
	}
	return p, p.Validate()
}

type NewGameDTO struct {
	ParamsDTO
	Nick string `schema:"nick"`
	X    *int   `schema:"x"`
	Y    *int   `schema:"y"`
}

type Move string

const (
	MoveOpen Move = "open"
	MoveFlag Move = "flag"
)

type MoveDTO struct {
	Move Move `schema:"move,required"`
	X    int  `schema:"x,required"`
	Y    int  `schema:"y,required"`
}

func (dto MoveDTO) Validate() error {
	switch dto.Move {
	case MoveOpen, MoveFlag:
		return nil
	}
	return fmt.Errorf("unknown move %q", dto.Move)
}

type HighscoresDTO struct {
	Nick  *string `schema:"nick"`
	Seed  string  `schema:"seed"`
	Limit int     `schema:"limit"`
}

type CellState string

const (
	CellHidden CellState = "hidden"
	CellFlag   CellState = "flag"
	CellOpen   CellState = "open"
	CellMine   CellState = "mine"
)

// CellDTO is what a player may see of a cell. Hidden cells carry no
// adjacency information.
type CellDTO struct {
	X             int       `json:"x"`
	Y             int       `json:"y"`
	State         CellState `json:"state"`
	AdjacentMines int       `json:"adjacent_mines,omitempty"`
	NearFlags     int       `json:"near_flags,omitempty"`
	FlagsOverflow bool      `json:"flags_overflow,omitempty"`
}

func NewCellDTO(c *field.Cell) CellDTO {
	dto := CellDTO{X: c.X(), Y: c.Y(), State: CellHidden}
	switch {
	case c.IsMine():
		dto.State = CellMine
	case c.IsOpened():
		dto.State = CellOpen
		dto.AdjacentMines = c.AdjacentMines()
		dto.NearFlags = c.NearFlags()
		dto.FlagsOverflow = c.FlagsOverflow()
	case c.IsFlagged():
		dto.State = CellFlag
	}
	return dto
}

func newCellDTOs(cells []field.Cell) []CellDTO {
	res := make([]CellDTO, len(cells))
	for i := range cells {
		res[i] = NewCellDTO(&cells[i])
	}
	return res
}

type DiffDTO struct {
	Cells    []CellDTO `json:"cells"`
	Exploded bool      `json:"exploded"`
	Won      bool      `json:"won"`
	Lost     bool      `json:"lost"`
	Flags    int       `json:"flags"`
	Elapsed  int       `json:"time"`
}

func NewDiffDTO(d *game.Diff) DiffDTO {
	return DiffDTO{
		Cells:    newCellDTOs(d.Cells),
		Exploded: d.Exploded,
		Won:      d.Won,
		Lost:     d.Lost,
		Flags:    d.Flags,
		Elapsed:  d.Elapsed,
	}
}

type GameDTO struct {
	ID        string    `json:"game_id"`
	Nick      string    `json:"nick"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	MineCount int       `json:"mine_count"`
	Seed      string    `json:"seed"`
	Generated bool      `json:"generated"`
	Flags     int       `json:"flags"`
	Won       bool      `json:"won"`
	Lost      bool      `json:"lost"`
	Elapsed   int       `json:"time"`
	Cells     []CellDTO `json:"cells"`
}

func NewGameDTO(s game.State) GameDTO {
	return GameDTO{
		ID:        s.ID,
		Nick:      s.Nick,
		Width:     s.Params.Width,
		Height:    s.Params.Height,
		MineCount: s.Params.MineCount,
		Seed:      s.Params.Seed(),
		Generated: s.Generated,
		Flags:     s.Flags,
		Won:       s.Won,
		Lost:      s.Lost,
		Elapsed:   s.Elapsed,
		Cells:     newCellDTOs(s.Cells),
	}
}

type TimeDTO struct {
	Elapsed int `json:"time"`
}
