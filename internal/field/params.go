package field

import (
	"fmt"
	"strings"
)

type Point struct {
	X, Y int
}

type Params struct {
	Width, Height, MineCount int
}

func (p Params) Unpack() (w int, h int, mc int) {
	return p.Width, p.Height, p.MineCount
}

func (p Params) Area() int {
	return p.Width * p.Height
}

// Validate reports whether a field with these parameters can be built: both
// sides must be positive and at least one cell must stay free of mines.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf(
			"%w: width and height must be positive, got %dx%d",
			ErrInvalidParams, p.Width, p.Height,
		)
	}
	if p.MineCount <= 0 {
		return fmt.Errorf(
			"%w: mine count must be positive, got %d",
			ErrInvalidParams, p.MineCount,
		)
	}
	if p.MineCount >= p.Area() {
		return fmt.Errorf(
			"%w: cannot place %d mines on a %dx%d field",
			ErrInvalidParams, p.MineCount, p.Width, p.Height,
		)
	}
	return nil
}

func (p Params) PointInBounds(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}

func (p Params) index(x, y int) int {
	return y*p.Width + x
}

func (p Params) point(i int) Point {
	return Point{i % p.Width, i / p.Width}
}

// Seed encodes the parameters as "width:height:mines".
func (p Params) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.MineCount)
}

func ParseSeed(seed string) (*Params, error) {
	p := &Params{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Width, &p.Height, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid field params seed (seed = "%s", n = %d, err = %w)`,
			seed, n, err,
		)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
