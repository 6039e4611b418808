package scores

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/vancomm/minefield/internal/field"
)

// Score is recorded once for every won game.
type Score struct {
	Nick       string    `json:"nick"`
	Square     int       `json:"square"`
	Time       int       `json:"time"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
	MineCount  int       `json:"mine_count,omitempty"`
	PlayerID   *int64    `json:"player_id,omitempty"`
	RecordedAt time.Time `json:"recorded_at,omitzero"`
}

func New(nick string, p field.Params, seconds int) Score {
	return Score{
		Nick:      nick,
		Square:    p.Area(),
		Time:      seconds,
		Width:     p.Width,
		Height:    p.Height,
		MineCount: p.MineCount,
	}
}

func (s Score) String() string {
	return fmt.Sprintf("%s -- Square: %d, Time: %dsec", s.Nick, s.Square, s.Time)
}

type Filter struct {
	Nick   *string
	Params *field.Params
	Limit  int
}

func (f Filter) Match(s Score) bool {
	if f.Nick != nil && s.Nick != *f.Nick {
		return false
	}
	if f.Params != nil &&
		(s.Width != f.Params.Width ||
			s.Height != f.Params.Height ||
			s.MineCount != f.Params.MineCount) {
		return false
	}
	return true
}

// Apply filters scores and sorts them by play time, fastest first.
func (f Filter) Apply(all []Score) []Score {
	res := make([]Score, 0, len(all))
	for _, s := range all {
		if f.Match(s) {
			res = append(res, s)
		}
	}
	slices.SortStableFunc(res, func(a, b Score) int {
		return a.Time - b.Time
	})
	if f.Limit > 0 && len(res) > f.Limit {
		res = res[:f.Limit]
	}
	return res
}

type Store interface {
	RecordScore(ctx context.Context, s Score) error
	Scores(ctx context.Context, f Filter) ([]Score, error)
}
