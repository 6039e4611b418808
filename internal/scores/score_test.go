package scores

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vancomm/minefield/internal/field"
)

func TestNewScore(t *testing.T) {
	s := New("bob", field.Params{Width: 9, Height: 8, MineCount: 10}, 42)
	assert.Equal(t, 72, s.Square)
	assert.Equal(t, 42, s.Time)
	assert.Equal(t, "bob -- Square: 72, Time: 42sec", s.String())
}

func TestFilterApply(t *testing.T) {
	beginner := field.Params{Width: 9, Height: 9, MineCount: 10}
	expert := field.Params{Width: 30, Height: 16, MineCount: 99}
	all := []Score{
		New("alice", beginner, 30),
		New("bob", expert, 300),
		New("bob", beginner, 12),
		New("alice", beginner, 20),
	}

	res := Filter{}.Apply(all)
	assert.Equal(t, []int{12, 20, 30, 300}, times(res))

	alice := "alice"
	res = Filter{Nick: &alice}.Apply(all)
	assert.Equal(t, []int{20, 30}, times(res))

	res = Filter{Params: &beginner, Limit: 2}.Apply(all)
	assert.Equal(t, []int{12, 20}, times(res))

	res = Filter{Params: &expert, Nick: &alice}.Apply(all)
	assert.Empty(t, res)
}

func times(scores []Score) []int {
	res := make([]int, len(scores))
	for i, s := range scores {
		res[i] = s.Time
	}
	return res
}
