package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeSetIsASet(t *testing.T) {
	a := &Cell{x: 1, y: 0}
	b := &Cell{x: 0, y: 1}
	cs := newChangeSet(false, a, b, a)
	cs.add(b)

	assert.Equal(t, 2, cs.Len())
	assert.False(t, cs.Exploded())
	assert.True(t, cs.Contains(1, 0))
	assert.False(t, cs.Contains(1, 1))
}

func TestChangeSetCellsAreRowMajor(t *testing.T) {
	cs := newChangeSet(true,
		&Cell{x: 2, y: 1}, &Cell{x: 0, y: 1}, &Cell{x: 1, y: 0}, &Cell{x: 0, y: 0},
	)

	var got []Point
	for c := range cs.All() {
		got = append(got, c.Point())
	}
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {0, 1}, {2, 1}}, got)
	assert.True(t, cs.Exploded())
}

func TestEmptyChangeSet(t *testing.T) {
	cs := newChangeSet(false)
	assert.True(t, cs.Empty())
	assert.Empty(t, cs.Cells())
}
