package scores

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minefield/internal/field"
)

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "scores.json"))
	require.NoError(t, err)

	res, err := s.Scores(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestFileStoreRecordAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scores.json")

	s, err := OpenFile(path)
	require.NoError(t, err)

	p := field.Params{Width: 9, Height: 9, MineCount: 10}
	require.NoError(t, s.RecordScore(ctx, New("noname", p, 64)))
	require.NoError(t, s.RecordScore(ctx, New("ann", p, 15)))

	reloaded, err := OpenFile(path)
	require.NoError(t, err)
	res, err := reloaded.Scores(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "ann", res[0].Nick)
	assert.Equal(t, 81, res[0].Square)
	assert.False(t, res[0].RecordedAt.IsZero())
	assert.Equal(t, "noname", res[1].Nick)
}

func TestFileStoreReadsLegacyFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	legacy := `[
  {"nick": "noname", "square": 81, "time": 97},
  {"nick": "max", "square": 100, "time": 41}
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s, err := OpenFile(path)
	require.NoError(t, err)
	res, err := s.Scores(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, Score{Nick: "max", Square: 100, Time: 41}, res[0])
}

func TestFileStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	_, err := OpenFile(path)
	assert.Error(t, err)
}
