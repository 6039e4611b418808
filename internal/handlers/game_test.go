package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minefield/internal/scores"
)

func TestNewGameDefaults(t *testing.T) {
	s := newTestServer(t)

	g := s.newGame(t, "")
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "noname", g.Nick)
	assert.Equal(t, "2:2:1", g.Seed)
	assert.False(t, g.Generated)
	assert.Empty(t, g.Cells)
}

func TestNewGameRejectsBadParams(t *testing.T) {
	s := newTestServer(t)

	for _, query := range []string{
		"?width=3&height=3&mine_count=9",
		"?seed=3:3:0",
		"?seed=abc",
		"?x=0",
		"?width=two",
	} {
		rec := s.do(t, http.MethodPost, "/game"+query, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
	assert.Equal(t, 0, s.sessions.Len())
}

func TestNewGameWithFirstMove(t *testing.T) {
	s := newTestServer(t)

	g := s.newGame(t, "?x=0&y=0&nick=alice")
	assert.Equal(t, "alice", g.Nick)
	assert.True(t, g.Generated)
	require.Len(t, g.Cells, 4)

	assert.Equal(t, CellDTO{X: 0, Y: 0, State: CellOpen, AdjacentMines: 1}, g.Cells[0])
	assert.Equal(t, CellOpen, g.Cells[1].State)
	assert.Equal(t, CellOpen, g.Cells[2].State)
	assert.Equal(t, CellDTO{X: 1, Y: 1, State: CellHidden}, g.Cells[3], "hidden cells leak nothing")
}

func TestMoveFlow(t *testing.T) {
	s := newTestServer(t)
	g := s.newGame(t, "?x=0&y=0&nick=alice")
	base := "/game/" + g.ID

	rec := s.do(t, http.MethodPost, base+"/move", url.Values{
		"move": {"flag"}, "x": {"1"}, "y": {"1"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	diff := decodeBody[DiffDTO](t, rec)
	assert.True(t, diff.Won)
	assert.Equal(t, 1, diff.Flags)
	assert.Len(t, diff.Cells, 4, "flag and its three neighbours")

	rec = s.do(t, http.MethodPost, base+"/move?move=open&x=1&y=1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	recorded, err := s.scores.Scores(context.Background(), scores.Filter{})
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, "alice", recorded[0].Nick)
	assert.Equal(t, 4, recorded[0].Square)

	rec = s.do(t, http.MethodGet, "/highscores?seed=2:2:1&nick=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]scores.Score](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/highscores?nick=bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestMoveExplosion(t *testing.T) {
	s := newTestServer(t)
	g := s.newGame(t, "?x=0&y=0")

	rec := s.do(t, http.MethodPost, "/game/"+g.ID+"/move?move=open&x=1&y=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	diff := decodeBody[DiffDTO](t, rec)
	assert.True(t, diff.Exploded)
	assert.True(t, diff.Lost)
	require.Len(t, diff.Cells, 4)
	assert.Equal(t, CellMine, diff.Cells[3].State)

	rec = s.do(t, http.MethodGet, "/game/"+g.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[GameDTO](t, rec).Lost)
}

func TestMoveBadRequests(t *testing.T) {
	s := newTestServer(t)
	g := s.newGame(t, "")

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown move", "/game/" + g.ID + "/move?move=chord&x=0&y=0", http.StatusBadRequest},
		{"missing y", "/game/" + g.ID + "/move?move=open&x=0", http.StatusBadRequest},
		{"out of bounds", "/game/" + g.ID + "/move?move=open&x=2&y=0", http.StatusBadRequest},
		{"negative", "/game/" + g.ID + "/move?move=flag&x=0&y=-1", http.StatusBadRequest},
		{"unknown game", "/game/nope/move?move=open&x=0&y=0", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.target, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRestart(t *testing.T) {
	s := newTestServer(t)
	g := s.newGame(t, "?x=0&y=0")
	base := "/game/" + g.ID

	rec := s.do(t, http.MethodPost, base+"/restart?seed=3:3:0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/restart", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	restarted := decodeBody[GameDTO](t, rec)
	assert.Equal(t, g.ID, restarted.ID)
	assert.False(t, restarted.Generated)
	assert.Equal(t, "2:2:1", restarted.Seed)
}

func TestFetchUnknownGame(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/game/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHighscoresBadSeed(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/highscores?seed=1:1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
