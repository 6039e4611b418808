package handlers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/field"
	"github.com/vancomm/minefield/internal/game"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/repository"
	"github.com/vancomm/minefield/internal/scores"
)

var testKey = sync.OnceValue(func() *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	return key
})

type fixedPlacement []field.Point

func (fp fixedPlacement) PlaceMines(p field.Params, _ field.Point) []bool {
	grid := make([]bool, p.Area())
	for _, m := range fp {
		grid[m.Y*p.Width+m.X] = true
	}
	return grid
}

type playerStoreMock struct {
	mu      sync.Mutex
	players map[string]*repository.Player
}

func (m *playerStoreMock) CreatePlayer(
	_ context.Context, params repository.CreatePlayerParams,
) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[params.Username]; ok {
		return nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	}
	p := &repository.Player{
		PlayerID:     int64(len(m.players) + 1),
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
	}
	m.players[p.Username] = p
	return p, nil
}

func (m *playerStoreMock) FetchPlayer(_ context.Context, username string) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

type testServer struct {
	handler  http.Handler
	sessions *game.Manager
	scores   *scores.FileStore
}

// newTestServer serves 2x2 games with a single mine at (1, 1).
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := scores.OpenFile(filepath.Join(t.TempDir(), "scores.json"))
	require.NoError(t, err)

	sessions := game.NewManager(
		store, time.Minute,
		game.WithFieldOptions(field.WithStrategy(fixedPlacement{{X: 1, Y: 1}})),
	)

	t.Setenv("COOKIES_DOMAIN", "localhost")
	jwt := config.NewJWTFromKeys(testKey(), &testKey().PublicKey, time.Hour)
	cookies, err := config.NewCookies(jwt)
	require.NoError(t, err)
	ws, err := config.NewWebSocket()
	require.NoError(t, err)

	router := NewRouter(
		"",
		NewGameHandler(logger, sessions, store, field.Params{Width: 2, Height: 2, MineCount: 1}, ws),
		NewAuth(logger, &playerStoreMock{players: map[string]*repository.Player{}}, cookies, jwt),
	)
	return &testServer{
		handler:  middleware.Wrap(router, middleware.Auth(logger, cookies)),
		sessions: sessions,
		scores:   store,
	}
}

func (s *testServer) do(
	t *testing.T, method, target string, form url.Values, cookies ...*http.Cookie,
) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) newGame(t *testing.T, query string, cookies ...*http.Cookie) GameDTO {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/game"+query, nil, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[GameDTO](t, rec)
}
