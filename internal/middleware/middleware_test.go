package middleware

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minefield/internal/config"
)

func TestWrapOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }),
		mw("inner"), mw("outer"),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/game?x=1", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "handled request", entry["msg"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/game?x=1", entry["uri"])
}

func TestCorsPreflight(t *testing.T) {
	h := Cors("https://mines.example")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/game", nil)
	req.Header.Set("Origin", "https://mines.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://mines.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func newTestCookies(t *testing.T) *config.Cookies {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	t.Setenv("COOKIES_DOMAIN", "localhost")
	cookies, err := config.NewCookies(config.NewJWTFromKeys(key, &key.PublicKey, time.Hour))
	require.NoError(t, err)
	return cookies
}

func TestAuth(t *testing.T) {
	cookies := newTestCookies(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var got *int64
	h := Auth(logger, cookies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = PlayerID(r.Context())
	}))

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Nil(t, got)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("signed in", func(t *testing.T) {
		login := httptest.NewRecorder()
		require.NoError(t, cookies.Refresh(login, config.NewPlayerClaims(7, "dave", time.Hour)))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range login.Result().Cookies() {
			req.AddCookie(c)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
		require.NotNil(t, got)
		assert.Equal(t, int64(7), *got)
	})

	t.Run("tampered", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "auth", Value: "e30.e30"})
		req.AddCookie(&http.Cookie{Name: "sign", Value: "bogus"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Nil(t, got)
		assert.NotEmpty(t, rec.Result().Cookies(), "stale cookies are cleared")
	})
}
