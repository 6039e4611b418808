package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/vancomm/minefield/internal/config"
)

type ctxKey int

const ctxPlayerClaims ctxKey = iota

// Auth puts the player claims from the auth cookies into the request
// context. Requests with missing or invalid cookies pass through anonymous
// and get their stale cookies cleared.
func Auth(logger *slog.Logger, cookies *config.Cookies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParsePlayerClaims(r)
			if err != nil {
				if _, cerr := r.Cookie("auth"); cerr == nil {
					logger.Debug("dropping invalid auth cookies", slog.Any("error", err))
					cookies.Clear(w)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPlayerClaims(r.Context(), claims)))
		})
	}
}

func WithPlayerClaims(ctx context.Context, claims *config.PlayerClaims) context.Context {
	return context.WithValue(ctx, ctxPlayerClaims, claims)
}

func PlayerClaims(ctx context.Context) (*config.PlayerClaims, bool) {
	claims, ok := ctx.Value(ctxPlayerClaims).(*config.PlayerClaims)
	return claims, ok
}

// PlayerID is nil for anonymous requests.
func PlayerID(ctx context.Context) *int64 {
	claims, ok := PlayerClaims(ctx)
	if !ok {
		return nil
	}
	id := claims.PlayerID
	return &id
}
