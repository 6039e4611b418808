package app

import (
	"net/http"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/game"
	"github.com/vancomm/minefield/internal/handlers"
	"github.com/vancomm/minefield/internal/repository"
)

// router builds the handlers. Scores and players both live in Postgres.
func (a *App) router() http.Handler {
	repo := repository.New(a.db)
	a.sessions = game.NewManager(repo, a.game.SessionTTL)

	return handlers.NewRouter(
		config.BasePath(),
		handlers.NewGameHandler(a.logger, a.sessions, repo, a.game.Defaults, a.ws),
		handlers.NewAuth(a.logger, repo, a.cookies, a.jwt),
	)
}
