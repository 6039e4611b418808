package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func NewRouter(basePath string, game *GameHandler, auth *Auth) *mux.Router {
	router := mux.NewRouter()
	root := router
	if basePath != "" {
		root = router.PathPrefix(basePath).Subrouter()
	}

	root.Methods(http.MethodGet).Path("/status").HandlerFunc(auth.Status)
	root.Methods(http.MethodPost).Path("/register").HandlerFunc(auth.Register)
	root.Methods(http.MethodPost).Path("/login").HandlerFunc(auth.Login)
	root.Methods(http.MethodPost).Path("/logout").HandlerFunc(auth.Logout)

	root.Methods(http.MethodGet).Path("/highscores").HandlerFunc(game.Highscores)

	root.Methods(http.MethodPost).Path("/game").HandlerFunc(game.NewGame)
	gameRouter := root.PathPrefix("/game").Subrouter()
	gameRouter.Methods(http.MethodGet).Path("/{id}").HandlerFunc(game.Fetch)
	gameRouter.Methods(http.MethodPost).Path("/{id}/move").HandlerFunc(game.Move)
	gameRouter.Methods(http.MethodPost).Path("/{id}/restart").HandlerFunc(game.Restart)
	gameRouter.Methods(http.MethodGet).Path("/{id}/connect").HandlerFunc(game.Connect)

	return router
}
