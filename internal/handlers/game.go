package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/field"
	"github.com/vancomm/minefield/internal/game"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/scores"
)

type GameHandler struct {
	logger   *slog.Logger
	sessions *game.Manager
	scores   scores.Store
	defaults field.Params
	ws       *config.WebSocket
}

func NewGameHandler(
	logger *slog.Logger,
	sessions *game.Manager,
	store scores.Store,
	defaults field.Params,
	ws *config.WebSocket,
) *GameHandler {
	return &GameHandler{
		logger:   logger,
		sessions: sessions,
		scores:   store,
		defaults: defaults,
		ws:       ws,
	}
}

// session looks up the session named in the path and checks that the
// requester may use it.
func (g GameHandler) session(r *http.Request) (*game.Session, error) {
	s, err := g.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		return nil, err
	}
	if err := s.Authorize(middleware.PlayerID(r.Context())); err != nil {
		return nil, err
	}
	return s, nil
}

// move applies one move. A failure to save the score of a won game is
// logged and the move still succeeds.
func (g GameHandler) move(ctx context.Context, s *game.Session, m Move, x, y int) (*game.Diff, error) {
	var (
		diff *game.Diff
		err  error
	)
	switch m {
	case MoveOpen:
		diff, err = s.Open(ctx, x, y)
	case MoveFlag:
		diff, err = s.Flag(ctx, x, y)
	}
	if err != nil && diff != nil {
		g.logger.Error(
			"unable to record score",
			slog.String("game_id", s.ID()),
			slog.Any("error", err),
		)
		return diff, nil
	}
	if diff != nil && diff.Won {
		g.logger.Info(
			"game won",
			slog.String("game_id", s.ID()),
			slog.String("nick", s.Nick()),
			slog.Int("time", diff.Elapsed),
		)
	}
	return diff, err
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	dto, err := decode[NewGameDTO](r.Form)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	params, err := dto.Params(g.defaults)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if (dto.X == nil) != (dto.Y == nil) {
		sendError(w, g.logger, http.StatusBadRequest, errors.New("first move needs both x and y"))
		return
	}

	var opts []game.SessionOption
	nick := dto.Nick
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		opts = append(opts, game.WithPlayer(claims.PlayerID))
		if nick == "" {
			nick = claims.Username
		}
	}

	s, err := g.sessions.Create(nick, params, opts...)
	if err != nil {
		sendGameError(w, g.logger, err)
		return
	}
	g.logger.Debug(
		"created game session",
		slog.String("game_id", s.ID()),
		slog.String("seed", params.Seed()),
	)

	if dto.X != nil {
		if _, err := g.move(r.Context(), s, MoveOpen, *dto.X, *dto.Y); err != nil {
			g.sessions.Delete(s.ID())
			sendGameError(w, g.logger, err)
			return
		}
	}

	sendStatusJSON(w, g.logger, http.StatusCreated, NewGameDTO(s.State()))
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, err := g.session(r)
	if err != nil {
		sendGameError(w, g.logger, err)
		return
	}
	sendJSONOrLog(w, g.logger, NewGameDTO(s.State()))
}

func (g GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	dto, err := decode[MoveDTO](r.Form)
	if err == nil {
		err = dto.Validate()
	}
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s, err := g.session(r)
	if err != nil {
		sendGameError(w, g.logger, err)
		return
	}

	diff, err := g.move(r.Context(), s, dto.Move, dto.X, dto.Y)
	if err != nil {
		sendGameError(w, g.logger, err)
		return
	}
	sendJSONOrLog(w, g.logger, NewDiffDTO(diff))
}

// Restart replaces the board. Params default to the current ones.
func (g GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	dto, err := decode[ParamsDTO](r.Form)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s, err := g.session(r)
	if err != nil {
		sendGameError(w, g.logger, err)
		return
	}

	params, err := dto.Params(s.Params())
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if err := s.Restart(params); err != nil {
		sendGameError(w, g.logger, err)
		return
	}
	sendJSONOrLog(w, g.logger, NewGameDTO(s.State()))
}

func (g GameHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	dto, err := decode[HighscoresDTO](r.URL.Query())
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}

	filter := scores.Filter{Nick: dto.Nick, Limit: dto.Limit}
	if dto.Seed != "" {
		filter.Params, err = field.ParseSeed(dto.Seed)
		if err != nil {
			sendError(w, g.logger, http.StatusBadRequest, err)
			return
		}
	}

	highscores, err := g.scores.Scores(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error(
			"failed to fetch highscores",
			slog.Any("error", err),
			slog.Any("filter", filter),
		)
		return
	}
	if highscores == nil {
		highscores = []scores.Score{}
	}
	sendJSONOrLog(w, g.logger, highscores)
}
