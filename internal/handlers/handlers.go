package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vancomm/minefield/internal/field"
	"github.com/vancomm/minefield/internal/game"
)

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger *slog.Logger, v any) {
	if _, err := SendJSON(w, v); err != nil {
		logger.Error(
			"unable to send response",
			slog.Any("response", v),
			slog.Any("error", err),
		)
	}
}

// sendStatusJSON writes status and v. The header has to be set before the
// status line is written.
func sendStatusJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("unable to marshal response", slog.Any("error", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		logger.Error("unable to send response", slog.Any("error", err))
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func sendError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	sendStatusJSON(w, logger, status, wrapError(err))
}

// errorStatus maps game errors to response codes. Anything unknown is a
// server error.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, game.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidPosition),
		errors.Is(err, field.ErrInvalidParams),
		errors.Is(err, field.ErrOutOfBounds):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// sendGameError answers with the status matching err. Server errors are
// logged and their text is not exposed.
func sendGameError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("unable to handle game request", slog.Any("error", err))
		w.WriteHeader(status)
		return
	}
	sendError(w, logger, status, err)
}
