package game

import "errors"

var (
	ErrGameFinished    = errors.New("game is already finished")
	ErrInvalidPosition = errors.New("invalid cell position")
	ErrSessionNotFound = errors.New("game session not found")
	ErrNotOwner        = errors.New("game session belongs to another player")
)
