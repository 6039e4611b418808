package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vancomm/minefield/internal/field"
)

const (
	defaultWidth      = 9
	defaultHeight     = 9
	defaultMineCount  = 10
	defaultSessionTTL = 30 * time.Minute
)

type Game struct {
	Defaults   field.Params
	SessionTTL time.Duration
}

func intFromEnv(name string, fallback int) (int, error) {
	s, ok := os.LookupEnv(name)
	if !ok || s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unable to parse %s: %w", name, err)
	}
	return v, nil
}

// NewGame reads the default board from GAME_WIDTH, GAME_HEIGHT and
// GAME_MINES and the idle session lifetime from SESSION_TTL.
func NewGame() (*Game, error) {
	width, err := intFromEnv("GAME_WIDTH", defaultWidth)
	if err != nil {
		return nil, err
	}
	height, err := intFromEnv("GAME_HEIGHT", defaultHeight)
	if err != nil {
		return nil, err
	}
	mineCount, err := intFromEnv("GAME_MINES", defaultMineCount)
	if err != nil {
		return nil, err
	}

	p := field.Params{Width: width, Height: height, MineCount: mineCount}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("bad default game params: %w", err)
	}

	ttl := defaultSessionTTL
	if s, ok := os.LookupEnv("SESSION_TTL"); ok && s != "" {
		ttl, err = time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("unable to parse SESSION_TTL: %w", err)
		}
	}

	return &Game{Defaults: p, SessionTTL: ttl}, nil
}
