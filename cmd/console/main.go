package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/urfave/cli/v3"

	"github.com/vancomm/minefield/internal/console"
	"github.com/vancomm/minefield/internal/field"
	"github.com/vancomm/minefield/internal/game"
	"github.com/vancomm/minefield/internal/scores"
)

// newLogger writes to a rotating file only, stdout belongs to the game.
func newLogger(path string, debug bool) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if debug {
		level = logrus.DebugLevel
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   path,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     28,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetOutput(io.Discard)
	log.AddHook(hook)
	return log, nil
}

func openStore(ctx context.Context, path string) (scores.Store, func() error, error) {
	switch filepath.Ext(path) {
	case ".db", ".sqlite", ".sqlite3":
		db, err := scores.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		store, err := scores.NewSQLiteStore(ctx, db, "scores")
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil
	}
	store, err := scores.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() error { return nil }, nil
}

func play(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd.String("log-file"), cmd.Bool("debug"))
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cmd.String("scores"))
	if err != nil {
		return fmt.Errorf("unable to open score table: %w", err)
	}
	defer closeStore()

	params := field.Params{
		Width:     int(cmd.Int("width")),
		Height:    int(cmd.Int("height")),
		MineCount: int(cmd.Int("mines")),
	}

	var opts []field.Option
	if s := cmd.String("seed"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("bad seed: %w", err)
		}
		opts = append(opts, field.WithSeed(seed))
	}

	session, err := game.NewSession(
		"console", cmd.String("nick"), params, store, game.WithFieldOptions(opts...),
	)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"seed":   params.Seed(),
		"scores": cmd.String("scores"),
	}).Info("game started")

	return console.NewShell(os.Stdin, os.Stdout, log, session, store).Run(ctx)
}

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd := &cli.Command{
		Name:  "minefield",
		Usage: "play minesweeper in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "nick",
				Value:   game.DefaultNick,
				Usage:   "player name for the score table",
				Sources: cli.EnvVars("MINEFIELD_NICK"),
			},
			&cli.IntFlag{Name: "width", Value: 9, Usage: "board width"},
			&cli.IntFlag{Name: "height", Value: 9, Usage: "board height"},
			&cli.IntFlag{Name: "mines", Value: 10, Usage: "number of mines"},
			&cli.StringFlag{Name: "seed", Usage: "fixed random seed for repeatable boards"},
			&cli.StringFlag{
				Name:    "scores",
				Value:   "scores.json",
				Usage:   "score table, .json file or .db SQLite database",
				Sources: cli.EnvVars("MINEFIELD_SCORES"),
			},
			&cli.StringFlag{Name: "log-file", Value: "minefield.log", Usage: "log file path"},
			&cli.BoolFlag{Name: "debug", Usage: "log debug messages"},
		},
		Action: play,
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
