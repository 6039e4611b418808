package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/field"
	"github.com/vancomm/minefield/internal/game"
	"github.com/vancomm/minefield/internal/scores"
)

const prompt = "> "

var errExit = errors.New("exit")

// userError is printed to the player as is.
type userError string

func (e userError) Error() string { return string(e) }

type command func(ctx context.Context, args []string) error

// Shell runs the text interface over one game session.
type Shell struct {
	in      io.Reader
	out     io.Writer
	log     *logrus.Logger
	session *game.Session
	scores  scores.Store

	commands map[string]command
}

func NewShell(in io.Reader, out io.Writer, log *logrus.Logger, session *game.Session, store scores.Store) *Shell {
	sh := &Shell{
		in:      in,
		out:     out,
		log:     log,
		session: session,
		scores:  store,
	}
	sh.commands = map[string]command{
		"nick":    sh.nick,
		"records": sh.records,
		"reset":   sh.reset,
		"f":       sh.flag,
		"flag":    sh.flag,
		"o":       sh.open,
		"open":    sh.open,
		"exit":    sh.exit,
	}
	return sh
}

func (sh *Shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.out, format, args...)
}

func (sh *Shell) render() {
	if err := Render(sh.out, sh.session.State()); err != nil {
		sh.log.WithError(err).Error("unable to render board")
	}
}

// Run reads commands until exit, end of input or ctx is done.
func (sh *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(sh.in)
	sh.render()
	sh.printf(prompt)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			sh.printf(prompt)
			continue
		}

		cmd, ok := sh.commands[tokens[0]]
		if !ok {
			sh.printf("Command not found.\n")
			sh.printf(prompt)
			continue
		}

		sh.log.WithFields(logrus.Fields{
			"command": tokens[0],
			"args":    tokens[1:],
		}).Debug("executing command")

		err := cmd(ctx, tokens[1:])
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			sh.printf("%s\n", err)
		} else {
			sh.render()
		}
		sh.printf(prompt)
	}
	return scanner.Err()
}

func parseInts(args []string, usage string) ([]int, error) {
	if len(args) != strings.Count(usage, "<") {
		return nil, userError("Need args: " + usage)
	}
	res := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, userError("Wrong args.")
		}
		res[i] = v
	}
	return res, nil
}

// moveError turns session errors into player facing text.
func (sh *Shell) moveError(err error) error {
	switch {
	case errors.Is(err, game.ErrInvalidPosition):
		return userError("No such cell.")
	case errors.Is(err, game.ErrGameFinished):
		return userError("Game is over. Use reset to play again.")
	}
	sh.log.WithError(err).Error("move failed")
	return err
}

func (sh *Shell) afterMove(diff *game.Diff) {
	if diff.Won {
		sh.log.WithFields(logrus.Fields{
			"nick": sh.session.Nick(),
			"time": diff.Elapsed,
		}).Info("game won")
	}
}

func (sh *Shell) open(ctx context.Context, args []string) error {
	xy, err := parseInts(args, "<x> <y>")
	if err != nil {
		return err
	}
	diff, err := sh.session.Open(ctx, xy[0], xy[1])
	if err != nil && diff == nil {
		return sh.moveError(err)
	}
	if err != nil {
		sh.log.WithError(err).Error("unable to save score")
	}
	sh.afterMove(diff)
	return nil
}

func (sh *Shell) flag(ctx context.Context, args []string) error {
	xy, err := parseInts(args, "<x> <y>")
	if err != nil {
		return err
	}
	diff, err := sh.session.Flag(ctx, xy[0], xy[1])
	if err != nil && diff == nil {
		return sh.moveError(err)
	}
	if err != nil {
		sh.log.WithError(err).Error("unable to save score")
	}
	sh.afterMove(diff)
	return nil
}

func (sh *Shell) reset(_ context.Context, args []string) error {
	v, err := parseInts(args, "<mines> <width> <height>")
	if err != nil {
		return err
	}
	p := field.Params{Width: v[1], Height: v[2], MineCount: v[0]}
	if err := sh.session.Restart(p); err != nil {
		return userError("Bad params: " + err.Error())
	}
	sh.log.WithField("seed", p.Seed()).Info("game restarted")
	return nil
}

func (sh *Shell) nick(_ context.Context, args []string) error {
	if len(args) != 1 {
		return userError("Need arg: <nick>")
	}
	sh.session.SetNick(args[0])
	sh.printf("Nick set.\n")
	return nil
}

func (sh *Shell) records(ctx context.Context, _ []string) error {
	all, err := sh.scores.Scores(ctx, scores.Filter{})
	if err != nil {
		sh.log.WithError(err).Error("unable to load scores")
		return userError("Unable to load scores.")
	}
	sh.printf("Scores:\n")
	for _, s := range all {
		sh.printf("%s\n", s)
	}
	return nil
}

func (sh *Shell) exit(context.Context, []string) error {
	return errExit
}
