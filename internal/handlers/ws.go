package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minefield/internal/game"
)

type wsCommand string

const (
	wsNoop wsCommand = "g"
	wsOpen wsCommand = "o"
	wsFlag wsCommand = "f"
)

var errBadCommand = errors.New("bad command")

// wsConn serializes writes: replies and timer pushes come from different
// goroutines.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func parseXY(args []string) (x, y int, err error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%w: need args <x> <y>", errBadCommand)
	}
	if x, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, fmt.Errorf("%w: bad x: %w", errBadCommand, err)
	}
	if y, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: bad y: %w", errBadCommand, err)
	}
	return x, y, nil
}

// execute runs one command line and returns the reply to send.
func (g GameHandler) execute(ctx context.Context, s *game.Session, line string) any {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return wrapError(fmt.Errorf("%w: empty", errBadCommand))
	}

	cmd, args := wsCommand(tokens[0]), tokens[1:]
	var move Move
	switch cmd {
	case wsNoop:
		return NewGameDTO(s.State())
	case wsOpen:
		move = MoveOpen
	case wsFlag:
		move = MoveFlag
	default:
		return wrapError(fmt.Errorf("%w: unknown command %q", errBadCommand, cmd))
	}

	x, y, err := parseXY(args)
	if err != nil {
		return wrapError(err)
	}
	diff, err := g.move(ctx, s, move, x, y)
	if err != nil {
		return wrapError(err)
	}
	return NewDiffDTO(diff)
}

func (g GameHandler) readLoop(ctx context.Context, c *wsConn, s *game.Session) error {
	for {
		mt, buf, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		if mt != websocket.TextMessage {
			continue
		}

		for _, line := range strings.Split(strings.TrimSpace(string(buf)), "\n") {
			if err := c.send(g.execute(ctx, s, line)); err != nil {
				return err
			}
		}
	}
}

// Connect upgrades to a websocket that accepts "o x y", "f x y" and "g"
// commands and pushes the timer once per second while it changes.
func (g GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	s, err := g.session(r)
	if err != nil {
		sendGameError(w, g.logger, err)
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Debug("unable to upgrade connection", slog.Any("error", err))
		return
	}
	c := &wsConn{conn: conn}
	logger := g.logger.With(slog.String("game_id", s.ID()))
	logger.Debug("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	var grp errgroup.Group
	grp.Go(func() error {
		defer cancel()
		return g.readLoop(ctx, c, s)
	})
	grp.Go(func() error {
		defer conn.Close()
		last := -1
		s.Watch(ctx, func(seconds int) {
			if seconds == last {
				return
			}
			last = seconds
			if err := c.send(TimeDTO{Elapsed: seconds}); err != nil {
				cancel()
			}
		})
		return nil
	})

	if err := grp.Wait(); err != nil {
		logger.Debug("websocket closed", slog.Any("error", err))
		return
	}
	logger.Debug("websocket closed")
}
