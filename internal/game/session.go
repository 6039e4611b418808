package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vancomm/minefield/internal/field"
	"github.com/vancomm/minefield/internal/scores"
)

const DefaultNick = "noname"

type ScoreRecorder interface {
	RecordScore(ctx context.Context, s scores.Score) error
}

// Session owns one field and everything a player needs around it: nick,
// timer and the score bookkeeping. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id       string
	nick     string
	playerID *int64

	field     *field.Field
	fieldOpts []field.Option
	timer     *Timer
	recorder  ScoreRecorder
	recorded  bool

	now        func() time.Time
	lastActive time.Time
}

type SessionOption func(*Session)

// WithFieldOptions is passed to every field the session builds, including
// the ones built on restart.
func WithFieldOptions(opts ...field.Option) SessionOption {
	return func(s *Session) {
		s.fieldOpts = append(s.fieldOpts, opts...)
	}
}

func WithPlayer(playerID int64) SessionOption {
	return func(s *Session) {
		s.playerID = &playerID
	}
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
		s.timer.now = now
	}
}

func NewSession(
	id string, nick string, p field.Params, recorder ScoreRecorder, opts ...SessionOption,
) (*Session, error) {
	if nick == "" {
		nick = DefaultNick
	}
	s := &Session{
		id:       id,
		nick:     nick,
		timer:    NewTimer(),
		recorder: recorder,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	f, err := field.New(p, s.fieldOpts...)
	if err != nil {
		return nil, err
	}
	s.field = f
	s.lastActive = s.now()
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Nick() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nick
}

func (s *Session) SetNick(nick string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nick = nick
}

func (s *Session) PlayerID() *int64 {
	return s.playerID
}

// Authorize checks that playerID may act on the session. Anonymous sessions
// are open to everyone.
func (s *Session) Authorize(playerID *int64) error {
	if s.playerID == nil {
		return nil
	}
	if playerID == nil || *playerID != *s.playerID {
		return ErrNotOwner
	}
	return nil
}

func (s *Session) Params() field.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.field.Params()
}

func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.field.Finished()
}

func (s *Session) Elapsed() int {
	return s.timer.Elapsed()
}

// Watch reports the elapsed seconds once per second until ctx is done.
func (s *Session) Watch(ctx context.Context, fn func(seconds int)) {
	s.timer.Watch(ctx, fn)
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Open opens the cell at (x, y), starting the timer on the first open.
func (s *Session) Open(ctx context.Context, x, y int) (*Diff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMove(x, y); err != nil {
		return nil, err
	}
	if !s.timer.Running() {
		s.timer.Start()
	}

	cs, err := s.field.Open(x, y)
	if err != nil {
		return nil, err
	}
	return s.afterMove(ctx, cs)
}

func (s *Session) Flag(ctx context.Context, x, y int) (*Diff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMove(x, y); err != nil {
		return nil, err
	}

	cs, err := s.field.ToggleFlag(x, y)
	if err != nil {
		return nil, err
	}
	return s.afterMove(ctx, cs)
}

// Restart discards the field and builds a new one with p.
func (s *Session) Restart(p field.Params) error {
	f, err := field.New(p, s.fieldOpts...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.field = f
	s.recorded = false
	s.timer.Reset()
	s.lastActive = s.now()
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		ID:        s.id,
		Nick:      s.nick,
		Params:    s.field.Params(),
		Generated: s.field.Generated(),
		Flags:     s.field.FlagCount(),
		Won:       s.field.Won(),
		Lost:      s.field.Lost(),
		Elapsed:   s.timer.Elapsed(),
	}
	if state.Generated {
		state.Cells = make([]field.Cell, 0, state.Params.Area())
		for c := range s.field.All() {
			state.Cells = append(state.Cells, *c)
		}
	}
	return state
}

func (s *Session) checkMove(x, y int) error {
	s.lastActive = s.now()
	if !s.field.Params().PointInBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d)", ErrInvalidPosition, x, y)
	}
	if s.field.Finished() {
		return ErrGameFinished
	}
	return nil
}

// afterMove stops the timer on a finished game and records the score of a
// won one. A score is recorded at most once per field even if the recorder
// fails.
func (s *Session) afterMove(ctx context.Context, cs *field.ChangeSet) (*Diff, error) {
	won, lost := s.field.Won(), s.field.Lost()
	if won || lost {
		s.timer.Stop()
	}

	diff := &Diff{
		Cells:    copyCells(cs.Cells()),
		Exploded: cs.Exploded(),
		Won:      won,
		Lost:     lost,
		Flags:    s.field.FlagCount(),
		Elapsed:  s.timer.Elapsed(),
	}

	if !won || s.recorded {
		return diff, nil
	}
	s.recorded = true
	if s.recorder == nil {
		return diff, nil
	}

	score := scores.New(s.nick, s.field.Params(), diff.Elapsed)
	score.PlayerID = s.playerID
	if err := s.recorder.RecordScore(ctx, score); err != nil {
		return diff, fmt.Errorf("unable to record score: %w", err)
	}
	return diff, nil
}
