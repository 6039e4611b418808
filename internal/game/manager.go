package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minefield/internal/field"
)

// Manager keeps game sessions in memory. Sessions idle for longer than the
// ttl are evicted by Run.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	recorder ScoreRecorder
	ttl      time.Duration
	now      func() time.Time
	opts     []SessionOption
}

func NewManager(recorder ScoreRecorder, ttl time.Duration, opts ...SessionOption) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		recorder: recorder,
		ttl:      ttl,
		now:      time.Now,
		opts:     opts,
	}
}

func (m *Manager) Create(nick string, p field.Params, opts ...SessionOption) (*Session, error) {
	all := append(append([]SessionOption{}, m.opts...), opts...)
	s, err := NewSession(uuid.NewString(), nick, p, m.recorder, all...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Evict drops every session idle for longer than the ttl and returns how
// many were dropped.
func (m *Manager) Evict() int {
	if m.ttl <= 0 {
		return 0
	}
	deadline := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.LastActive().Before(deadline) {
			s.timer.Stop()
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run evicts idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration, onEvict func(n int)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.Evict(); n > 0 && onEvict != nil {
				onEvict(n)
			}
		}
	}
}
