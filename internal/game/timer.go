package game

import (
	"context"
	"sync"
	"time"
)

// Timer measures whole seconds of play. It is started by the first open and
// stopped when the game ends; a stopped timer keeps its last value.
type Timer struct {
	mu       sync.Mutex
	now      func() time.Time
	begin    time.Time
	frozen   int
	running  bool
	interval time.Duration
}

func NewTimer() *Timer {
	return &Timer{now: time.Now, interval: time.Second}
}

// Start resets the timer to zero and starts counting.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.begin = t.now()
	t.frozen = 0
	t.running = true
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		t.frozen = t.elapsed()
	}
	t.running = false
}

// Reset stops the timer and clears it.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.frozen = 0
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return t.frozen
	}
	return t.elapsed()
}

func (t *Timer) elapsed() int {
	return int(t.now().Sub(t.begin) / time.Second)
}

// Watch calls fn with the elapsed seconds right away and then once per
// interval until ctx is done. fn runs on the caller's goroutine.
func (t *Timer) Watch(ctx context.Context, fn func(seconds int)) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	fn(t.Elapsed())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(t.Elapsed())
		}
	}
}
