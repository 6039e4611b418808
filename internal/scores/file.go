package scores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"
)

// FileStore keeps the score table in a pretty-printed JSON file. The whole
// table is rewritten on every record.
type FileStore struct {
	mu     sync.Mutex
	path   string
	scores []Score
	now    func() time.Time
}

// OpenFile loads the table at path. A missing file is an empty table.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path, now: time.Now}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to read scores file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.scores); err != nil {
		return fmt.Errorf("unable to parse scores file %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.scores, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *FileStore) RecordScore(ctx context.Context, score Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if score.RecordedAt.IsZero() {
		score.RecordedAt = s.now().UTC()
	}
	s.scores = append(s.scores, score)
	if err := s.save(); err != nil {
		s.scores = s.scores[:len(s.scores)-1]
		return fmt.Errorf("unable to save scores file: %w", err)
	}
	return nil
}

func (s *FileStore) Scores(ctx context.Context, f Filter) ([]Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return f.Apply(s.scores), nil
}
