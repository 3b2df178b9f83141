package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fanlar-test/backend/internal/domain/stats"
)

// JSONFileStore keeps every user in one JSON document that is rewritten
// after each attempt. All access in the process goes through mu.
type JSONFileStore struct {
	path string
	mu   sync.Mutex
}

func NewJSONFile(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

func (s *JSONFileStore) Close() error { return nil }

func (s *JSONFileStore) RecordAttempt(ctx context.Context, username string, a stats.Attempt) (*stats.UserStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range users {
		if users[i].Username == username {
			idx = i
			break
		}
	}
	if idx < 0 {
		users = append(users, stats.NamedStats{Username: username, Stats: *stats.NewUserStats(a.At)})
		idx = len(users) - 1
	}
	users[idx].Stats.Append(stats.NewAttempt(a))

	if err := s.write(users); err != nil {
		return nil, err
	}

	out := users[idx].Stats
	return &out, nil
}

func (s *JSONFileStore) Get(ctx context.Context, username string) (*stats.UserStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username {
			out := u.Stats
			return &out, nil
		}
	}
	return nil, stats.ErrUserNotFound
}

func (s *JSONFileStore) List(ctx context.Context) ([]stats.NamedStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

// A missing file is an empty document.
func (s *JSONFileStore) read() ([]stats.NamedStats, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []stats.NamedStats{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read statistics: %w", err)
	}
	return stats.DecodeDocument(data)
}

func (s *JSONFileStore) write(users []stats.NamedStats) error {
	data, err := stats.EncodeDocument(users)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".stats-*.json")
	if err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write statistics: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}
	return nil
}
