package store_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanlar-test/backend/internal/domain/stats"
	"github.com/fanlar-test/backend/internal/store"
)

func backends(t *testing.T) map[string]store.StatsStore {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	sqlStore, err := store.OpenSQL(ctx, store.DriverSQLite, filepath.Join(dir, "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlStore.Close() })

	return map[string]store.StatsStore{
		"json":   store.NewJSONFile(filepath.Join(dir, "stats.json")),
		"sqlite": sqlStore,
	}
}

func attempt(score, total int, at time.Time) stats.Attempt {
	return stats.Attempt{
		Subject:   "Algoritm",
		Mode:      "full",
		Score:     score,
		Total:     total,
		TimeSpent: 90 * time.Second,
		At:        at,
	}
}

func TestStore_SummaryAcrossAttempts(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			scores := []int{2, 4, 1, 4, 3}

			var last *stats.UserStats
			for i, score := range scores {
				var err error
				last, err = s.RecordAttempt(ctx, "ali", attempt(score, 4, start.Add(time.Duration(i)*time.Hour)))
				require.NoError(t, err)
			}

			assert.Equal(t, "2025-03-01 10:00:00", last.CreatedAt)
			assert.Equal(t, 5, last.Summary.TotalAttempts)
			assert.Equal(t, 100.0, last.Summary.BestPercent)
			assert.Equal(t, 4, last.Summary.BestScore)
			assert.Equal(t, 70.0, last.Summary.AvgPercent)

			got, err := s.Get(ctx, "ali")
			require.NoError(t, err)
			require.Len(t, got.Attempts, 5)
			assert.Equal(t, stats.Summarize(got.Attempts), got.Summary)
			assert.Equal(t, "2025-03-01 11:00:00", got.Attempts[1].Date)
			assert.Equal(t, 90, got.Attempts[0].TimeSpent)
			assert.Equal(t, 25.0, got.Attempts[2].Percent)
		})
	}
}

func TestStore_GetUnknownUser(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "nobody")
			assert.ErrorIs(t, err, stats.ErrUserNotFound)
		})
	}
}

func TestStore_ListKeepsFirstSeenOrder(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, user := range []string{"zarina", "akmal", "zarina", "bobur"} {
				_, err := s.RecordAttempt(ctx, user, attempt(1, 2, at))
				require.NoError(t, err)
			}

			users, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, users, 3)
			assert.Equal(t, "zarina", users[0].Username)
			assert.Equal(t, "akmal", users[1].Username)
			assert.Equal(t, "bobur", users[2].Username)
			assert.Equal(t, 2, users[0].Stats.Summary.TotalAttempts)
		})
	}
}

func TestStore_ConcurrentRecordsAreNotLost(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := s.RecordAttempt(ctx, "ali", attempt(1, 1, at))
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			got, err := s.Get(ctx, "ali")
			require.NoError(t, err)
			assert.Len(t, got.Attempts, 10)
		})
	}
}

func TestJSONFileStore_DocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stats.json")
	s := store.NewJSONFile(path)

	_, err := s.RecordAttempt(context.Background(), "ali", attempt(3, 4, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, "{\n  \"ali\": {"))
	for _, key := range []string{`"created_at"`, `"attempts"`, `"summary"`, `"time_spent": 90`, `"percent": 75`} {
		assert.Contains(t, doc, key)
	}
}

func TestJSONFileStore_MalformedFileIsNotOverwritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	s := store.NewJSONFile(path)
	_, err := s.RecordAttempt(context.Background(), "ali", attempt(1, 1, time.Now()))
	assert.ErrorIs(t, err, stats.ErrMalformedDocument)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{broken", string(data))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := store.Open(ctx, "json", filepath.Join(dir, "stats.json"), "")
	require.NoError(t, err)
	assert.IsType(t, &store.JSONFileStore{}, s)

	s, err = store.Open(ctx, "sqlite", "", ":memory:")
	require.NoError(t, err)
	assert.IsType(t, &store.SQLStore{}, s)
	require.NoError(t, s.Close())

	_, err = store.Open(ctx, "mongo", "", "")
	assert.ErrorIs(t, err, store.ErrUnknownDriver)
}
