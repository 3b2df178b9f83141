package service

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	practicesession "github.com/fanlar-test/backend/internal/domain/practice_session"
	"github.com/fanlar-test/backend/internal/domain/questionbank"
	"github.com/fanlar-test/backend/internal/domain/stats"
	"github.com/fanlar-test/backend/internal/store"
)

const algoritmBank = `[
  {"id": 1, "savol": "2+2?", "variantlar": ["3", "4", "5"], "javob": "4"},
  {"id": 2, "type": "multiple_choice", "savol": "Capital?", "variantlar": ["Tashkent", "Samarkand"], "javob": "Tashkent"},
  {"id": 3, "savol": "O(n log n)?", "variantlar": ["merge sort", "bubble sort"], "javob": "merge sort"},
  {"id": 4, "savol": "LIFO?", "variantlar": ["stack", "queue"], "javob": "stack"}
]`

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	quiz     *QuizService
	stats    stats.Store
	recorder *Recorder
	clock    *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Algoritm.json"), []byte(algoritmBank), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Broken.json"), []byte(`[{"id": 1,`), 0o644))

	catalog := questionbank.NewCatalog([]questionbank.Subject{
		{Name: "Algoritm", File: "Algoritm.json"},
		{Name: "Broken", File: "Broken.json"},
		{Name: "Missing", File: "Missing.json"},
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewJSONFile(filepath.Join(dir, "stats.json"))
	rec := NewRecorder(st, logger)
	t.Cleanup(rec.Close)

	clock := &fakeClock{now: time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)}
	quiz := NewQuizService(questionbank.NewLoader(dir, catalog), st, rec, logger, Options{
		Rand:      rand.New(rand.NewSource(7)),
		Now:       clock.Now,
		Retention: time.Hour,
	})

	return &fixture{quiz: quiz, stats: st, recorder: rec, clock: clock}
}

func answerIndex(t *testing.T, snap practicesession.Snapshot, prompt string) int {
	t.Helper()
	for _, q := range snap.Questions {
		if q.Prompt == prompt {
			return q.Index
		}
	}
	t.Fatalf("question %q not in session", prompt)
	return -1
}

func TestQuizService_SubmitRecordsOneAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.quiz.Create(ctx, CreateParams{Subject: "Algoritm", Mode: practicesession.ModeFull, Duration: 10 * time.Minute, Username: "ali"})
	require.NoError(t, err)
	require.Equal(t, 4, snap.Total)
	assert.Equal(t, practicesession.NotStarted, snap.Lifecycle)

	_, err = f.quiz.Start(ctx, snap.ID)
	require.NoError(t, err)

	answers := map[string]string{"2+2?": "4", "Capital?": "Tashkent", "O(n log n)?": "merge sort", "LIFO?": "queue"}
	for prompt, value := range answers {
		_, err := f.quiz.Answer(ctx, snap.ID, answerIndex(t, snap, prompt), value)
		require.NoError(t, err)
	}

	f.clock.Advance(90 * time.Second)
	final, err := f.quiz.Finish(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, practicesession.Finished, final.Lifecycle)
	assert.Equal(t, 3, final.Score)
	assert.Equal(t, 75.0, final.Percent)
	require.Len(t, final.Results, 4)

	again, err := f.quiz.Finish(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Score)

	u, err := f.quiz.UserStats(ctx, "ali")
	require.NoError(t, err)
	require.Len(t, u.Attempts, 1)
	assert.Equal(t, 75.0, u.Attempts[0].Percent)
	assert.Equal(t, 90, u.Attempts[0].TimeSpent)
	assert.Equal(t, "Algoritm", u.Attempts[0].Subject)
	assert.Equal(t, "full", u.Attempts[0].Mode)
}

func TestQuizService_ExpiryOnTick(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.quiz.Create(ctx, CreateParams{Subject: "Algoritm", Duration: 5 * time.Minute, Username: "ali"})
	require.NoError(t, err)
	_, err = f.quiz.Start(ctx, snap.ID)
	require.NoError(t, err)

	f.clock.Advance(5 * time.Minute)

	for i := 0; i < 3; i++ {
		tick, err := f.quiz.Snapshot(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, practicesession.Finished, tick.Lifecycle)
		assert.Equal(t, practicesession.ReasonExpired, tick.FinishReason)
		assert.Equal(t, time.Duration(0), tick.Remaining)
	}

	_, err = f.quiz.Answer(ctx, snap.ID, 0, "4")
	assert.ErrorIs(t, err, practicesession.ErrSessionFinished)

	u, err := f.quiz.UserStats(ctx, "ali")
	require.NoError(t, err)
	assert.Len(t, u.Attempts, 1)
	assert.Equal(t, 0, u.Attempts[0].Score)
	assert.Equal(t, 300, u.Attempts[0].TimeSpent)
}

func TestQuizService_SweepExpiresAndEvicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	running, err := f.quiz.Create(ctx, CreateParams{Subject: "Algoritm", Duration: 5 * time.Minute, Username: "vali"})
	require.NoError(t, err)
	_, err = f.quiz.Start(ctx, running.ID)
	require.NoError(t, err)

	idle, err := f.quiz.Create(ctx, CreateParams{Subject: "Algoritm"})
	require.NoError(t, err)

	f.clock.Advance(6 * time.Minute)
	expired, evicted := f.quiz.Sweep(ctx)
	assert.Equal(t, 1, expired)
	assert.Equal(t, 0, evicted)

	f.recorder.Wait()
	u, err := f.stats.Get(ctx, "vali")
	require.NoError(t, err)
	assert.Len(t, u.Attempts, 1)

	expired, _ = f.quiz.Sweep(ctx)
	assert.Equal(t, 0, expired)

	f.clock.Advance(2 * time.Hour)
	_, evicted = f.quiz.Sweep(ctx)
	assert.Equal(t, 2, evicted)
	assert.Equal(t, 0, f.quiz.Len())

	_, err = f.quiz.Snapshot(ctx, idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	u, err = f.stats.Get(ctx, "vali")
	require.NoError(t, err)
	assert.Len(t, u.Attempts, 1)
}

func TestQuizService_AnonymousSessionIsNotRecorded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.quiz.Create(ctx, CreateParams{Subject: "Algoritm"})
	require.NoError(t, err)
	_, err = f.quiz.Start(ctx, snap.ID)
	require.NoError(t, err)
	_, err = f.quiz.Finish(ctx, snap.ID)
	require.NoError(t, err)

	users, err := f.stats.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestQuizService_LifecycleErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.quiz.Create(ctx, CreateParams{Subject: "Algoritm"})
	require.NoError(t, err)

	_, err = f.quiz.Answer(ctx, snap.ID, 0, "4")
	assert.ErrorIs(t, err, practicesession.ErrNotRunning)

	_, err = f.quiz.Finish(ctx, snap.ID)
	assert.ErrorIs(t, err, practicesession.ErrNotRunning)

	_, err = f.quiz.Start(ctx, snap.ID)
	require.NoError(t, err)
	_, err = f.quiz.Start(ctx, snap.ID)
	assert.ErrorIs(t, err, practicesession.ErrAlreadyStarted)

	_, err = f.quiz.Answer(ctx, snap.ID, 99, "4")
	assert.ErrorIs(t, err, practicesession.ErrQuestionIndex)

	_, err = f.quiz.Start(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, f.quiz.Reset(ctx, snap.ID))
	assert.ErrorIs(t, f.quiz.Reset(ctx, snap.ID), ErrSessionNotFound)
}

func TestQuizService_CheckSingleAnswer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.quiz.Create(ctx, CreateParams{Subject: "Algoritm"})
	require.NoError(t, err)
	_, err = f.quiz.Start(ctx, snap.ID)
	require.NoError(t, err)

	i := answerIndex(t, snap, "LIFO?")
	_, err = f.quiz.Answer(ctx, snap.ID, i, "stack")
	require.NoError(t, err)

	result, err := f.quiz.Check(ctx, snap.ID, i)
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, "stack", result.CorrectAnswer)

	tick, err := f.quiz.Snapshot(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, practicesession.Running, tick.Lifecycle)
}

func TestQuizService_BankErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.quiz.Create(ctx, CreateParams{Subject: "Broken"})
	assert.ErrorIs(t, err, questionbank.ErrBankMalformed)

	_, err = f.quiz.Create(ctx, CreateParams{Subject: "Missing"})
	assert.ErrorIs(t, err, questionbank.ErrBankNotFound)

	_, err = f.quiz.Create(ctx, CreateParams{Subject: "Fizika"})
	assert.ErrorIs(t, err, questionbank.ErrUnknownSubject)

	assert.Equal(t, 0, f.quiz.Len())
}

func TestQuizService_LeaderboardAndExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	at := f.clock.Now()

	_, err := f.stats.RecordAttempt(ctx, "low", stats.Attempt{Subject: "Algoritm", Mode: "full", Score: 1, Total: 4, At: at})
	require.NoError(t, err)
	_, err = f.stats.RecordAttempt(ctx, "high", stats.Attempt{Subject: "Algoritm", Mode: "full", Score: 4, Total: 4, At: at})
	require.NoError(t, err)

	board, err := f.quiz.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "high", board[0].Username)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 2, board[1].Rank)

	doc, err := f.quiz.Export(ctx)
	require.NoError(t, err)
	users, err := stats.DecodeDocument(doc)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "low", users[0].Username)
}
