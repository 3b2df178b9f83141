package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	practicesession "github.com/fanlar-test/backend/internal/domain/practice_session"
	"github.com/fanlar-test/backend/internal/domain/questionbank"
	"github.com/fanlar-test/backend/internal/domain/stats"
	"github.com/fanlar-test/backend/internal/grader"
)

var ErrSessionNotFound = errors.New("session not found")

// Options tunes a QuizService. Zero values fall back to the session
// package defaults.
type Options struct {
	DefaultDuration time.Duration
	SampleSize      int
	Retention       time.Duration // how long finished sessions stay readable
	Rand            practicesession.Rand
	Now             func() time.Time
}

// CreateParams are the learner's choices for a new session.
type CreateParams struct {
	Subject  string
	Mode     practicesession.Mode
	Duration time.Duration
	Username string // empty means the attempt is not recorded
}

type entry struct {
	mu      sync.Mutex
	session *practicesession.PracticeSession
}

// QuizService owns the live sessions and runs the learner's commands
// against them. Each session is guarded by its own mutex.
type QuizService struct {
	loader   *questionbank.Loader
	stats    stats.Store
	recorder *Recorder
	logger   *slog.Logger
	opts     Options

	mu       sync.RWMutex
	sessions map[string]*entry
}

func NewQuizService(loader *questionbank.Loader, s stats.Store, recorder *Recorder, logger *slog.Logger, opts Options) *QuizService {
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = practicesession.DefaultDuration
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = practicesession.DefaultSampleSize
	}
	if opts.Retention <= 0 {
		opts.Retention = 2 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &QuizService{
		loader:   loader,
		stats:    s,
		recorder: recorder,
		logger:   logger,
		opts:     opts,
		sessions: make(map[string]*entry),
	}
}

func (s *QuizService) Subjects() []questionbank.Subject {
	return s.loader.Catalog().Subjects()
}

// Create loads the subject's bank and builds a session in the not started
// state. Bank load failures are returned unchanged.
func (s *QuizService) Create(ctx context.Context, p CreateParams) (practicesession.Snapshot, error) {
	bank, err := s.loader.Load(p.Subject)
	if err != nil {
		s.logger.Warn("failed to load question bank", "subject", p.Subject, "error", err)
		return practicesession.Snapshot{}, err
	}

	duration := p.Duration
	if duration <= 0 {
		duration = s.opts.DefaultDuration
	}

	sess, err := practicesession.NewWithConfig(bank, practicesession.SessionConfig{
		Mode:       p.Mode,
		Duration:   duration,
		SampleSize: s.opts.SampleSize,
		Rand:       s.opts.Rand,
	})
	if err != nil {
		return practicesession.Snapshot{}, err
	}

	now := s.opts.Now()
	sess.Username = p.Username
	sess.CreatedAt = now

	s.mu.Lock()
	s.sessions[sess.ID] = &entry{session: sess}
	s.mu.Unlock()

	for _, q := range sess.Questions {
		if q.Err != nil {
			s.logger.Warn("calculation question has no answer", "session_id", sess.ID, "question_id", q.ID, "error", q.Err)
		}
	}
	s.logger.Info("session created",
		"session_id", sess.ID,
		"subject", sess.Subject,
		"mode", sess.Mode,
		"questions", len(sess.Questions),
	)

	return sess.Snapshot(now), nil
}

func (s *QuizService) Start(ctx context.Context, id string) (practicesession.Snapshot, error) {
	return s.run(ctx, id, func(sess *practicesession.PracticeSession, now time.Time) (bool, error) {
		return false, sess.Start(now)
	})
}

// Answer stores value for question index. An empty value clears it.
func (s *QuizService) Answer(ctx context.Context, id string, index int, value string) (practicesession.Snapshot, error) {
	return s.run(ctx, id, func(sess *practicesession.PracticeSession, _ time.Time) (bool, error) {
		return false, sess.SetAnswer(index, value)
	})
}

// Check evaluates one stored answer without finishing the session.
func (s *QuizService) Check(ctx context.Context, id string, index int) (grader.Result, error) {
	var result grader.Result
	_, err := s.run(ctx, id, func(sess *practicesession.PracticeSession, _ time.Time) (bool, error) {
		var err error
		result, err = sess.Check(index)
		return false, err
	})
	return result, err
}

// Finish submits the session. Submitting a finished session returns its
// final state without evaluating again.
func (s *QuizService) Finish(ctx context.Context, id string) (practicesession.Snapshot, error) {
	return s.run(ctx, id, func(sess *practicesession.PracticeSession, now time.Time) (bool, error) {
		return sess.Finish(now)
	})
}

// Snapshot is the timer tick: it applies expiry and returns the view.
func (s *QuizService) Snapshot(ctx context.Context, id string) (practicesession.Snapshot, error) {
	return s.run(ctx, id, func(*practicesession.PracticeSession, time.Time) (bool, error) {
		return false, nil
	})
}

// Reset discards the session. Its recorded attempt, if any, is kept.
func (s *QuizService) Reset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.logger.Info("session reset", "session_id", id)
	return nil
}

func (s *QuizService) UserStats(ctx context.Context, username string) (*stats.UserStats, error) {
	return s.stats.Get(ctx, username)
}

func (s *QuizService) Leaderboard(ctx context.Context) ([]stats.LeaderboardEntry, error) {
	users, err := s.stats.List(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Leaderboard(users), nil
}

// Export returns the whole statistics document.
func (s *QuizService) Export(ctx context.Context) ([]byte, error) {
	users, err := s.stats.List(ctx)
	if err != nil {
		return nil, err
	}
	return stats.EncodeDocument(users)
}

// Sweep expires overdue running sessions and evicts sessions that finished
// or were abandoned more than Retention ago. Attempts of sessions expired
// here are handed to the recorder.
func (s *QuizService) Sweep(ctx context.Context) (expired, evicted int) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)

	now := s.opts.Now()
	var stale []string
	for _, id := range ids {
		e, err := s.lookup(id)
		if err != nil {
			continue
		}

		e.mu.Lock()
		sess := e.session
		if sess.Observe(now) {
			expired++
			s.logger.Info("session expired", "session_id", sess.ID, "score", sess.Score(), "total", sess.Total())
			if sess.Username != "" && s.recorder != nil {
				s.recorder.Submit(sess.ID, sess.Username, attemptOf(sess, now))
			}
		}
		switch {
		case sess.Lifecycle == practicesession.Finished && now.Sub(sess.FinishedAt) > s.opts.Retention:
			stale = append(stale, id)
		case sess.Lifecycle == practicesession.NotStarted && now.Sub(sess.CreatedAt) > s.opts.Retention:
			stale = append(stale, id)
		}
		e.mu.Unlock()
	}

	s.mu.Lock()
	for _, id := range stale {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	return expired, len(stale)
}

// Len reports the number of live sessions.
func (s *QuizService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *QuizService) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// run applies expiry, then fn, under the session lock. When either moves
// the session to finished the attempt is recorded once.
func (s *QuizService) run(ctx context.Context, id string, fn func(*practicesession.PracticeSession, time.Time) (bool, error)) (practicesession.Snapshot, error) {
	e, err := s.lookup(id)
	if err != nil {
		return practicesession.Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := s.opts.Now()
	sess := e.session
	expired := sess.Observe(now)
	finished, err := fn(sess, now)

	if expired || finished {
		s.logger.Info("session finished",
			"session_id", sess.ID,
			"reason", sess.FinishReason,
			"score", sess.Score(),
			"total", sess.Total(),
		)
		s.record(ctx, sess, now)
	}

	return sess.Snapshot(now), err
}

func (s *QuizService) record(ctx context.Context, sess *practicesession.PracticeSession, now time.Time) {
	if sess.Username == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if _, err := s.stats.RecordAttempt(ctx, sess.Username, attemptOf(sess, now)); err != nil {
		s.logger.Error("failed to record attempt",
			"session_id", sess.ID,
			"username", sess.Username,
			"error", err,
		)
	}
}

func attemptOf(sess *practicesession.PracticeSession, now time.Time) stats.Attempt {
	at := sess.FinishedAt
	if at.IsZero() {
		at = now
	}
	return stats.Attempt{
		Subject:   sess.Subject,
		Mode:      string(sess.Mode),
		Score:     sess.Score(),
		Total:     sess.Total(),
		TimeSpent: sess.TimeSpent(now),
		At:        at,
	}
}
