package practicesession

import (
	"errors"
	"time"

	"github.com/fanlar-test/backend/internal/domain/questionbank"
	"github.com/fanlar-test/backend/internal/grader"
	"github.com/fanlar-test/backend/internal/id"
)

type Lifecycle string

const (
	NotStarted Lifecycle = "not_started"
	Running    Lifecycle = "running"
	Finished   Lifecycle = "finished"
)

// FinishReason tells how a session reached Finished.
type FinishReason string

const (
	ReasonSubmitted FinishReason = "submitted"
	ReasonExpired   FinishReason = "expired"
)

var (
	ErrEmptyBank       = errors.New("bank has no questions")
	ErrAlreadyStarted  = errors.New("session already started")
	ErrNotRunning      = errors.New("session is not running")
	ErrSessionFinished = errors.New("session is finished")
	ErrQuestionIndex   = errors.New("question index out of range")
)

// PracticeSession is one learner's attempt at a test, from creation to
// finish. It is not safe for concurrent use; callers serialise access.
type PracticeSession struct {
	ID       string
	Username string // empty = statistics are not recorded
	Subject  string
	Mode     Mode
	Duration time.Duration

	Questions []ActiveQuestion

	Lifecycle    Lifecycle
	CreatedAt    time.Time
	StartedAt    time.Time
	EndsAt       time.Time
	FinishedAt   time.Time
	FinishReason FinishReason

	answers []string
	results []*grader.Result
	score   int
}

// New creates a session over the whole bank with the default configuration.
func New(bank *questionbank.QuestionBank) (*PracticeSession, error) {
	return NewWithConfig(bank, DefaultConfig())
}

// NewWithConfig selects the questions of the session and materialises them.
// ModeFull keeps the bank order; ModeRandom draws min(SampleSize, len(bank))
// distinct questions. Options of multiple-choice questions are shuffled per
// session.
func NewWithConfig(bank *questionbank.QuestionBank, config SessionConfig) (*PracticeSession, error) {
	if len(bank.Questions) == 0 {
		return nil, ErrEmptyBank
	}

	rng := config.rng()
	selected := selectQuestions(bank.Questions, config, rng)

	questions := make([]ActiveQuestion, len(selected))
	for i, t := range selected {
		questions[i] = Materialize(t, rng)
	}

	duration := config.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	mode := config.Mode
	if mode == "" {
		mode = ModeFull
	}

	return &PracticeSession{
		ID:        id.New(),
		Subject:   bank.Subject,
		Mode:      mode,
		Duration:  duration,
		Questions: questions,
		Lifecycle: NotStarted,
		CreatedAt: time.Now(),
		answers:   make([]string, len(questions)),
		results:   make([]*grader.Result, len(questions)),
		score:     0,
	}, nil
}

func selectQuestions(all []questionbank.QuestionTemplate, config SessionConfig, rng Rand) []questionbank.QuestionTemplate {
	if config.Mode != ModeRandom {
		selected := make([]questionbank.QuestionTemplate, len(all))
		copy(selected, all)
		return selected
	}

	n := config.SampleSize
	if n <= 0 {
		n = DefaultSampleSize
	}
	if n > len(all) {
		n = len(all)
	}

	selected := make([]questionbank.QuestionTemplate, n)
	for i, idx := range rng.Perm(len(all))[:n] {
		selected[i] = all[idx]
	}
	return selected
}

// Start moves the session to Running and fixes its end instant.
func (s *PracticeSession) Start(now time.Time) error {
	if s.Lifecycle != NotStarted {
		return ErrAlreadyStarted
	}
	s.Lifecycle = Running
	s.StartedAt = now
	s.EndsAt = now.Add(s.Duration)
	return nil
}

// Remaining returns the time left; zero unless running.
func (s *PracticeSession) Remaining(now time.Time) time.Duration {
	if s.Lifecycle != Running {
		return 0
	}
	left := s.EndsAt.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Observe finishes a running session whose time is up. It reports whether
// this call performed the transition; later calls are no-ops.
func (s *PracticeSession) Observe(now time.Time) bool {
	if s.Lifecycle != Running || now.Before(s.EndsAt) {
		return false
	}
	s.finalize(now, ReasonExpired)
	return true
}

// Finish is the learner's explicit submit. It reports whether this call
// performed the transition; submitting a finished session is a no-op.
func (s *PracticeSession) Finish(now time.Time) (bool, error) {
	switch s.Lifecycle {
	case NotStarted:
		return false, ErrNotRunning
	case Finished:
		return false, nil
	}
	if s.Observe(now) {
		return true, nil
	}
	s.finalize(now, ReasonSubmitted)
	return true, nil
}

// SetAnswer stores the raw value for question i. An empty value clears the
// slot.
func (s *PracticeSession) SetAnswer(i int, value string) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	switch s.Lifecycle {
	case NotStarted:
		return ErrNotRunning
	case Finished:
		return ErrSessionFinished
	}
	s.answers[i] = value
	return nil
}

// Check grades question i without finishing the session.
func (s *PracticeSession) Check(i int) (grader.Result, error) {
	if err := s.checkIndex(i); err != nil {
		return grader.Result{}, err
	}
	if s.Lifecycle == NotStarted {
		return grader.Result{}, ErrNotRunning
	}
	return grader.EvaluateOne(s.Questions[i].Key(), s.answers[i]), nil
}

func (s *PracticeSession) checkIndex(i int) error {
	if i < 0 || i >= len(s.Questions) {
		return ErrQuestionIndex
	}
	return nil
}

func (s *PracticeSession) finalize(now time.Time, reason FinishReason) {
	keys := make([]grader.Key, len(s.Questions))
	for i, q := range s.Questions {
		keys[i] = q.Key()
	}

	results, score := grader.Evaluate(keys, s.answers)
	for i := range results {
		s.results[i] = &results[i]
	}
	s.score = score

	s.Lifecycle = Finished
	s.FinishReason = reason
	s.FinishedAt = now
}

// Answer returns the stored value of question i.
func (s *PracticeSession) Answer(i int) string {
	if i < 0 || i >= len(s.answers) {
		return ""
	}
	return s.answers[i]
}

// Answered counts the questions with a non-empty answer.
func (s *PracticeSession) Answered() int {
	n := 0
	for _, a := range s.answers {
		if a != "" {
			n++
		}
	}
	return n
}

func (s *PracticeSession) Score() int {
	return s.score
}

func (s *PracticeSession) Total() int {
	return len(s.Questions)
}

// Percent is 100*score/total, or 0 for an empty session.
func (s *PracticeSession) Percent() float64 {
	if len(s.Questions) == 0 {
		return 0
	}
	return float64(s.score) / float64(len(s.Questions)) * 100
}

// TimeSpent is the time between start and finish, capped at the duration.
func (s *PracticeSession) TimeSpent(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	end := now
	if s.Lifecycle == Finished {
		end = s.FinishedAt
	}
	spent := end.Sub(s.StartedAt)
	if spent > s.Duration {
		spent = s.Duration
	}
	if spent < 0 {
		return 0
	}
	return spent
}

// Results returns the per-question results; entries are nil until finished.
func (s *PracticeSession) Results() []*grader.Result {
	out := make([]*grader.Result, len(s.results))
	copy(out, s.results)
	return out
}
