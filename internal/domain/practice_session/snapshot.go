package practicesession

import (
	"fmt"
	"time"

	"github.com/fanlar-test/backend/internal/domain/questionbank"
	"github.com/fanlar-test/backend/internal/grader"
)

// QuestionView is what the learner sees of one question.
type QuestionView struct {
	Index   int
	ID      questionbank.ID
	Type    questionbank.QuestionType
	Prompt  string
	Options []string
	Answer  string
	Error   string
}

// Snapshot is a copy of the session state handed to the render boundary.
// Results is nil until the session is finished.
type Snapshot struct {
	ID           string
	Username     string
	Subject      string
	Mode         Mode
	Duration     time.Duration
	Lifecycle    Lifecycle
	StartedAt    time.Time
	EndsAt       time.Time
	FinishedAt   time.Time
	FinishReason FinishReason
	Remaining    time.Duration
	TimeSpent    time.Duration
	Answered     int
	Total        int
	Questions    []QuestionView
	Results      []grader.Result
	Score        int
	Percent      float64
}

// Snapshot copies the current state. It does not observe expiry; callers
// call Observe first.
func (s *PracticeSession) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		ID:           s.ID,
		Username:     s.Username,
		Subject:      s.Subject,
		Mode:         s.Mode,
		Duration:     s.Duration,
		Lifecycle:    s.Lifecycle,
		StartedAt:    s.StartedAt,
		EndsAt:       s.EndsAt,
		FinishedAt:   s.FinishedAt,
		FinishReason: s.FinishReason,
		Remaining:    s.Remaining(now),
		TimeSpent:    s.TimeSpent(now),
		Answered:     s.Answered(),
		Total:        s.Total(),
		Questions:    make([]QuestionView, len(s.Questions)),
		Score:        s.score,
	}

	for i, q := range s.Questions {
		view := QuestionView{
			Index:  i,
			ID:     q.ID,
			Type:   q.Type,
			Prompt: q.Prompt,
			Answer: s.answers[i],
		}
		if q.Options != nil {
			view.Options = append([]string(nil), q.Options...)
		}
		if q.Err != nil {
			view.Error = q.Err.Error()
		}
		snap.Questions[i] = view
	}

	if s.Lifecycle == Finished {
		snap.Results = make([]grader.Result, len(s.results))
		for i, r := range s.results {
			if r != nil {
				snap.Results[i] = *r
			}
		}
		snap.Percent = s.Percent()
	}

	return snap
}

// FormatClock renders a duration as MM:SS, truncating to whole seconds.
func FormatClock(d time.Duration) string {
	sec := int(d / time.Second)
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}
