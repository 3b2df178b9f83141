// Package stats holds per-user attempt history and the summary derived from
// it. The summary is never edited on its own: it is recomputed from the
// attempts every time the history changes.
package stats

import (
	"context"
	"errors"
	"sort"
	"time"
)

// DateLayout is the format of AttemptRecord.Date and UserStats.CreatedAt.
const DateLayout = "2006-01-02 15:04:05"

var ErrUserNotFound = errors.New("user has no statistics")

// AttemptRecord is one finished session. Records are append-only.
type AttemptRecord struct {
	Date      string  `json:"date"`
	Subject   string  `json:"subject"`
	Mode      string  `json:"mode"`
	Score     int     `json:"score"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
	TimeSpent int     `json:"time_spent"` // seconds
}

type Summary struct {
	TotalAttempts int     `json:"total_attempts"`
	BestScore     int     `json:"best_score"`
	BestPercent   float64 `json:"best_percent"`
	AvgPercent    float64 `json:"avg_percent"`
}

type UserStats struct {
	CreatedAt string          `json:"created_at"`
	Attempts  []AttemptRecord `json:"attempts"`
	Summary   Summary         `json:"summary"`
}

// NamedStats pairs a username with its statistics.
type NamedStats struct {
	Username string
	Stats    UserStats
}

// Attempt is the input of a record operation.
type Attempt struct {
	Subject   string
	Mode      string
	Score     int
	Total     int
	TimeSpent time.Duration
	At        time.Time
}

// Store persists statistics keyed by username. List returns users in the
// order they were first recorded.
type Store interface {
	RecordAttempt(ctx context.Context, username string, a Attempt) (*UserStats, error)
	Get(ctx context.Context, username string) (*UserStats, error)
	List(ctx context.Context) ([]NamedStats, error)
}

// NewAttempt builds the persisted record of an attempt.
func NewAttempt(a Attempt) AttemptRecord {
	return AttemptRecord{
		Date:      a.At.Format(DateLayout),
		Subject:   a.Subject,
		Mode:      a.Mode,
		Score:     a.Score,
		Total:     a.Total,
		Percent:   Percent(a.Score, a.Total),
		TimeSpent: int(a.TimeSpent / time.Second),
	}
}

// Percent is 100*score/total, or 0 when total is 0.
func Percent(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(score) / float64(total)
}

// Summarize recomputes the summary of a history. The best attempt is the
// first one with the highest percent.
func Summarize(attempts []AttemptRecord) Summary {
	if len(attempts) == 0 {
		return Summary{}
	}

	best := attempts[0]
	sum := 0.0
	for _, a := range attempts {
		if a.Percent > best.Percent {
			best = a
		}
		sum += a.Percent
	}

	return Summary{
		TotalAttempts: len(attempts),
		BestScore:     best.Score,
		BestPercent:   best.Percent,
		AvgPercent:    sum / float64(len(attempts)),
	}
}

// NewUserStats starts an empty history.
func NewUserStats(createdAt time.Time) *UserStats {
	return &UserStats{
		CreatedAt: createdAt.Format(DateLayout),
		Attempts:  []AttemptRecord{},
	}
}

// Append adds a record and refreshes the summary.
func (u *UserStats) Append(r AttemptRecord) {
	u.Attempts = append(u.Attempts, r)
	u.Summary = Summarize(u.Attempts)
}

// LeaderboardEntry is one ranked user.
type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	Username      string  `json:"username"`
	BestPercent   float64 `json:"best_percent"`
	TotalAttempts int     `json:"total_attempts"`
}

// Leaderboard ranks users by best percent, highest first. Ties keep the
// input order.
func Leaderboard(users []NamedStats) []LeaderboardEntry {
	sorted := make([]NamedStats, len(users))
	copy(sorted, users)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Stats.Summary.BestPercent > sorted[j].Stats.Summary.BestPercent
	})

	entries := make([]LeaderboardEntry, len(sorted))
	for i, u := range sorted {
		entries[i] = LeaderboardEntry{
			Rank:          i + 1,
			Username:      u.Username,
			BestPercent:   u.Stats.Summary.BestPercent,
			TotalAttempts: u.Stats.Summary.TotalAttempts,
		}
	}
	return entries
}
