// simulation/simulation.go
package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	practicesession "github.com/fanlar-test/backend/internal/domain/practice_session"
	"github.com/fanlar-test/backend/internal/domain/questionbank"
	"github.com/fanlar-test/backend/internal/service"
	"github.com/fanlar-test/backend/internal/worker"
)

// Plan describes a batch of synthetic learners.
type Plan struct {
	Subject string
	Mode    practicesession.Mode
	Players int
	Workers int
	Seed    int64
}

// Outcome is the result of one simulated learner.
type Outcome struct {
	Username  string
	SessionID string
	Score     int
	Total     int
	Percent   float64
	Err       error
}

// Run plays plan.Players sessions through quiz, plan.Workers at a time.
// Players answer every question with a guess, submit, and have their
// attempt recorded under "sim-NNN".
func Run(ctx context.Context, quiz *service.QuizService, plan Plan) []Outcome {
	if plan.Players <= 0 {
		return nil
	}
	pool := worker.NewPool[Outcome](plan.Workers, plan.Players)

	for i := 0; i < plan.Players; i++ {
		username := fmt.Sprintf("sim-%03d", i+1)
		rng := rand.New(rand.NewSource(plan.Seed + int64(i)))
		pool.Submit(username, func() Outcome {
			return play(ctx, quiz, plan, username, rng)
		})
	}
	pool.Close()

	outcomes := make([]Outcome, 0, plan.Players)
	for r := range pool.Results() {
		outcomes = append(outcomes, r.Output)
	}
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Username < outcomes[j].Username
	})
	return outcomes
}

func play(ctx context.Context, quiz *service.QuizService, plan Plan, username string, rng *rand.Rand) Outcome {
	out := Outcome{Username: username}

	snap, err := quiz.Create(ctx, service.CreateParams{
		Subject:  plan.Subject,
		Mode:     plan.Mode,
		Username: username,
	})
	if err != nil {
		out.Err = err
		return out
	}
	out.SessionID = snap.ID

	if _, err := quiz.Start(ctx, snap.ID); err != nil {
		out.Err = err
		return out
	}

	for _, q := range snap.Questions {
		if _, err := quiz.Answer(ctx, snap.ID, q.Index, guess(q, rng)); err != nil {
			out.Err = fmt.Errorf("answer %d: %w", q.Index, err)
			return out
		}
	}

	final, err := quiz.Finish(ctx, snap.ID)
	if err != nil {
		out.Err = err
		return out
	}

	out.Score = final.Score
	out.Total = final.Total
	out.Percent = final.Percent
	return out
}

func guess(q practicesession.QuestionView, rng *rand.Rand) string {
	if q.Type == questionbank.TypeCalculation {
		return strconv.Itoa(rng.Intn(100))
	}
	if len(q.Options) == 0 {
		return ""
	}
	return q.Options[rng.Intn(len(q.Options))]
}
