package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweeper runs QuizService.Sweep on a cron schedule so sessions expire
// even when no client is polling them.
type Sweeper struct {
	quiz     *QuizService
	schedule string
	logger   *slog.Logger
}

func NewSweeper(quiz *QuizService, schedule string, logger *slog.Logger) (*Sweeper, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return &Sweeper{quiz: quiz, schedule: schedule, logger: logger}, nil
}

// Start blocks until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	c := cron.New()

	_, err := c.AddFunc(s.schedule, func() {
		expired, evicted := s.quiz.Sweep(ctx)
		if expired > 0 || evicted > 0 {
			s.logger.Info("sessions swept", "expired", expired, "evicted", evicted, "live", s.quiz.Len())
		}
	})
	if err != nil {
		s.logger.Error("failed to add sweep job", "error", err)
		return
	}

	c.Start()
	s.logger.Info("session sweeper started", "schedule", s.schedule)

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("session sweeper stopped")
}
