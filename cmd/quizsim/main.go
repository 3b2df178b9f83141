// Command quizsim plays a batch of synthetic learners against the question
// banks and statistics store configured for the server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	practicesession "github.com/fanlar-test/backend/internal/domain/practice_session"
	"github.com/fanlar-test/backend/internal/domain/questionbank"
	"github.com/fanlar-test/backend/internal/infrastructure/config"
	"github.com/fanlar-test/backend/internal/service"
	"github.com/fanlar-test/backend/internal/simulation"
	"github.com/fanlar-test/backend/internal/store"
)

func main() {
	subject := flag.String("subject", "Algoritm", "subject to play")
	mode := flag.String("mode", "random", "test mode: full or random")
	players := flag.Int("players", 20, "number of simulated learners")
	workers := flag.Int("workers", 4, "sessions played at the same time")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	m, err := practicesession.ParseMode(*mode)
	if err != nil {
		logger.Error("invalid mode", "error", err)
		os.Exit(2)
	}

	catalog, err := config.LoadCatalog(cfg.SubjectsFile)
	if err != nil {
		logger.Error("failed to load subject catalog", "error", err)
		os.Exit(1)
	}

	statsStore, err := store.Open(ctx, cfg.StatsDriver, cfg.StatsPath, cfg.StatsDSN)
	if err != nil {
		logger.Error("failed to open statistics store", "error", err)
		os.Exit(1)
	}
	defer statsStore.Close()

	quiz := service.NewQuizService(questionbank.NewLoader(cfg.BanksDir, catalog), statsStore, nil, logger, service.Options{
		DefaultDuration: cfg.DefaultDuration,
		SampleSize:      cfg.RandomSampleSize,
	})

	start := time.Now()
	outcomes := simulation.Run(ctx, quiz, simulation.Plan{
		Subject: *subject,
		Mode:    m,
		Players: *players,
		Workers: *workers,
		Seed:    *seed,
	})

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			logger.Error("player failed", "username", o.Username, "error", o.Err)
			continue
		}
		logger.Info("player finished", "username", o.Username, "score", o.Score, "total", o.Total, "percent", o.Percent)
	}

	board, err := quiz.Leaderboard(ctx)
	if err != nil {
		logger.Error("failed to build leaderboard", "error", err)
	}
	for _, e := range board {
		if e.Rank > 5 {
			break
		}
		logger.Info("leaderboard", "rank", e.Rank, "username", e.Username, "best_percent", e.BestPercent)
	}

	logger.Info("simulation done", "players", len(outcomes), "failed", failed, "elapsed", time.Since(start))
	if failed > 0 {
		os.Exit(1)
	}
}
