package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fanlar-test/backend/internal/api"
	"github.com/fanlar-test/backend/internal/domain/questionbank"
	"github.com/fanlar-test/backend/internal/infrastructure/config"
	"github.com/fanlar-test/backend/internal/service"
	"github.com/fanlar-test/backend/internal/store"

	_ "github.com/fanlar-test/backend/docs" // generated swagger docs
)

// @title           Fanlar Test API
// @version         1.0
// @description     Timed subject quizzes with multiple-choice and generated calculation questions, per-user statistics and a leaderboard.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Dependencies ────────────────────────────────────────────────
	catalog, err := config.LoadCatalog(cfg.SubjectsFile)
	if err != nil {
		logger.Error("failed to load subject catalog", "path", cfg.SubjectsFile, "error", err)
		os.Exit(1)
	}

	statsStore, err := store.Open(ctx, cfg.StatsDriver, cfg.StatsPath, cfg.StatsDSN)
	if err != nil {
		logger.Error("failed to open statistics store", "driver", cfg.StatsDriver, "error", err)
		os.Exit(1)
	}
	defer statsStore.Close()

	recorder := service.NewRecorder(statsStore, logger)
	quiz := service.NewQuizService(questionbank.NewLoader(cfg.BanksDir, catalog), statsStore, recorder, logger, service.Options{
		DefaultDuration: cfg.DefaultDuration,
		SampleSize:      cfg.RandomSampleSize,
		Retention:       cfg.SessionRetention,
	})

	sweeper, err := service.NewSweeper(quiz, cfg.SweepSchedule, logger)
	if err != nil {
		logger.Error("failed to configure session sweeper", "error", err)
		os.Exit(1)
	}
	sweeperDone := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(sweeperDone)
	}()

	handler := api.NewHandler(quiz, logger, cfg.ImmediateFeedback)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(cfg.CORSOrigins)(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server",
		"address", cfg.ServerAddress,
		"subjects", len(catalog.Subjects()),
		"stats_driver", cfg.StatsDriver,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		stop()
		<-shutdownDone
		<-sweeperDone
		recorder.Close()
		os.Exit(1)
	}

	// Shutdown returns once in-flight handlers finish, so the store stays open for them.
	<-shutdownDone
	<-sweeperDone
	recorder.Close()
	logger.Info("server stopped")
}
