// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"
)

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /health", h.health)

	// Subjects
	mux.HandleFunc("GET /subjects", h.listSubjects)

	// Sessions
	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("GET /sessions/{sessionID}", h.getSession)
	mux.HandleFunc("POST /sessions/{sessionID}/start", h.startSession)
	mux.HandleFunc("PUT /sessions/{sessionID}/answers/{index}", h.submitAnswer)
	mux.HandleFunc("POST /sessions/{sessionID}/finish", h.finishSession)
	mux.HandleFunc("DELETE /sessions/{sessionID}", h.resetSession)
	if h.immediateFeedback {
		mux.HandleFunc("POST /sessions/{sessionID}/check/{index}", h.checkAnswer)
	}

	// Statistics
	mux.HandleFunc("GET /users/{username}/stats", h.getUserStats)
	mux.HandleFunc("GET /leaderboard", h.getLeaderboard)
	mux.HandleFunc("GET /export", h.exportStats)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs one line per request.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// CORS allows the quiz front end served from origins to call the API.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	})
}
