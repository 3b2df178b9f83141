package api

import (
	"net/http"
	"strings"
)

// getUserStats returns the attempt history of one user.
// @Summary      Get user statistics
// @Tags         Statistics
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  stats.UserStats
// @Failure      404       {object}  map[string]string
// @Router       /users/{username}/stats [get]
func (h *Handler) getUserStats(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PathValue("username"))
	if username == "" {
		respondError(w, http.StatusBadRequest, "username is required")
		return
	}

	u, err := h.quiz.UserStats(r.Context(), username)
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// getLeaderboard ranks users by their best percent.
// @Summary      Leaderboard
// @Tags         Statistics
// @Produce      json
// @Success      200  {array}   stats.LeaderboardEntry
// @Failure      500  {object}  map[string]string
// @Router       /leaderboard [get]
func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.quiz.Leaderboard(r.Context())
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, board)
}
