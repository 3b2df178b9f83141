package api

import (
	"fmt"
	"net/http"
	"time"
)

// exportStats downloads the whole statistics document.
// @Summary      Export statistics
// @Description  Returns every user's statistics as one JSON object keyed by username.
// @Tags         Statistics
// @Produce      json
// @Success      200  {object}  map[string]stats.UserStats
// @Failure      500  {object}  map[string]string
// @Router       /export [get]
func (h *Handler) exportStats(w http.ResponseWriter, r *http.Request) {
	doc, err := h.quiz.Export(r.Context())
	if h.handleServiceError(w, err) {
		return
	}

	filename := fmt.Sprintf("stats-%s.json", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}
