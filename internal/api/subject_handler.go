package api

import "net/http"

type SubjectResponse struct {
	Name string `json:"name" example:"Algoritm"`
}

// health reports liveness.
// @Summary      Health check
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listSubjects lists the subjects a session can be created for.
// @Summary      List subjects
// @Tags         Subjects
// @Produce      json
// @Success      200  {array}  SubjectResponse
// @Router       /subjects [get]
func (h *Handler) listSubjects(w http.ResponseWriter, r *http.Request) {
	subjects := h.quiz.Subjects()
	resp := make([]SubjectResponse, len(subjects))
	for i, s := range subjects {
		resp[i] = SubjectResponse{Name: s.Name}
	}
	respondJSON(w, http.StatusOK, resp)
}
