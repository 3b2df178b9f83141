package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	practicesession "github.com/fanlar-test/backend/internal/domain/practice_session"
	"github.com/fanlar-test/backend/internal/grader"
	"github.com/fanlar-test/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSessionRequest struct {
	Subject     string `json:"subject" validate:"required" example:"Algoritm"`
	Mode        string `json:"mode" validate:"omitempty,oneof=full random" example:"random"`
	DurationMin *int   `json:"duration_min,omitempty" validate:"omitempty,min=5,max=180" example:"30"`
	Username    string `json:"username,omitempty" validate:"max=64" example:"ali"`
}

func (r *CreateSessionRequest) Validate() error {
	r.Subject = strings.TrimSpace(r.Subject)
	r.Username = strings.TrimSpace(r.Username)
	r.Mode = strings.ToLower(strings.TrimSpace(r.Mode))
	return validateStruct(r)
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"max=1000" example:"O(n log n)"`
}

func (r *SubmitAnswerRequest) Validate() error {
	return validateStruct(r)
}

type QuestionResponse struct {
	Index   int      `json:"index" example:"0"`
	ID      string   `json:"id" example:"12"`
	Type    string   `json:"type" example:"multiple_choice"`
	Prompt  string   `json:"prompt" example:"Binary search complexity?"`
	Options []string `json:"options,omitempty"`
	Answer  string   `json:"answer"`
	Error   string   `json:"error,omitempty"`
}

type SessionResponse struct {
	ID               string             `json:"id"`
	Username         string             `json:"username,omitempty"`
	Subject          string             `json:"subject" example:"Algoritm"`
	Mode             string             `json:"mode" example:"full"`
	Status           string             `json:"status" example:"running"`
	DurationMin      int                `json:"duration_min" example:"30"`
	StartedAt        *time.Time         `json:"started_at,omitempty"`
	EndsAt           *time.Time         `json:"ends_at,omitempty"`
	FinishedAt       *time.Time         `json:"finished_at,omitempty"`
	FinishReason     string             `json:"finish_reason,omitempty" example:"submitted"`
	RemainingSeconds int                `json:"remaining_seconds" example:"1800"`
	Clock            string             `json:"clock" example:"30:00"`
	TimeSpentSeconds int                `json:"time_spent_seconds" example:"0"`
	Answered         int                `json:"answered" example:"0"`
	Total            int                `json:"total" example:"25"`
	Questions        []QuestionResponse `json:"questions"`
	Results          []grader.Result    `json:"results,omitempty"`
	Score            *int               `json:"score,omitempty" example:"18"`
	Percent          *float64           `json:"percent,omitempty" example:"72"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func toSessionResponse(snap practicesession.Snapshot) SessionResponse {
	questions := make([]QuestionResponse, len(snap.Questions))
	for i, q := range snap.Questions {
		questions[i] = QuestionResponse{
			Index:   q.Index,
			ID:      string(q.ID),
			Type:    string(q.Type),
			Prompt:  q.Prompt,
			Options: q.Options,
			Answer:  q.Answer,
			Error:   q.Error,
		}
	}

	remaining := snap.Remaining
	if snap.Lifecycle == practicesession.NotStarted {
		remaining = snap.Duration
	}

	resp := SessionResponse{
		ID:               snap.ID,
		Username:         snap.Username,
		Subject:          snap.Subject,
		Mode:             string(snap.Mode),
		Status:           string(snap.Lifecycle),
		DurationMin:      int(snap.Duration / time.Minute),
		StartedAt:        timePtr(snap.StartedAt),
		EndsAt:           timePtr(snap.EndsAt),
		FinishedAt:       timePtr(snap.FinishedAt),
		FinishReason:     string(snap.FinishReason),
		RemainingSeconds: int(remaining / time.Second),
		Clock:            practicesession.FormatClock(remaining),
		TimeSpentSeconds: int(snap.TimeSpent / time.Second),
		Answered:         snap.Answered,
		Total:            snap.Total,
		Questions:        questions,
	}

	if snap.Lifecycle == practicesession.Finished {
		score, percent := snap.Score, snap.Percent
		resp.Results = snap.Results
		resp.Score = &score
		resp.Percent = &percent
	}
	return resp
}

func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "question index must be an integer")
		return 0, false
	}
	return index, true
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createSession creates a quiz session for a subject.
// @Summary      Create a session
// @Description  Loads the subject's question bank and prepares a session in the not_started state.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSessionRequest  true  "Session options"
// @Success      201   {object}  SessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string  "question bank could not be loaded"
// @Router       /sessions [post]
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	mode, err := practicesession.ParseMode(req.Mode)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := service.CreateParams{
		Subject:  req.Subject,
		Mode:     mode,
		Username: req.Username,
	}
	if req.DurationMin != nil {
		params.Duration = time.Duration(*req.DurationMin) * time.Minute
	}

	snap, err := h.quiz.Create(r.Context(), params)
	if h.handleServiceError(w, err) {
		return
	}

	respondJSON(w, http.StatusCreated, toSessionResponse(snap))
}

// getSession returns the current state of a session and applies expiry.
// @Summary      Get a session
// @Description  Timer tick: returns the session view, finishing it first if its time ran out.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      404        {object}  map[string]string
// @Router       /sessions/{sessionID} [get]
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.quiz.Snapshot(r.Context(), r.PathValue("sessionID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(snap))
}

// startSession starts the countdown.
// @Summary      Start a session
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      404        {object}  map[string]string
// @Failure      409        {object}  map[string]string  "already started"
// @Router       /sessions/{sessionID}/start [post]
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.quiz.Start(r.Context(), r.PathValue("sessionID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(snap))
}

// submitAnswer stores the answer of one question.
// @Summary      Answer a question
// @Description  Stores the answer for the question at index. An empty answer clears it.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string               true  "Session ID"
// @Param        index      path      int                  true  "Question index"
// @Param        body       body      SubmitAnswerRequest  true  "Answer"
// @Success      200        {object}  SessionResponse
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Failure      409        {object}  map[string]string  "session not running"
// @Router       /sessions/{sessionID}/answers/{index} [put]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	snap, err := h.quiz.Answer(r.Context(), r.PathValue("sessionID"), index, req.Answer)
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(snap))
}

// checkAnswer grades one answer without finishing the session.
// @Summary      Check one answer
// @Description  Immediate feedback for the stored answer at index. Served only when IMMEDIATE_FEEDBACK is enabled.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Param        index      path      int     true  "Question index"
// @Success      200        {object}  grader.Result
// @Failure      404        {object}  map[string]string
// @Failure      409        {object}  map[string]string
// @Router       /sessions/{sessionID}/check/{index} [post]
func (h *Handler) checkAnswer(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	result, err := h.quiz.Check(r.Context(), r.PathValue("sessionID"), index)
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// finishSession submits the session for evaluation.
// @Summary      Finish a session
// @Description  Evaluates every answer once. Finishing a finished session returns its results unchanged.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  SessionResponse
// @Failure      404        {object}  map[string]string
// @Failure      409        {object}  map[string]string  "session not started"
// @Router       /sessions/{sessionID}/finish [post]
func (h *Handler) finishSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.quiz.Finish(r.Context(), r.PathValue("sessionID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(snap))
}

// resetSession discards a session.
// @Summary      Reset a session
// @Tags         Sessions
// @Param        sessionID  path  string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /sessions/{sessionID} [delete]
func (h *Handler) resetSession(w http.ResponseWriter, r *http.Request) {
	if h.handleServiceError(w, h.quiz.Reset(r.Context(), r.PathValue("sessionID"))) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
