// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	practicesession "github.com/fanlar-test/backend/internal/domain/practice_session"
	"github.com/fanlar-test/backend/internal/domain/questionbank"
	"github.com/fanlar-test/backend/internal/domain/stats"
	"github.com/fanlar-test/backend/internal/service"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags of v and reports the first failure
// by its JSON field name.
func validateStruct(v any) error {
	err := validate.Struct(v)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Errorf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Errorf("%s must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Errorf("%s is invalid", fe.Field())
}

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	quiz              *service.QuizService
	logger            *slog.Logger
	immediateFeedback bool
}

// NewHandler creates a Handler. With immediateFeedback set the per-question
// check route is served.
func NewHandler(quiz *service.QuizService, logger *slog.Logger, immediateFeedback bool) *Handler {
	return &Handler{
		quiz:              quiz,
		logger:            logger,
		immediateFeedback: immediateFeedback,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

type validatable interface {
	Validate() error
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validatable) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleServiceError writes the response for a failed command. Returns true
// if an error was handled (caller should return).
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, stats.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "user has no statistics")
	case errors.Is(err, practicesession.ErrQuestionIndex):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, questionbank.ErrUnknownSubject),
		errors.Is(err, questionbank.ErrBankNotFound),
		errors.Is(err, questionbank.ErrBankMalformed),
		errors.Is(err, practicesession.ErrEmptyBank):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, practicesession.ErrAlreadyStarted),
		errors.Is(err, practicesession.ErrNotRunning),
		errors.Is(err, practicesession.ErrSessionFinished):
		respondError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
