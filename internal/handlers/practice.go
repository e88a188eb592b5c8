package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"empenglish-backend/internal/middleware"
	"empenglish-backend/internal/models"
	"empenglish-backend/internal/practice"
	"empenglish-backend/internal/repository"
)

type PracticeHandler struct {
	orchestrator *practice.Orchestrator
	userRepo     *repository.UserRepo
	sessionRepo  *repository.PracticeSessionRepo
	turnRepo     *repository.PracticeTurnRepo
	reportRepo   *repository.PracticeReportRepo
}

func NewPracticeHandler(
	orchestrator *practice.Orchestrator,
	userRepo *repository.UserRepo,
	sessionRepo *repository.PracticeSessionRepo,
	turnRepo *repository.PracticeTurnRepo,
	reportRepo *repository.PracticeReportRepo,
) *PracticeHandler {
	return &PracticeHandler{
		orchestrator: orchestrator,
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		turnRepo:     turnRepo,
		reportRepo:   reportRepo,
	}
}

func (h *PracticeHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	started, err := h.orchestrator.StartSession(r.Context(), user, req)
	if err != nil {
		handlePracticeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session":        started.Session,
		"first_question": started.FirstQuestion,
		"ws_url":         "/api/v1/ws",
	})
}

func (h *PracticeHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit := queryInt(r, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	sessions, total, err := h.sessionRepo.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list sessions", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"total":    total,
	})
}

func (h *PracticeHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	turns, err := h.turnRepo.ListBySession(r.Context(), session.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load turns", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
		"turns":   turns,
	})
}

// NextQuestion issues the next question of an ongoing session.
func (h *PracticeHandler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	issued, err := h.orchestrator.NextQuestion(r.Context(), session.ID)
	if err != nil {
		handlePracticeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, issued)
}

// SubmitAnswer scores one turn. The answer arrives as an audio URL, a
// pre-transcribed text, or both.
func (h *PracticeHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	turnID, err := uuid.Parse(req.TurnID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid turn ID", r))
		return
	}
	if req.AudioURL == "" && req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Either audio_url or text is required", r))
		return
	}

	result, err := h.orchestrator.SubmitAnswer(r.Context(), session.ID, turnID, req.AudioURL, req.Text)
	if err != nil {
		handlePracticeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *PracticeHandler) AbortSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	report, err := h.orchestrator.Abort(r.Context(), session.ID)
	if err != nil {
		handlePracticeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Session aborted",
		"report":  report,
	})
}

func (h *PracticeHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	report, err := h.reportRepo.GetBySession(r.Context(), session.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load report", r))
		return
	}
	if report == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Report not available yet", r))
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *PracticeHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit := queryInt(r, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	reports, err := h.reportRepo.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list reports", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

// ownedSession resolves the {id} URL param to a session owned by the
// authenticated user.
func (h *PracticeHandler) ownedSession(w http.ResponseWriter, r *http.Request) (*models.PracticeSession, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return nil, false
	}

	session, err := h.sessionRepo.GetByID(r.Context(), id)
	if err != nil || session == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return nil, false
	}

	if session.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}

	return session, true
}

func handlePracticeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, practice.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
	case errors.Is(err, practice.ErrTurnNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Turn not found", r))
	case errors.Is(err, practice.ErrSessionNotOngoing):
		writeJSON(w, http.StatusConflict, errorResp("SESSION_NOT_ONGOING", "Session is no longer ongoing", r))
	case errors.Is(err, practice.ErrTurnSessionMismatch):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Turn does not belong to this session", r))
	case errors.Is(err, practice.ErrTurnAlreadyScored):
		writeJSON(w, http.StatusConflict, errorResp("TURN_ALREADY_SCORED", "This turn has already been scored", r))
	case errors.Is(err, practice.ErrNoQuestionsAvailable):
		writeJSON(w, http.StatusConflict, errorResp("NO_QUESTIONS", "No more questions are available for this session", r))
	case errors.Is(err, practice.ErrPremiumRequired):
		writeJSON(w, http.StatusForbidden, errorResp("PREMIUM_REQUIRED", "University mode requires a premium plan", r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
