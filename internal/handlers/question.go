package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"empenglish-backend/internal/middleware"
	"empenglish-backend/internal/models"
	"empenglish-backend/internal/repository"
)

type QuestionHandler struct {
	questionRepo *repository.QuestionRepo
	userRepo     *repository.UserRepo
}

func NewQuestionHandler(questionRepo *repository.QuestionRepo, userRepo *repository.UserRepo) *QuestionHandler {
	return &QuestionHandler{questionRepo: questionRepo, userRepo: userRepo}
}

func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ListQuestionsFilter{
		Type:       q.Get("type"),
		University: q.Get("university"),
		Major:      q.Get("major"),
		Category:   q.Get("category"),
		Difficulty: queryInt(r, "difficulty", 0),
		Page:       queryInt(r, "page", 1),
		PageSize:   queryInt(r, "page_size", 20),
	}

	questions, total, err := h.questionRepo.List(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list questions", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": questions,
		"total":     total,
	})
}

func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid question ID", r))
		return
	}

	q, err := h.questionRepo.GetByID(r.Context(), id)
	if err != nil || q == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Question not found", r))
		return
	}

	if q.IsPremium && middleware.GetUserPlan(r.Context()) != "premium" {
		writeJSON(w, http.StatusForbidden, errorResp("PREMIUM_REQUIRED", "This question requires a premium plan", r))
		return
	}

	writeJSON(w, http.StatusOK, q)
}

// Recommend ranks questions against the user's target university and
// major. Explicit query params take precedence over saved settings.
func (h *QuestionHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var university, major *string
	if v := r.URL.Query().Get("university"); v != "" {
		university = &v
	}
	if v := r.URL.Query().Get("major"); v != "" {
		major = &v
	}

	if university == nil && major == nil {
		if settings, err := h.userRepo.GetSettings(r.Context(), userID); err == nil && settings != nil {
			university = settings.TargetUniversity
			major = settings.TargetMajor
		}
	}

	recs, err := h.questionRepo.Recommend(r.Context(), university, major, queryInt(r, "limit", 10))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to build recommendations", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"recommendations": recs})
}
