package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"empenglish-backend/internal/middleware"
	"empenglish-backend/internal/models"
	"empenglish-backend/internal/repository"
)

type DashboardHandler struct {
	pool     *pgxpool.Pool
	userRepo *repository.UserRepo
}

func NewDashboardHandler(pool *pgxpool.Pool, userRepo *repository.UserRepo) *DashboardHandler {
	return &DashboardHandler{pool: pool, userRepo: userRepo}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	ctx := r.Context()

	var totalSessions, completedSessions, totalTurns int
	var bestScore float64
	h.pool.QueryRow(ctx, "SELECT COUNT(*) FROM practice_sessions WHERE user_id = $1", userID).Scan(&totalSessions)
	h.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM practice_sessions WHERE user_id = $1 AND status = 'completed'", userID).Scan(&completedSessions)
	h.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM practice_turns t
		JOIN practice_sessions s ON s.id = t.session_id
		WHERE s.user_id = $1
	`, userID).Scan(&totalTurns)
	h.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(overall_score), 0)
		FROM practice_sessions
		WHERE user_id = $1 AND overall_score IS NOT NULL
	`, userID).Scan(&bestScore)

	weeklySessions, weeklyTurns, weeklyAvgScore, practiceHours, _ := h.userRepo.GetWeeklyPracticeStats(ctx, userID)

	var weeklyGoalTarget int
	var weeklyGoalType string
	h.pool.QueryRow(ctx, `
		SELECT COALESCE((notifications_json->>'weekly_goal_target')::int, 3)
		FROM user_settings
		WHERE user_id = $1
	`, userID).Scan(&weeklyGoalTarget)

	h.pool.QueryRow(ctx, `
		SELECT COALESCE(notifications_json->>'weekly_goal_type', 'session')
		FROM user_settings
		WHERE user_id = $1
	`, userID).Scan(&weeklyGoalType)
	if weeklyGoalTarget <= 0 {
		weeklyGoalTarget = 3
	}
	if weeklyGoalType == "" {
		weeklyGoalType = "session"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_sessions":     totalSessions,
		"completed_sessions": completedSessions,
		"total_turns":        totalTurns,
		"best_score":         bestScore,
		"weekly_sessions":    weeklySessions,
		"weekly_turns":       weeklyTurns,
		"weekly_avg_score":   weeklyAvgScore,
		"practice_hours":     practiceHours,
		"weekly_goal_target": weeklyGoalTarget,
		"weekly_goal_type":   weeklyGoalType,
	})
}

func (h *DashboardHandler) SetWeeklyGoal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Target   int    `json:"target"`
		GoalType string `json:"goal_type"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Target < 1 || req.Target > 50 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Target must be between 1 and 50", r))
		return
	}

	if req.GoalType != "session" && req.GoalType != "turn" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Goal type must be session or turn", r))
		return
	}

	if err := h.userRepo.SetWeeklyGoalTarget(r.Context(), userID, req.Target, req.GoalType); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save weekly goal", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"weekly_goal_target": req.Target,
		"weekly_goal_type":   req.GoalType,
	})
}

func (h *DashboardHandler) Recent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	ctx := r.Context()

	type RecentItem struct {
		ID           uuid.UUID `json:"id"`
		Mode         string    `json:"mode"`
		Status       string    `json:"status"`
		OverallScore *float64  `json:"overall_score"`
		StartTime    time.Time `json:"start_time"`
	}

	items := make([]RecentItem, 0)

	rows, _ := h.pool.Query(ctx, `
		SELECT id, mode, status, overall_score, start_time
		FROM practice_sessions
		WHERE user_id = $1
		ORDER BY start_time DESC
		LIMIT 12
	`, userID)
	for rows.Next() {
		var item RecentItem
		rows.Scan(&item.ID, &item.Mode, &item.Status, &item.OverallScore, &item.StartTime)
		items = append(items, item)
	}
	rows.Close()

	writeJSON(w, http.StatusOK, map[string]interface{}{"recent": items})
}

func (h *DashboardHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	ctx := r.Context()

	// Count days with practice activity in the last month
	var streak int
	h.pool.QueryRow(ctx, `
		WITH activity_days AS (
			SELECT DISTINCT DATE(start_time) as d FROM practice_sessions WHERE user_id = $1
			UNION
			SELECT DISTINCT DATE(t.created_at) FROM practice_turns t
			JOIN practice_sessions s ON s.id = t.session_id WHERE s.user_id = $1
		)
		SELECT COUNT(*) FROM activity_days WHERE d >= CURRENT_DATE - INTERVAL '30 days'
	`, userID).Scan(&streak)

	writeJSON(w, http.StatusOK, map[string]interface{}{"streak": streak})
}

func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	ctx := r.Context()

	// Answered turns per weekday (Sun-Sat)
	activity := make([]float64, 7)
	rows, _ := h.pool.Query(ctx, `
		SELECT EXTRACT(DOW FROM t.created_at)::int as dow, COUNT(*)
		FROM practice_turns t
		JOIN practice_sessions s ON s.id = t.session_id
		WHERE s.user_id = $1 AND t.created_at >= CURRENT_DATE - INTERVAL '7 days'
		GROUP BY dow`, userID)
	for rows.Next() {
		var dow, count int
		rows.Scan(&dow, &count)
		if dow >= 0 && dow < 7 {
			activity[dow] = float64(count)
		}
	}
	rows.Close()

	writeJSON(w, http.StatusOK, map[string]interface{}{"activity": activity})
}

// User & Settings handler

// userRepository is the slice of repository.UserRepo the user handlers
// touch; tests substitute a stub.
type userRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, userID uuid.UUID) error
	GetSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)
	UpdateSettings(ctx context.Context, settings *models.UserSettings) error
	SetNotificationSetting(ctx context.Context, userID uuid.UUID, key string, enabled bool) error
}

type UserHandler struct {
	userRepo userRepository
}

func NewUserHandler(userRepo userRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	var update struct {
		FullName string  `json:"full_name"`
		Email    string  `json:"email"`
		Avatar   *string `json:"avatar_url"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if len(update.FullName) > 100 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Full name must be at most 100 characters", r))
		return
	}

	if update.FullName != "" {
		user.FullName = update.FullName
	}
	if update.Email != "" {
		user.Email = update.Email
	}
	if update.Avatar != nil {
		user.AvatarURL = update.Avatar
	}

	if err := h.userRepo.Update(r.Context(), user); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update profile", r))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	if !isStrongPassword(req.NewPassword) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Password must be at least 8 characters with upper, lower and digit", r))
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "Current password is incorrect", r))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to hash password", r))
		return
	}

	h.userRepo.UpdatePassword(r.Context(), userID, string(hash))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.userRepo.Delete(r.Context(), userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete account", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

func (h *UserHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	settings, err := h.userRepo.GetSettings(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Settings not found", r))
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var s models.UserSettings
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	s.UserID = userID

	if s.DefaultPressureLevel != 0 &&
		(s.DefaultPressureLevel < models.PressureGentle || s.DefaultPressureLevel > models.PressureHigh) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Pressure level must be between 1 and 3", r))
		return
	}

	if err := h.userRepo.UpdateSettings(r.Context(), &s); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update settings", r))
		return
	}

	writeJSON(w, http.StatusOK, s)
}

func isStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

func defaultNotificationPreferences() map[string]bool {
	return map[string]bool{
		"report_emails":      true,
		"weekly_digest":      false,
		"practice_reminders": false,
	}
}

// mergeNotificationPreferences overlays stored values on the defaults.
// Unknown keys and non-boolean values are ignored.
func mergeNotificationPreferences(raw json.RawMessage) map[string]bool {
	prefs := defaultNotificationPreferences()
	if len(raw) == 0 {
		return prefs
	}

	var stored map[string]interface{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return prefs
	}

	for key := range prefs {
		if v, ok := stored[key].(bool); ok {
			prefs[key] = v
		}
	}
	return prefs
}

func (h *UserHandler) GetNotificationSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	settings, err := h.userRepo.GetSettings(r.Context(), userID)
	if err != nil || settings == nil {
		writeJSON(w, http.StatusOK, defaultNotificationPreferences())
		return
	}

	writeJSON(w, http.StatusOK, mergeNotificationPreferences(settings.NotificationsJSON))
}

func (h *UserHandler) UpdateNotificationSetting(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Key     string `json:"key"`
		Enabled bool   `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if _, known := defaultNotificationPreferences()[req.Key]; !known {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Unknown notification key", r))
		return
	}

	if err := h.userRepo.SetNotificationSetting(r.Context(), userID, req.Key, req.Enabled); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update notification setting", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{req.Key: req.Enabled})
}

// Job handler

type JobHandler struct {
	jobRepo *repository.JobRepo
}

func NewJobHandler(jobRepo *repository.JobRepo) *JobHandler {
	return &JobHandler{jobRepo: jobRepo}
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		// Try chi URL param
		idStr = chi.URLParam(r, "id")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid job ID", r))
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	if job.UserID != userID {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (h *JobHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid job ID", r))
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	if job.UserID != userID {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	h.jobRepo.UpdateStatus(r.Context(), id, "failed")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Job cancelled"})
}
