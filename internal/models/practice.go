package models

import (
	"time"

	"github.com/google/uuid"
)

// Practice modes
const (
	ModeGeneral    = "general"
	ModeUniversity = "university"
)

// Session statuses
const (
	SessionOngoing   = "ongoing"
	SessionCompleted = "completed"
	SessionAborted   = "aborted"
)

// Pressure levels (question-asking tone)
const (
	PressureGentle = 1
	PressureNormal = 2
	PressureHigh   = 3
)

type PracticeSession struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Mode          string     `json:"mode"`
	PressureLevel int        `json:"pressure_level"`
	University    *string    `json:"university"`
	Major         *string    `json:"major"`
	Status        string     `json:"status"`
	QuestionCount int        `json:"question_count"`
	MaxQuestions  int        `json:"max_questions"`
	OverallScore  *float64   `json:"overall_score"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsFinished reports whether the session has answered its quota of questions.
func (s *PracticeSession) IsFinished() bool {
	return s.QuestionCount >= s.MaxQuestions
}

type PracticeTurn struct {
	ID                   uuid.UUID  `json:"id"`
	SessionID            uuid.UUID  `json:"session_id"`
	TurnNumber           int        `json:"turn_number"`
	QuestionID           uuid.UUID  `json:"question_id"`
	Question             string     `json:"question"`
	AnswerAudioURL       *string    `json:"answer_audio_url"`
	AnswerText           *string    `json:"answer_text"`
	PronunciationScore   *float64   `json:"pronunciation_score"`
	FluencyScore         *float64   `json:"fluency_score"`
	VocabularyScore      *float64   `json:"vocabulary_score"`
	GrammarScore         *float64   `json:"grammar_score"`
	UniversityMatchScore *float64   `json:"university_match_score"`
	OverallScore         *float64   `json:"overall_score"`
	Feedback             *string    `json:"feedback"`
	FeedbackAudioURL     *string    `json:"feedback_audio_url"`
	FollowUpQuestions    []string   `json:"follow_up_questions"`
	Suggestions          []string   `json:"suggestions"`
	ScoredAt             *time.Time `json:"scored_at"`
	CreatedAt            time.Time  `json:"created_at"`
}

// IsScored reports whether the turn's answer has already been evaluated.
// A turn is scored at most once.
func (t *PracticeTurn) IsScored() bool {
	return t.OverallScore != nil
}

type CreateSessionRequest struct {
	Mode          string  `json:"mode"`
	PressureLevel int     `json:"pressure_level"`
	University    *string `json:"university"`
	Major         *string `json:"major"`
	MaxQuestions  int     `json:"max_questions"`
}

type SubmitAnswerRequest struct {
	TurnID   string `json:"turn_id"`
	AudioURL string `json:"audio_url"`
	Text     string `json:"text"`
}
