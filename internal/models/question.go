package models

import (
	"time"

	"github.com/google/uuid"
)

// Question types
const (
	QuestionGeneral    = "general"
	QuestionUniversity = "university"
	QuestionMajor      = "major"
)

type Question struct {
	ID              uuid.UUID `json:"id"`
	Type            string    `json:"type"`
	University      *string   `json:"university"`
	College         *string   `json:"college"`
	Major           *string   `json:"major"`
	Category        string    `json:"category"`
	Difficulty      int       `json:"difficulty"`
	Content         string    `json:"content"`
	ReferenceAnswer *string   `json:"reference_answer"`
	Tags            []string  `json:"tags"`
	Keywords        []string  `json:"keywords"`
	UsageCount      int       `json:"usage_count"`
	AvgScore        *float64  `json:"avg_score"`
	IsActive        bool      `json:"is_active"`
	IsPremium       bool      `json:"is_premium"`
	CreatedAt       time.Time `json:"created_at"`
}

type QuestionRecommendation struct {
	Question   *Question `json:"question"`
	MatchScore float64   `json:"match_score"`
	Reason     string    `json:"reason"`
}

type ListQuestionsFilter struct {
	Type       string
	University string
	Major      string
	Category   string
	Difficulty int
	Page       int
	PageSize   int
}
