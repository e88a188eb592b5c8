package models

import (
	"time"

	"github.com/google/uuid"
)

// PracticeReport is the summary artifact produced exactly once when a
// session reaches a terminal state. It is 1:1 with its session and
// immutable after creation.
type PracticeReport struct {
	ID                uuid.UUID          `json:"id"`
	SessionID         uuid.UUID          `json:"session_id"`
	UserID            uuid.UUID          `json:"user_id"`
	OverallScore      float64            `json:"overall_score"`
	TurnCount         int                `json:"turn_count"`
	DimensionAverages map[string]float64 `json:"dimension_averages"`
	Suggestions       []string           `json:"suggestions"`
	CreatedAt         time.Time          `json:"created_at"`
}
