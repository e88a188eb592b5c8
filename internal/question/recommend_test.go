package question

import (
	"testing"

	"empenglish-backend/internal/models"
)

func strptr(s string) *string { return &s }

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name       string
		q          *models.Question
		university *string
		major      *string
		expected   float64
	}{
		{
			"exact university and major, university-type question",
			&models.Question{Type: models.QuestionUniversity, University: strptr("Xidian University"), Major: strptr("Computer Science")},
			strptr("Xidian University"), strptr("Computer Science"),
			1.0,
		},
		{
			"exact university, different major",
			&models.Question{Type: models.QuestionGeneral, University: strptr("Xidian University"), Major: strptr("Materials Science")},
			strptr("Xidian University"), strptr("Computer Science"),
			0.6,
		},
		{
			"untagged question",
			&models.Question{Type: models.QuestionGeneral},
			strptr("Xidian University"), strptr("Computer Science"),
			0.0,
		},
		{
			"no target set",
			&models.Question{Type: models.QuestionGeneral, University: strptr("Xidian University"), Major: strptr("Computer Science")},
			nil, nil,
			0.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MatchScore(tc.q, tc.university, tc.major)
			if got != tc.expected {
				t.Errorf("Expected %.1f, got %.1f", tc.expected, got)
			}
		})
	}
}

func TestMatchScore_Capped(t *testing.T) {
	q := &models.Question{
		Type:       models.QuestionUniversity,
		University: strptr("Xidian University"),
		Major:      strptr("Computer Science"),
	}
	// 0.5 + 0.4 + 0.1 hits the cap exactly; the result must never exceed it
	if got := MatchScore(q, strptr("Xidian University"), strptr("Computer Science")); got > 1.0 {
		t.Errorf("Expected match score capped at 1.0, got %.2f", got)
	}
}

func TestRecommendationReason_Buckets(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{1.0, "Highly relevant to your target university and major"},
		{0.7, "Relevant to your target major"},
		{0.5, "Suited to your current level"},
		{0.1, "General practice question"},
	}

	for _, tc := range tests {
		if got := RecommendationReason(tc.score); got != tc.expected {
			t.Errorf("Score %.1f: expected %q, got %q", tc.score, tc.expected, got)
		}
	}
}
