package question

import "empenglish-backend/internal/models"

// MatchScore rates how well a candidate question fits the user's target
// university and major, capped at 1.0. Partial credit is given for
// having any university/major tag at all, full credit for an exact
// match.
func MatchScore(q *models.Question, university, major *string) float64 {
	score := 0.0

	if q.University != nil && university != nil && *university != "" {
		if *q.University == *university {
			score += 0.5
		} else {
			score += 0.1
		}
	}

	if q.Major != nil && major != nil && *major != "" {
		if *q.Major == *major {
			score += 0.4
		} else {
			score += 0.1
		}
	}

	if q.Type == models.QuestionUniversity {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// RecommendationReason buckets a match score into display text.
func RecommendationReason(score float64) string {
	switch {
	case score >= 0.9:
		return "Highly relevant to your target university and major"
	case score >= 0.7:
		return "Relevant to your target major"
	case score >= 0.5:
		return "Suited to your current level"
	default:
		return "General practice question"
	}
}
