package practice

import (
	"time"

	"github.com/google/uuid"

	"empenglish-backend/internal/models"
	"empenglish-backend/internal/scoring"
)

// GenerateReport folds the finalized turns of a session into its
// summary artifact: the arithmetic mean of composite scores, averages
// per dimension, and every turn suggestion flattened in order. Unscored
// turns are ignored.
func GenerateReport(session *models.PracticeSession, turns []*models.PracticeTurn) *models.PracticeReport {
	report := &models.PracticeReport{
		ID:                uuid.New(),
		SessionID:         session.ID,
		UserID:            session.UserID,
		DimensionAverages: map[string]float64{},
		Suggestions:       []string{},
		CreatedAt:         time.Now().UTC(),
	}

	sums := map[string]float64{}
	counts := map[string]int{}
	total := 0.0

	for _, turn := range turns {
		if !turn.IsScored() {
			continue
		}
		report.TurnCount++
		total += *turn.OverallScore
		report.Suggestions = append(report.Suggestions, turn.Suggestions...)

		accumulate(sums, counts, scoring.DimPronunciation, turn.PronunciationScore)
		accumulate(sums, counts, scoring.DimFluency, turn.FluencyScore)
		accumulate(sums, counts, scoring.DimVocabulary, turn.VocabularyScore)
		accumulate(sums, counts, scoring.DimGrammar, turn.GrammarScore)
		accumulate(sums, counts, scoring.DimUniversityMatch, turn.UniversityMatchScore)
	}

	if report.TurnCount > 0 {
		report.OverallScore = total / float64(report.TurnCount)
	}
	for dim, sum := range sums {
		report.DimensionAverages[dim] = sum / float64(counts[dim])
	}

	return report
}

func accumulate(sums map[string]float64, counts map[string]int, dim string, score *float64) {
	if score == nil {
		return
	}
	sums[dim] += *score
	counts[dim]++
}
