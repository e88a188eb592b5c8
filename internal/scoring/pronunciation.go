package scoring

import "strings"

type WordScore struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

type PronunciationResult struct {
	OverallScore float64     `json:"overall_score"`
	WordScores   []WordScore `json:"word_scores"`
}

// GOPScorer approximates a Goodness-of-Pronunciation score from the
// transcript alone: longer words are assumed harder and score higher
// under the proxy formula min(100, 70 + 2*len). Only the first ten
// words are considered.
type GOPScorer struct{}

const maxScoredWords = 10

func (GOPScorer) Score(audioURL, text string) PronunciationResult {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return PronunciationResult{OverallScore: 0, WordScores: []WordScore{}}
	}

	if len(words) > maxScoredWords {
		words = words[:maxScoredWords]
	}

	scores := make([]WordScore, 0, len(words))
	total := 0.0
	for _, w := range words {
		s := 70 + 2*float64(len(w))
		if s > 100 {
			s = 100
		}
		scores = append(scores, WordScore{Word: w, Score: s})
		total += s
	}

	return PronunciationResult{
		OverallScore: round2(total / float64(len(scores))),
		WordScores:   scores,
	}
}
