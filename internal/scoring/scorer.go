package scoring

import "math"

// Dimension tags used in score payloads and weight tables.
const (
	DimPronunciation   = "pronunciation"
	DimFluency         = "fluency"
	DimVocabulary      = "vocabulary"
	DimGrammar         = "grammar"
	DimUniversityMatch = "university_match"
)

// PronunciationScorer maps an audio reference and its transcript to a
// pronunciation score. The default implementation is a lexical proxy;
// a real phonetic backend can be substituted without touching the
// aggregator.
type PronunciationScorer interface {
	Score(audioURL, text string) PronunciationResult
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
