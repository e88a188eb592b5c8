package scoring

// Dimensions holds the per-dimension results of one evaluation.
// UniversityMatch is present only when the session targets both a
// university and a major.
type Dimensions struct {
	Pronunciation   PronunciationResult    `json:"pronunciation"`
	Fluency         FluencyResult          `json:"fluency"`
	Vocabulary      VocabularyResult       `json:"vocabulary"`
	Grammar         GrammarResult          `json:"grammar"`
	UniversityMatch *UniversityMatchResult `json:"university_match,omitempty"`
}

type CompositeResult struct {
	OverallScore float64    `json:"overall_score"`
	Dimensions   Dimensions `json:"dimensions"`
	Feedback     string     `json:"feedback"`
	Suggestions  []string   `json:"suggestions"`
}

// Aggregator runs the dimension scorers and folds their results into a
// single weighted composite. It is stateless apart from the pluggable
// pronunciation backend, so one instance serves concurrent sessions.
type Aggregator struct {
	pronunciation PronunciationScorer
}

func NewAggregator() *Aggregator {
	return &Aggregator{pronunciation: GOPScorer{}}
}

// NewAggregatorWithPronunciation substitutes the pronunciation backend,
// e.g. a real acoustic model.
func NewAggregatorWithPronunciation(p PronunciationScorer) *Aggregator {
	return &Aggregator{pronunciation: p}
}

// Evaluate scores an answer across all applicable dimensions and
// combines them under the weight table selected for this call. It is a
// total function over text input: degenerate answers score zero rather
// than failing.
func (a *Aggregator) Evaluate(question, answer, audioURL string, university, major *string) (*CompositeResult, error) {
	dims := Dimensions{
		Pronunciation: a.pronunciation.Score(audioURL, answer),
		Fluency:       ScoreFluency(answer),
		Vocabulary:    ScoreVocabulary(answer),
		Grammar:       ScoreGrammar(answer),
	}

	if hasValue(university) && hasValue(major) {
		um := ScoreUniversityMatch(answer, *university, *major)
		dims.UniversityMatch = &um
	}

	weights := SelectWeights(university, major)
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	overall := dims.Pronunciation.OverallScore*weights.Pronunciation +
		dims.Fluency.OverallScore*weights.Fluency +
		dims.Vocabulary.OverallScore*weights.Vocabulary +
		dims.Grammar.OverallScore*weights.Grammar
	if dims.UniversityMatch != nil {
		overall += dims.UniversityMatch.OverallScore * weights.UniversityMatch
	}
	overall = round2(clamp(overall, 0, 100))

	return &CompositeResult{
		OverallScore: overall,
		Dimensions:   dims,
		Feedback:     feedbackFor(overall),
		Suggestions:  suggestionsFor(dims),
	}, nil
}

const suggestionThreshold = 80

func suggestionsFor(dims Dimensions) []string {
	suggestions := []string{}

	if dims.Pronunciation.OverallScore < suggestionThreshold {
		suggestions = append(suggestions, "Practice your pronunciation, especially on difficult sounds")
	}

	if dims.Fluency.OverallScore < suggestionThreshold {
		if dims.Fluency.PauseFrequency > 2 {
			suggestions = append(suggestions, "Try to reduce pause frequency by practicing more")
		}
		if dims.Fluency.SpeechRate < 120 {
			suggestions = append(suggestions, "Work on increasing your speaking rate slightly")
		}
	}

	if dims.Vocabulary.OverallScore < suggestionThreshold {
		if dims.Vocabulary.Diversity < 50 {
			suggestions = append(suggestions, "Use more varied vocabulary to improve your expression")
		}
		if len(dims.Vocabulary.AdvancedWords) < 2 {
			suggestions = append(suggestions, "Try to incorporate more advanced vocabulary")
		}
	}

	if dims.Grammar.OverallScore < suggestionThreshold {
		suggestions = append(suggestions, "Review grammar rules to improve accuracy")
	}

	if dims.UniversityMatch != nil && dims.UniversityMatch.OverallScore < suggestionThreshold {
		suggestions = append(suggestions, dims.UniversityMatch.Suggestions...)
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Keep practicing to maintain your good performance!")
	}

	return suggestions
}

func feedbackFor(overall float64) string {
	switch {
	case overall >= 90:
		return "Excellent! Your answer is well-structured and clearly articulated."
	case overall >= 80:
		return "Good answer! Your pronunciation and grammar are solid."
	case overall >= 70:
		return "Decent answer. There are some areas for improvement."
	case overall >= 60:
		return "Your answer shows understanding, but needs more practice."
	default:
		return "Your answer needs significant improvement. Keep practicing!"
	}
}
