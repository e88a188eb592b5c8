package scoring

import (
	"regexp"
	"strings"
)

type GrammarError struct {
	ErrorType string `json:"error_type"`
	Position  int    `json:"position"`
	ErrorText string `json:"error_text"`
}

type GrammarResult struct {
	OverallScore    float64        `json:"overall_score"`
	Errors          []GrammarError `json:"errors"`
	SentenceVariety float64        `json:"sentence_variety"`
}

type grammarPattern struct {
	re        *regexp.Regexp
	errorType string
}

var grammarPatterns = []grammarPattern{
	{regexp.MustCompile(`(?i)\b(he|she|it)\s+(are|were)\b`), "subject_verb_agreement"},
	{regexp.MustCompile(`(?i)\b(they|we|you)\s+(is|was)\b`), "subject_verb_agreement"},
	{regexp.MustCompile(`(?i)\b(don't|doesn't|didn't|can't|won't)\s+(?:\w+\s+)?(no|nothing|nobody|never)\b`), "negation_error"},
	{regexp.MustCompile(`(?i)\ba\s+[aeiou][a-z]*\b`), "article_error"},
	{regexp.MustCompile(`(?i)\ban\s+[b-df-hj-np-tv-z][a-z]*\b`), "article_error"},
}

// ScoreGrammar scans each sentence against a fixed set of error patterns
// and deducts per error relative to sentence count, with a small bonus
// for sentence-length variety. An answer with no detected errors scores
// a clean 100.
func ScoreGrammar(text string) GrammarResult {
	sentences := splitSentences(text)
	errors := detectGrammarErrors(sentences)

	if len(errors) == 0 {
		return GrammarResult{OverallScore: 100, Errors: []GrammarError{}, SentenceVariety: 1.0}
	}

	variety := sentenceVariety(sentences)

	sentenceCount := len(sentences)
	if sentenceCount == 0 {
		sentenceCount = 1
	}

	base := 100 - float64(len(errors))/float64(sentenceCount)*30
	if base < 0 {
		base = 0
	}
	varietyBonus := variety * 10
	if varietyBonus > 10 {
		varietyBonus = 10
	}

	return GrammarResult{
		OverallScore:    round2(clamp(base+varietyBonus, 0, 100)),
		Errors:          errors,
		SentenceVariety: variety,
	}
}

func detectGrammarErrors(sentences []string) []GrammarError {
	errors := []GrammarError{}
	for idx, sentence := range sentences {
		for _, p := range grammarPatterns {
			for _, match := range p.re.FindAllString(sentence, -1) {
				errors = append(errors, GrammarError{
					ErrorType: p.errorType,
					Position:  idx,
					ErrorText: match,
				})
			}
		}
	}
	return errors
}

// sentenceVariety buckets the variance of sentence word-lengths. Fewer
// than three sentences is too little signal to judge.
func sentenceVariety(sentences []string) float64 {
	if len(sentences) < 3 {
		return 0.5
	}

	lengths := make([]float64, len(sentences))
	total := 0.0
	for i, s := range sentences {
		lengths[i] = float64(len(strings.Fields(s)))
		total += lengths[i]
	}
	mean := total / float64(len(lengths))

	variance := 0.0
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(lengths))

	switch {
	case variance > 5:
		return 1.0
	case variance > 2:
		return 0.8
	default:
		return 0.6
	}
}
