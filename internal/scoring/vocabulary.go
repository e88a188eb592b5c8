package scoring

import (
	"regexp"
	"strings"
)

type VocabularyResult struct {
	OverallScore  float64  `json:"overall_score"`
	Diversity     float64  `json:"diversity"`
	AdvancedWords []string `json:"advanced_words"`
	WordCount     int      `json:"word_count"`
}

var wordPattern = regexp.MustCompile(`[a-zA-Z]+`)

var advancedLexicon = map[string]bool{
	"analyze":       true,
	"evaluate":      true,
	"implement":     true,
	"comprehensive": true,
	"sophisticated": true,
	"perspective":   true,
	"consequently":  true,
	"furthermore":   true,
	"nevertheless":  true,
}

var academicLexicon = map[string]bool{
	"hypothesis":   true,
	"methodology":  true,
	"theoretical":  true,
	"empirical":    true,
	"quantitative": true,
	"qualitative":  true,
	"subsequently": true,
}

// ScoreVocabulary rates lexical range: a word-count base score plus
// bonuses for type/token diversity and advanced or academic vocabulary.
func ScoreVocabulary(text string) VocabularyResult {
	words := extractWords(text)
	if len(words) == 0 {
		return VocabularyResult{AdvancedWords: []string{}}
	}

	wordCount := len(words)
	diversity := diversityOf(words)
	advanced := advancedWordsIn(words)

	var base float64
	switch {
	case wordCount < 10:
		base = 30
	case wordCount < 30:
		base = 60
	default:
		base = 80
	}

	diversityBonus := diversity * 0.2
	if diversityBonus > 20 {
		diversityBonus = 20
	}
	advancedBonus := float64(len(advanced)) * 2
	if advancedBonus > 20 {
		advancedBonus = 20
	}

	return VocabularyResult{
		OverallScore:  round2(clamp(base+diversityBonus+advancedBonus, 0, 100)),
		Diversity:     round2(diversity),
		AdvancedWords: advanced,
		WordCount:     wordCount,
	}
}

// extractWords keeps lowercased alphabetic tokens longer than one letter.
func extractWords(text string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if len(w) > 1 {
			words = append(words, w)
		}
	}
	return words
}

// diversityOf is the unique/total ratio as a percentage. Short answers
// (ten words or fewer) get no diversity credit.
func diversityOf(words []string) float64 {
	if len(words) <= 10 {
		return 0
	}
	unique := make(map[string]bool, len(words))
	for _, w := range words {
		unique[w] = true
	}
	return float64(len(unique)) / float64(len(words)) * 100
}

func advancedWordsIn(words []string) []string {
	found := []string{}
	for _, w := range words {
		if advancedLexicon[w] || academicLexicon[w] {
			found = append(found, w)
		}
	}
	return found
}
