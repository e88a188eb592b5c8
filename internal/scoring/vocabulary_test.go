package scoring

import "testing"

func TestScoreVocabulary_EmptyInput(t *testing.T) {
	result := ScoreVocabulary("")

	if result.OverallScore != 0 {
		t.Errorf("Expected overall score 0, got %.2f", result.OverallScore)
	}
	if result.WordCount != 0 {
		t.Errorf("Expected word count 0, got %d", result.WordCount)
	}
}

func TestScoreVocabulary_ShortAnswerBase(t *testing.T) {
	// 3 words, no diversity credit, no advanced words
	result := ScoreVocabulary("hi to it")

	if result.OverallScore != 30 {
		t.Errorf("Expected overall score 30, got %.2f", result.OverallScore)
	}
	if result.Diversity != 0 {
		t.Errorf("Expected no diversity credit for short answers, got %.2f", result.Diversity)
	}
}

func TestScoreVocabulary_DiversityBonus(t *testing.T) {
	// 15 distinct words: base 60 + full diversity bonus 20
	text := "students discuss various topics during seminars while professors provide detailed guidance about research methods today"
	result := ScoreVocabulary(text)

	if result.WordCount != 15 {
		t.Fatalf("Expected word count 15, got %d", result.WordCount)
	}
	if result.Diversity != 100 {
		t.Errorf("Expected diversity 100, got %.2f", result.Diversity)
	}
	if result.OverallScore != 80 {
		t.Errorf("Expected overall score 80, got %.2f", result.OverallScore)
	}
}

func TestScoreVocabulary_AdvancedWords(t *testing.T) {
	result := ScoreVocabulary("we analyze the hypothesis carefully")

	if len(result.AdvancedWords) != 2 {
		t.Fatalf("Expected 2 advanced words, got %d (%v)", len(result.AdvancedWords), result.AdvancedWords)
	}
	// base 30 + advanced bonus 4
	if result.OverallScore != 34 {
		t.Errorf("Expected overall score 34, got %.2f", result.OverallScore)
	}
}

func TestExtractWords_DropsSingleLetters(t *testing.T) {
	words := extractWords("I am a student, 100%")

	for _, w := range words {
		if len(w) <= 1 {
			t.Errorf("Expected single-letter tokens to be dropped, found %q", w)
		}
	}
	if len(words) != 2 {
		t.Errorf("Expected 2 words (am, student), got %d: %v", len(words), words)
	}
}
