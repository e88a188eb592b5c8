package scoring

import "testing"

func TestScoreGrammar_CleanSentence(t *testing.T) {
	result := ScoreGrammar("My research focuses on distributed systems.")

	if result.OverallScore != 100 {
		t.Errorf("Expected overall score 100, got %.2f", result.OverallScore)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", result.Errors)
	}
	if result.SentenceVariety != 1.0 {
		t.Errorf("Expected sentence variety 1.0, got %.2f", result.SentenceVariety)
	}
}

func TestScoreGrammar_EmptyInput(t *testing.T) {
	// No sentences means no detectable errors
	result := ScoreGrammar("")

	if result.OverallScore != 100 {
		t.Errorf("Expected overall score 100, got %.2f", result.OverallScore)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no errors, got %d", len(result.Errors))
	}
}

func TestScoreGrammar_SubjectVerbMismatch(t *testing.T) {
	result := ScoreGrammar("They is working on the project")

	if len(result.Errors) != 1 {
		t.Fatalf("Expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
	if result.Errors[0].ErrorType != "subject_verb_agreement" {
		t.Errorf("Expected error type 'subject_verb_agreement', got %q", result.Errors[0].ErrorType)
	}
	if result.Errors[0].Position != 0 {
		t.Errorf("Expected error in sentence 0, got %d", result.Errors[0].Position)
	}

	// base 100 - (1/1)*30 = 70; variety 0.5 -> bonus 5
	if result.OverallScore != 75 {
		t.Errorf("Expected overall score 75, got %.2f", result.OverallScore)
	}
}

func TestDetectGrammarErrors_Patterns(t *testing.T) {
	tests := []struct {
		name      string
		sentence  string
		errorType string
	}{
		{"he are", "he are late", "subject_verb_agreement"},
		{"we was", "we was there", "subject_verb_agreement"},
		{"double negative", "I don't know nothing", "negation_error"},
		{"a before vowel", "I saw a elephant", "article_error"},
		{"an before consonant", "I need an laptop", "article_error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errors := detectGrammarErrors([]string{tc.sentence})
			if len(errors) == 0 {
				t.Fatalf("Expected an error in %q, got none", tc.sentence)
			}
			if errors[0].ErrorType != tc.errorType {
				t.Errorf("Expected error type %q, got %q", tc.errorType, errors[0].ErrorType)
			}
		})
	}
}

func TestSentenceVariety(t *testing.T) {
	tests := []struct {
		name      string
		sentences []string
		expected  float64
	}{
		{"too few sentences", []string{"one", "two"}, 0.5},
		{"uniform lengths", []string{"a b c", "d e f", "g h i"}, 0.6},
		{"high variance", []string{"one", "one two three four five six seven", "one two"}, 1.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sentenceVariety(tc.sentences); got != tc.expected {
				t.Errorf("Expected variety %.1f, got %.1f", tc.expected, got)
			}
		})
	}
}
