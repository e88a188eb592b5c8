package scoring

import "testing"

func TestGOPScorer(t *testing.T) {
	scorer := GOPScorer{}

	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{"empty input", "", 0},
		{"two five-letter words", "hello world", 80},
		{"long word", "extraordinary", 96},
		{"caps at 100", "internationalization", 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := scorer.Score("", tc.text)
			if result.OverallScore != tc.expected {
				t.Errorf("Expected overall score %.2f, got %.2f", tc.expected, result.OverallScore)
			}
		})
	}
}

func TestGOPScorer_FirstTenWordsOnly(t *testing.T) {
	scorer := GOPScorer{}

	// 12 words; only the first 10 should be scored
	text := "one two three four five six seven eight nine ten eleven twelve"
	result := scorer.Score("", text)

	if len(result.WordScores) != 10 {
		t.Fatalf("Expected 10 word scores, got %d", len(result.WordScores))
	}
	if result.WordScores[0].Word != "one" {
		t.Errorf("Expected first word 'one', got %q", result.WordScores[0].Word)
	}
}

func TestGOPScorer_WordFormula(t *testing.T) {
	scorer := GOPScorer{}

	result := scorer.Score("", "go")
	if len(result.WordScores) != 1 {
		t.Fatalf("Expected 1 word score, got %d", len(result.WordScores))
	}
	// min(100, 70 + 2*2)
	if result.WordScores[0].Score != 74 {
		t.Errorf("Expected word score 74, got %.2f", result.WordScores[0].Score)
	}
}
