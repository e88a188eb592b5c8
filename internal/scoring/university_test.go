package scoring

import "testing"

func TestScoreUniversityMatch_EmptyAnswer(t *testing.T) {
	result := ScoreUniversityMatch("", "Xi'an Jiaotong University", "Computer Science")

	if result.OverallScore != 0 {
		t.Errorf("Expected overall score 0, got %.2f", result.OverallScore)
	}
	if result.Relevance != "none" {
		t.Errorf("Expected relevance 'none', got %q", result.Relevance)
	}
}

func TestScoreUniversityMatch_DomainAndMajor(t *testing.T) {
	// All three tokens hit the domain set; only "computer" hits a major keyword
	result := ScoreUniversityMatch("computer engineering materials", "Xi'an Jiaotong University", "Computer Science")

	if result.DomainMatchScore != 100 {
		t.Errorf("Expected domain match 100, got %.2f", result.DomainMatchScore)
	}
	if result.MajorMatchScore < 33 || result.MajorMatchScore > 34 {
		t.Errorf("Expected major match near 33.33, got %.2f", result.MajorMatchScore)
	}
	if result.OverallScore != 66.67 {
		t.Errorf("Expected overall score 66.67, got %.2f", result.OverallScore)
	}
	if result.Relevance != "low" {
		t.Errorf("Expected relevance 'low', got %q", result.Relevance)
	}
}

func TestScoreUniversityMatch_SubstringMajorMatch(t *testing.T) {
	// "programming" contains the keyword "programming"; "algorithms" contains "algorithm"
	result := ScoreUniversityMatch("programming algorithms", "Xi'an Jiaotong University", "Computer Science")

	if result.MajorMatchScore != 100 {
		t.Errorf("Expected major match 100 via substring matching, got %.2f", result.MajorMatchScore)
	}
}

func TestScoreUniversityMatch_UnknownUniversity(t *testing.T) {
	result := ScoreUniversityMatch("computer science research", "Unknown University", "Computer Science")

	if result.DomainMatchScore != 0 {
		t.Errorf("Expected domain match 0 for unknown university, got %.2f", result.DomainMatchScore)
	}
}

func TestRelevanceTier(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{90, "high"},
		{85, "high"},
		{75, "medium"},
		{55, "low"},
		{20, "none"},
	}

	for _, tc := range tests {
		if got := relevanceTier(tc.score); got != tc.expected {
			t.Errorf("Score %.0f: expected %q, got %q", tc.score, tc.expected, got)
		}
	}
}

func TestMatchSuggestions_Buckets(t *testing.T) {
	low := matchSuggestions(40, "Xidian University", "Electronic Engineering")
	mid := matchSuggestions(70, "Xidian University", "Electronic Engineering")
	high := matchSuggestions(90, "Xidian University", "Electronic Engineering")

	if len(low) != 1 || len(mid) != 1 || len(high) != 1 {
		t.Fatal("Expected exactly one suggestion per bucket")
	}
	if low[0] == mid[0] || mid[0] == high[0] {
		t.Error("Expected distinct suggestion text per score bucket")
	}
}
