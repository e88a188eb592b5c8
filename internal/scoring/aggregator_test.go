package scoring

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func strptr(s string) *string { return &s }

func TestSelectWeights_AlwaysSumToOne(t *testing.T) {
	tests := []struct {
		name       string
		university *string
		major      *string
	}{
		{"neither", nil, nil},
		{"university only", strptr("Xidian University"), nil},
		{"major only", nil, strptr("Computer Science")},
		{"empty strings", strptr(""), strptr("")},
		{"both", strptr("Xidian University"), strptr("Computer Science")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := SelectWeights(tc.university, tc.major)
			if math.Abs(w.Sum()-1.0) > 1e-9 {
				t.Errorf("Expected weights summing to 1.0, got %v", w.Sum())
			}
			if err := w.Validate(); err != nil {
				t.Errorf("Expected valid weights, got %v", err)
			}
		})
	}
}

func TestSelectWeights_FiveWayWhenTargeted(t *testing.T) {
	w := SelectWeights(strptr("Xidian University"), strptr("Computer Science"))

	if w.UniversityMatch != 0.2 {
		t.Errorf("Expected university_match weight 0.2, got %v", w.UniversityMatch)
	}
	if w.Pronunciation != 0.2 || w.Fluency != 0.2 || w.Vocabulary != 0.2 || w.Grammar != 0.2 {
		t.Errorf("Expected 0.2 for all dimensions, got %+v", w)
	}
}

func TestSelectWeights_FourWayOtherwise(t *testing.T) {
	w := SelectWeights(nil, nil)

	if w.UniversityMatch != 0 {
		t.Errorf("Expected university_match weight 0, got %v", w.UniversityMatch)
	}
	if w.Pronunciation != 0.25 {
		t.Errorf("Expected pronunciation weight 0.25, got %v", w.Pronunciation)
	}
}

func TestEvaluate_EmptyAnswer(t *testing.T) {
	agg := NewAggregator()

	result, err := agg.Evaluate("Introduce yourself.", "", "", nil, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if result.Dimensions.Pronunciation.OverallScore != 0 {
		t.Errorf("Expected pronunciation 0, got %.2f", result.Dimensions.Pronunciation.OverallScore)
	}
	if result.Dimensions.Fluency.OverallScore != 0 {
		t.Errorf("Expected fluency 0, got %.2f", result.Dimensions.Fluency.OverallScore)
	}
	if result.Dimensions.Vocabulary.OverallScore != 0 {
		t.Errorf("Expected vocabulary 0, got %.2f", result.Dimensions.Vocabulary.OverallScore)
	}
	if result.Dimensions.Grammar.OverallScore != 100 {
		t.Errorf("Expected grammar 100 (no sentences, no errors), got %.2f", result.Dimensions.Grammar.OverallScore)
	}
	if result.Dimensions.UniversityMatch != nil {
		t.Error("Expected no university_match dimension without a target")
	}

	// 0.25 * 100 from grammar alone
	if result.OverallScore != 25 {
		t.Errorf("Expected overall score 25, got %.2f", result.OverallScore)
	}
}

func TestEvaluate_WithUniversityTarget(t *testing.T) {
	agg := NewAggregator()

	result, err := agg.Evaluate(
		"Why this major?",
		"I studied computer programming and developed software for data analysis.",
		"audio/answer-1.wav",
		strptr("Xi'an Jiaotong University"),
		strptr("Computer Science"),
	)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if result.Dimensions.UniversityMatch == nil {
		t.Fatal("Expected university_match dimension to be present")
	}
	if result.OverallScore < 0 || result.OverallScore > 100 {
		t.Errorf("Expected overall score in [0,100], got %.2f", result.OverallScore)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	agg := NewAggregator()

	first, err := agg.Evaluate("Q", "My answer is about robotics and machine learning.", "a.wav",
		strptr("Xi'an Jiaotong University"), strptr("Computer Science"))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	second, err := agg.Evaluate("Q", "My answer is about robotics and machine learning.", "a.wav",
		strptr("Xi'an Jiaotong University"), strptr("Computer Science"))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical results for identical inputs")
	}
}

func TestEvaluate_ScoreBounds(t *testing.T) {
	agg := NewAggregator()

	inputs := []string{
		"",
		"short",
		"They is coming. He are late. I don't know nothing.",
		"I am deeply motivated to analyze and evaluate comprehensive theoretical questions. My empirical methodology is quantitative. Furthermore I implement sophisticated software.",
	}

	for _, answer := range inputs {
		result, err := agg.Evaluate("Q", answer, "", nil, nil)
		if err != nil {
			t.Fatalf("Evaluate failed for %q: %v", answer, err)
		}
		if result.OverallScore < 0 || result.OverallScore > 100 {
			t.Errorf("Answer %q: overall score %.2f out of [0,100]", answer, result.OverallScore)
		}
	}
}

func TestEvaluate_SuggestionsAndFeedback(t *testing.T) {
	agg := NewAggregator()

	result, err := agg.Evaluate("Q", "", "", nil, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if len(result.Suggestions) == 0 {
		t.Error("Expected suggestions for a weak answer")
	}
	if result.Feedback == "" {
		t.Error("Expected non-empty feedback")
	}
}

func TestFeedbackBuckets(t *testing.T) {
	tests := []struct {
		score    float64
		contains string
	}{
		{95, "Excellent"},
		{85, "Good answer"},
		{75, "Decent"},
		{65, "needs more practice"},
		{30, "significant improvement"},
	}

	for _, tc := range tests {
		fb := feedbackFor(tc.score)
		if !strings.Contains(fb, tc.contains) {
			t.Errorf("Score %.0f: expected feedback containing %q, got %q", tc.score, tc.contains, fb)
		}
	}
}
