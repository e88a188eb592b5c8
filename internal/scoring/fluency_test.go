package scoring

import "testing"

func TestScoreFluency_EmptyInput(t *testing.T) {
	result := ScoreFluency("")

	if result.OverallScore != 0 {
		t.Errorf("Expected overall score 0, got %.2f", result.OverallScore)
	}
	if result.SpeechRate != 0 {
		t.Errorf("Expected speech rate 0, got %.2f", result.SpeechRate)
	}
	if len(result.Pauses) != 0 {
		t.Errorf("Expected no pauses, got %d", len(result.Pauses))
	}
}

func TestScoreFluency_SingleSentence(t *testing.T) {
	result := ScoreFluency("this is a simple test")

	// word_count/duration*60 with duration = word_count*0.5 is always 120
	if result.SpeechRate != 120 {
		t.Errorf("Expected speech rate 120, got %.2f", result.SpeechRate)
	}
	if len(result.Pauses) != 0 {
		t.Errorf("Expected no pauses for a single sentence, got %d", len(result.Pauses))
	}
	if result.OverallScore != 100 {
		t.Errorf("Expected overall score 100, got %.2f", result.OverallScore)
	}
}

func TestScoreFluency_PausesAtSentenceBoundaries(t *testing.T) {
	result := ScoreFluency("One two three. Four five six. Seven eight nine.")

	if len(result.Pauses) != 2 {
		t.Fatalf("Expected 2 pauses, got %d", len(result.Pauses))
	}
	for i, p := range result.Pauses {
		if p.Type != "sentence_boundary" {
			t.Errorf("Pause %d: expected type 'sentence_boundary', got %q", i, p.Type)
		}
		if p.Duration != 0.5 {
			t.Errorf("Pause %d: expected duration 0.5, got %.2f", i, p.Duration)
		}
	}

	// 9 words -> 4.5s duration; 2 pauses / 0.075 min = 26.67 per minute
	if result.PauseFrequency != 26.67 {
		t.Errorf("Expected pause frequency 26.67, got %.2f", result.PauseFrequency)
	}

	// rate score 100, pause score floored at 60 -> 80
	if result.OverallScore != 80 {
		t.Errorf("Expected overall score 80, got %.2f", result.OverallScore)
	}
}

func TestScoreSpeechRate(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		expected float64
	}{
		{"below minimum", 40, 30},
		{"at minimum", 80, 100},
		{"in optimal band", 150, 100},
		{"at maximum", 220, 100},
		{"above maximum", 440, 30},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := scoreSpeechRate(tc.rate); got != tc.expected {
				t.Errorf("Expected %.2f, got %.2f", tc.expected, got)
			}
		})
	}
}

func TestScorePauseFrequency(t *testing.T) {
	tests := []struct {
		name      string
		frequency float64
		expected  float64
	}{
		{"ideal", 2, 100},
		{"midway decay", 3.5, 80},
		{"at max", 5, 60},
		{"beyond max is flat", 10, 60},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := scorePauseFrequency(tc.frequency); got != tc.expected {
				t.Errorf("Expected %.2f, got %.2f", tc.expected, got)
			}
		})
	}
}
