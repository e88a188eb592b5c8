package scoring

import "strings"

type Pause struct {
	Position int     `json:"position"`
	Duration float64 `json:"duration"`
	Type     string  `json:"type"`
}

type FluencyResult struct {
	OverallScore    float64 `json:"overall_score"`
	SpeechRate      float64 `json:"speech_rate"`
	AvgSpeechLength float64 `json:"avg_speech_length"`
	PauseFrequency  float64 `json:"pause_frequency"`
	Pauses          []Pause `json:"pauses"`
}

const (
	minSpeechRate = 80.0
	maxSpeechRate = 220.0

	idealPauseFrequency = 2.0
	maxPauseFrequency   = 5.0

	// Development placeholder: spoken duration is estimated from the
	// word count until real audio analysis is wired in.
	secondsPerWord = 0.5

	pauseDuration = 0.5
)

// ScoreFluency derives speech rate and pause metrics from the transcript
// and combines them into a 0-100 score. Pauses are inferred at sentence
// boundaries only.
func ScoreFluency(text string) FluencyResult {
	words := strings.Fields(text)
	wordCount := len(words)

	if wordCount == 0 {
		return FluencyResult{Pauses: []Pause{}}
	}

	duration := float64(wordCount) * secondsPerWord
	speechRate := round2(float64(wordCount) / duration * 60)

	sentences := splitSentences(text)
	pauses := detectPauses(sentences)
	pauseFrequency := round2(float64(len(pauses)) / (duration / 60))

	avgSpeechLength := 0.0
	if len(sentences) > 0 {
		total := 0
		for _, s := range sentences {
			total += len(strings.Fields(s))
		}
		avgSpeechLength = round2(float64(total) / float64(len(sentences)))
	}

	rateScore := scoreSpeechRate(speechRate)
	pauseScore := scorePauseFrequency(pauseFrequency)
	overall := clamp(rateScore*0.5+pauseScore*0.5, 0, 100)

	return FluencyResult{
		OverallScore:    round2(overall),
		SpeechRate:      speechRate,
		AvgSpeechLength: avgSpeechLength,
		PauseFrequency:  pauseFrequency,
		Pauses:          pauses,
	}
}

func splitSentences(text string) []string {
	parts := strings.Split(text, ".")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// detectPauses places one fixed-length pause at every sentence boundary.
func detectPauses(sentences []string) []Pause {
	pauses := []Pause{}
	for i := 0; i < len(sentences)-1; i++ {
		pauses = append(pauses, Pause{Position: i, Duration: pauseDuration, Type: "sentence_boundary"})
	}
	return pauses
}

func scoreSpeechRate(rate float64) float64 {
	switch {
	case rate < minSpeechRate:
		return (rate / minSpeechRate) * 60
	case rate > maxSpeechRate:
		return (maxSpeechRate / rate) * 60
	default:
		return 100
	}
}

func scorePauseFrequency(frequency float64) float64 {
	switch {
	case frequency <= idealPauseFrequency:
		return 100
	case frequency <= maxPauseFrequency:
		return 100 - ((frequency-idealPauseFrequency)/(maxPauseFrequency-idealPauseFrequency))*40
	default:
		return 60
	}
}
