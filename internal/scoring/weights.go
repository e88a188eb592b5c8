package scoring

import (
	"fmt"
	"math"
)

// Weights is an immutable per-dimension weight table. A fresh value is
// derived for every evaluation from the session's target university and
// major; it is never stored on the aggregator, so concurrent sessions
// with different modes cannot race on a shared table.
type Weights struct {
	Pronunciation   float64
	Fluency         float64
	Vocabulary      float64
	Grammar         float64
	UniversityMatch float64
}

// SelectWeights picks the canonical weight table: five-way equal when
// both a target university and major are present, otherwise four-way
// equal across the language dimensions.
func SelectWeights(university, major *string) Weights {
	if hasValue(university) && hasValue(major) {
		return Weights{
			Pronunciation:   0.2,
			Fluency:         0.2,
			Vocabulary:      0.2,
			Grammar:         0.2,
			UniversityMatch: 0.2,
		}
	}
	return Weights{
		Pronunciation: 0.25,
		Fluency:       0.25,
		Vocabulary:    0.25,
		Grammar:       0.25,
	}
}

func (w Weights) Sum() float64 {
	return w.Pronunciation + w.Fluency + w.Vocabulary + w.Grammar + w.UniversityMatch
}

// Validate rejects any weight table whose entries do not sum to 1. A
// failure here is an internal invariant violation and must surface to
// the caller rather than being silently corrected.
func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1.0) > 1e-9 {
		return fmt.Errorf("scoring: weights sum to %v, expected 1.0", w.Sum())
	}
	return nil
}

func hasValue(s *string) bool {
	return s != nil && *s != ""
}
