package model

import (
	"fmt"
	"math"
	"sort"
)

// MaxSuggestions caps every ranked suggestion list shown to users.
const MaxSuggestions = 3

// Suggestion is a ranked category option for a note.
// Confidence is a display percentage, not a calibrated probability.
type Suggestion struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Validate ensures the Suggestion has usable data.
func (s Suggestion) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("category name is required")
	}
	if math.IsNaN(s.Confidence) || math.IsInf(s.Confidence, 0) {
		return fmt.Errorf("confidence must be a finite number, got %v", s.Confidence)
	}
	return nil
}

// Suggestions is an ordered list of Suggestion values.
type Suggestions []Suggestion

// Sort orders suggestions by confidence, highest first. Equal
// confidences keep their original relative order.
func (s Suggestions) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Confidence > s[j].Confidence
	})
}

// Top returns the highest-confidence suggestion, or nil if empty.
func (s Suggestions) Top() *Suggestion {
	if len(s) == 0 {
		return nil
	}
	s.Sort()
	return &s[0]
}

// TopN returns a copy of the n highest-confidence suggestions.
func (s Suggestions) TopN(n int) Suggestions {
	if n <= 0 {
		return Suggestions{}
	}

	s.Sort()

	if n > len(s) {
		n = len(s)
	}

	result := make(Suggestions, n)
	copy(result, s[:n])
	return result
}

// Names returns the suggestion names in order.
func (s Suggestions) Names() []string {
	names := make([]string, len(s))
	for i, sug := range s {
		names[i] = sug.Name
	}
	return names
}

// RoundConfidence converts a raw score to a one-decimal percentage.
func RoundConfidence(score float64) float64 {
	return math.Round(score*100*10) / 10
}
