package classification

import (
	"strings"

	"github.com/Veraticus/spendwise/internal/model"
)

// Score weights.
const (
	substringWeight = 1.0
	tokenWeight     = 0.5
)

// Scorer ranks category names against cleaned note text using a KeywordTable.
// It is safe for concurrent use.
type Scorer struct {
	table *KeywordTable
}

// NewScorer creates a scorer over table.
func NewScorer(table *KeywordTable) *Scorer {
	return &Scorer{table: table}
}

// Table returns the keyword table the scorer was built with.
func (s *Scorer) Table() *KeywordTable {
	return s.table
}

// Names returns the category names the scorer knows, in table order.
func (s *Scorer) Names() []string {
	return s.table.Names()
}

// Score returns a non-negative relevance for cleaned text and categoryName.
// cleaned must already be normalized. The value is a ranking heuristic
// normalized by token count, not a probability.
func (s *Scorer) Score(cleaned, categoryName string) float64 {
	keywords, ok := s.table.Keywords(categoryName)
	if !ok {
		return 0
	}

	tokens := strings.Fields(cleaned)
	if len(tokens) == 0 {
		return 0
	}

	var acc float64
	for _, kw := range keywords {
		if strings.Contains(cleaned, kw) {
			acc += substringWeight
		}
		for _, tok := range tokens {
			if strings.Contains(tok, kw) || strings.Contains(kw, tok) {
				acc += tokenWeight
				break
			}
		}
	}

	return acc / float64(max(len(tokens), 1))
}

// Best normalizes note and returns the index into names of the highest
// scoring name. Ties go to the earliest name. ok is false when every
// score is zero or names is empty.
func (s *Scorer) Best(note string, names []string) (index int, ok bool) {
	cleaned := Normalize(note)

	best := 0.0
	index = -1
	for i, name := range names {
		if score := s.Score(cleaned, name); score > best {
			best = score
			index = i
		}
	}

	return index, index >= 0
}

// Suggest ranks every table category for text and returns up to three
// with a positive score, highest first. Confidence is the raw score
// times 100, rounded to one decimal.
func (s *Scorer) Suggest(text string) model.Suggestions {
	cleaned := Normalize(text)

	var scored model.Suggestions
	for _, name := range s.table.Names() {
		score := s.Score(cleaned, name)
		if score <= 0 {
			continue
		}
		scored = append(scored, model.Suggestion{Name: name, Confidence: score})
	}

	top := scored.TopN(model.MaxSuggestions)
	for i := range top {
		top[i].Confidence = model.RoundConfidence(top[i].Confidence)
	}
	return top
}
