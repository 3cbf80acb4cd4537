package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorer_Score(t *testing.T) {
	scorer := NewScorer(DefaultKeywordTable())

	tests := []struct {
		name     string
		note     string
		category string
		wantZero bool
	}{
		{name: "exact keywords", note: "lunch at restaurant", category: "Food"},
		{name: "no food keywords", note: "random text without food keywords", category: "Food", wantZero: true},
		{name: "the word food alone does not score", note: "food delivery", category: "Food", wantZero: true},
		{name: "delivery brand still scores", note: "swiggy food delivery", category: "Food"},
		{name: "unknown category", note: "lunch at restaurant", category: "Pets", wantZero: true},
		{name: "other has no keywords", note: "lunch at restaurant", category: "Other", wantZero: true},
		{name: "empty note", note: "", category: "Food", wantZero: true},
		{name: "regional brand", note: "ordered from swiggy", category: "Food"},
		{name: "transport", note: "uber ride to office", category: "Transport"},
		{name: "utilities", note: "electricity bill payment", category: "Utilities"},
		{name: "case sensitive category name", note: "lunch", category: "food", wantZero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := scorer.Score(Normalize(tt.note), tt.category)
			if tt.wantZero {
				assert.Zero(t, score)
			} else {
				assert.Greater(t, score, 0.0)
			}
		})
	}
}

func TestScorer_ScoreArithmetic(t *testing.T) {
	table, err := NewKeywordTable([]CategoryKeywords{
		{Name: "Pets", Keywords: []string{"vet", "pet food", "cat"}},
	})
	require.NoError(t, err)
	scorer := NewScorer(table)

	// "vet visit for cats":
	//   vet:      substring +1.0, token "vet" +0.5
	//   pet food: no substring, no token overlap
	//   cat:      substring +1.0 (in "cats"), token "cats" contains it +0.5
	// 3.0 / 4 tokens
	assert.InDelta(t, 0.75, scorer.Score("vet visit for cats", "Pets"), 1e-9)

	// token "pet" is contained in "pet food": +0.5 once, even though
	// no other token matches. 0.5 / 1 token
	assert.InDelta(t, 0.5, scorer.Score("pet", "Pets"), 1e-9)

	// Two tokens contained in the same keyword still count once.
	// "pet food": substring +1.0, token +0.5. "cat", "vet": nothing.
	assert.InDelta(t, 0.75, scorer.Score("pet food", "Pets"), 1e-9)
}

func TestScorer_UnknownNamesAlwaysZero(t *testing.T) {
	scorer := NewScorer(DefaultKeywordTable())
	notes := []string{"lunch", "uber ride", "electricity bill", "a", "x y z"}
	for _, name := range []string{"Pets", "Travel Plans", "OTHER", ""} {
		for _, note := range notes {
			assert.Zero(t, scorer.Score(Normalize(note), name), "%s/%s", name, note)
		}
	}
}

func TestScorer_Suggest(t *testing.T) {
	scorer := NewScorer(DefaultKeywordTable())

	got := scorer.Suggest("lunch at cafe with coffee")
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 3)
	assert.Equal(t, "Food", got[0].Name)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Confidence, got[i].Confidence)
	}

	assert.Empty(t, scorer.Suggest(""))
	assert.Empty(t, scorer.Suggest("!!!"))
}

func TestScorer_SuggestTiesKeepTableOrder(t *testing.T) {
	table, err := NewKeywordTable([]CategoryKeywords{
		{Name: "B", Keywords: []string{"shared"}},
		{Name: "A", Keywords: []string{"shared"}},
		{Name: "C", Keywords: []string{"shared"}},
		{Name: "D", Keywords: []string{"shared"}},
	})
	require.NoError(t, err)

	got := NewScorer(table).Suggest("shared")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"B", "A", "C"}, got.Names())
	assert.InDelta(t, 150.0, got[0].Confidence, 1e-9)
}

func TestScorer_Best(t *testing.T) {
	scorer := NewScorer(DefaultKeywordTable())

	idx, ok := scorer.Best("uber ride to office", []string{"Food", "Transport", "Other"})
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = scorer.Best("completely unrelated gibberish", []string{"Other"})
	assert.False(t, ok)

	_, ok = scorer.Best("lunch", nil)
	assert.False(t, ok)

	table, err := NewKeywordTable([]CategoryKeywords{
		{Name: "X", Keywords: []string{"same"}},
		{Name: "Y", Keywords: []string{"same"}},
	})
	require.NoError(t, err)
	idx, ok = NewScorer(table).Best("same", []string{"Y", "X"})
	require.True(t, ok)
	assert.Equal(t, 0, idx, "ties go to the first listed name")
}
