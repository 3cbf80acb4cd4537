package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestions_SortIsStable(t *testing.T) {
	s := Suggestions{
		{Name: "Utilities", Confidence: 50},
		{Name: "Food", Confidence: 80},
		{Name: "Shopping", Confidence: 50},
		{Name: "Transport", Confidence: 50},
	}

	s.Sort()

	assert.Equal(t, []string{"Food", "Utilities", "Shopping", "Transport"}, s.Names())
}

func TestSuggestions_TopN(t *testing.T) {
	tests := []struct {
		name string
		in   Suggestions
		n    int
		want []string
	}{
		{
			name: "fewer than n",
			in:   Suggestions{{Name: "A", Confidence: 1}},
			n:    3,
			want: []string{"A"},
		},
		{
			name: "truncates",
			in: Suggestions{
				{Name: "A", Confidence: 1},
				{Name: "B", Confidence: 4},
				{Name: "C", Confidence: 3},
				{Name: "D", Confidence: 2},
			},
			n:    3,
			want: []string{"B", "C", "D"},
		},
		{
			name: "zero",
			in:   Suggestions{{Name: "A", Confidence: 1}},
			n:    0,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.TopN(tt.n).Names())
		})
	}
}

func TestSuggestions_Top(t *testing.T) {
	var empty Suggestions
	assert.Nil(t, empty.Top())

	s := Suggestions{{Name: "A", Confidence: 1}, {Name: "B", Confidence: 2}}
	top := s.Top()
	require.NotNil(t, top)
	assert.Equal(t, "B", top.Name)
}

func TestSuggestion_Validate(t *testing.T) {
	assert.NoError(t, Suggestion{Name: "Food", Confidence: 85}.Validate())
	assert.Error(t, Suggestion{Name: "", Confidence: 85}.Validate())
	assert.Error(t, Suggestion{Name: "Food", Confidence: math.NaN()}.Validate())
}

func TestRoundConfidence(t *testing.T) {
	assert.InDelta(t, 66.7, RoundConfidence(2.0/3.0), 1e-9)
	assert.InDelta(t, 150.0, RoundConfidence(1.5), 1e-9)
	assert.InDelta(t, 0.0, RoundConfidence(0), 1e-9)
}
