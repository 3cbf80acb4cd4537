package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/spendwise/internal/model"
)

func TestParseRankings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    model.Suggestions
	}{
		{
			name:    "well formed",
			content: "Grocery:85\nFood:10\nOther:5",
			want: model.Suggestions{
				{Name: "Grocery", Confidence: 85},
				{Name: "Food", Confidence: 10},
				{Name: "Other", Confidence: 5},
			},
		},
		{
			name:    "whitespace and decimals",
			content: "  Food : 72.5 \r\n Transport:20\n",
			want: model.Suggestions{
				{Name: "Food", Confidence: 72.5},
				{Name: "Transport", Confidence: 20},
			},
		},
		{
			name:    "malformed lines skipped",
			content: "Here are my picks:\nFood:high\nTransport:60\nA:B:3\n:40\nShopping 30\nOther:5",
			want: model.Suggestions{
				{Name: "Transport", Confidence: 60},
				{Name: "Other", Confidence: 5},
			},
		},
		{
			name:    "capped at three",
			content: "A:1\nB:2\nC:3\nD:4",
			want: model.Suggestions{
				{Name: "A", Confidence: 1},
				{Name: "B", Confidence: 2},
				{Name: "C", Confidence: 3},
			},
		},
		{
			name:    "non-finite scores skipped",
			content: "A:NaN\nB:Inf\nC:7",
			want:    model.Suggestions{{Name: "C", Confidence: 7}},
		},
		{
			name:    "nothing parseable",
			content: "I cannot help with that.",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRankings(tt.content, model.MaxSuggestions))
		})
	}
}

func TestMatchLabel(t *testing.T) {
	labels := []string{"Food", "Transport", "Other", "other"}

	tests := []struct {
		reply  string
		want   string
		wantOK bool
	}{
		{reply: "Food", want: "Food", wantOK: true},
		{reply: "  Transport\n", want: "Transport", wantOK: true},
		{reply: "TRANSPORT", want: "Transport", wantOK: true},
		{reply: "other", want: "other", wantOK: true},
		{reply: "OTHER", want: "Other", wantOK: true},
		{reply: "Travel", wantOK: false},
		{reply: "Food.", wantOK: false},
		{reply: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			got, ok := matchLabel(tt.reply, labels)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
